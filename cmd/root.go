package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/paradoxdash/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "paradoxdash",
	Short: "Live metrics dashboard for The Jeff Paradox experiment",
	Long: `paradoxdash renders the convergence, diversity, game-state and
self-reference metrics of The Jeff Paradox experiment. Charts start from a
bundled sample and are updated in place whenever a valid metrics snapshot
is loaded from the configured source.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
