package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/paradoxdash/internal/loader"
	"github.com/ziadkadry99/paradoxdash/internal/metrics"
)

var validateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Fetch and validate a metrics document",
	Long: `Fetches a metrics document from the given source, or metrics.source when omitted, and reports whether it is a valid snapshot.

The running dashboard applies every valid snapshot. Agents absent from the
document are removed from the charts and new agents are added.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.Metrics.Source = args[0]
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		l := newLoader(cfg, logger, nil)
		s, err := l.Fetch(context.Background())
		switch {
		case errors.Is(err, loader.ErrUnavailable):
			return fmt.Errorf("source %s unavailable: %w", l.Source(), err)
		case errors.Is(err, loader.ErrMalformed):
			return fmt.Errorf("source %s rejected: %w", l.Source(), err)
		case err != nil:
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid snapshot\n", l.Source())
		fmt.Fprintf(cmd.OutOrStdout(), "  turns:      %d (%d..%d)\n", len(s.Turns), s.Turns[0], s.Turns[len(s.Turns)-1])
		fmt.Fprintf(cmd.OutOrStdout(), "  diversity:  %s\n", strings.Join(s.Agents(metrics.FamilyDiversity), ", "))
		fmt.Fprintf(cmd.OutOrStdout(), "  self-ref:   %s\n", strings.Join(s.Agents(metrics.FamilySelfRef), ", "))
		fmt.Fprintf(cmd.OutOrStdout(), "  vocabulary: %d profiles\n", len(s.Vocabulary))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
