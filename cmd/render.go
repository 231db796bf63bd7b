package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/paradoxdash/internal/dashboard"
	"github.com/ziadkadry99/paradoxdash/internal/telemetry"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the dashboard to a standalone HTML page",
	Long:  `Bootstraps the charts once, loading the configured metrics source unless --sample-only is set, and writes every chart to a single HTML page.`,
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringP("out", "o", "dashboard.html", "output file, - for stdout")
	renderCmd.Flags().Bool("sample-only", false, "skip the metrics source and render the bundled sample")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	out, _ := cmd.Flags().GetString("out")
	sampleOnly, _ := cmd.Flags().GetBool("sample-only")

	tm := telemetry.New()
	opts := dashboardOptions(cfg, logger, tm)
	if !sampleOnly {
		opts.Load = newLoader(cfg, logger, tm).Load
	}

	dash, err := dashboard.Bootstrap(context.Background(), opts)
	if err != nil {
		return bootstrapError(cfg, err)
	}
	defer dash.Close()

	var w io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if err := dash.Coordinator().Export(w, cfg.Page.Title); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	if out != "-" {
		v := dash.Coordinator().View()
		fmt.Fprintf(os.Stderr, "Wrote %d charts to %s (data: %s)\n", len(v.Charts), out, v.Source)
	}
	return nil
}
