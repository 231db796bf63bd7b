package cmd

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/paradoxdash/internal/charts"
	"github.com/ziadkadry99/paradoxdash/internal/config"
	"github.com/ziadkadry99/paradoxdash/internal/dashboard"
	"github.com/ziadkadry99/paradoxdash/internal/loader"
	"github.com/ziadkadry99/paradoxdash/internal/logging"
	"github.com/ziadkadry99/paradoxdash/internal/telemetry"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `paradoxdash init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log, verbose)
}

func newLoader(cfg *config.Config, logger *zap.Logger, tm *telemetry.Metrics) *loader.Loader {
	return loader.New(loader.Config{
		Source:   cfg.Metrics.Source,
		Timeout:  cfg.Metrics.Timeout,
		MaxBytes: cfg.Metrics.MaxBytes,
	}, logger.Named("loader"), tm)
}

// dashboardOptions maps the page config onto bootstrap options. Live data,
// refresh and watching are left to the caller.
func dashboardOptions(cfg *config.Config, logger *zap.Logger, tm *telemetry.Metrics) dashboard.Options {
	notes, err := dashboard.LoadNotes(cfg.Page.NotesFile)
	if err != nil {
		logger.Warn("page notes unavailable", zap.Error(err))
	}
	return dashboard.Options{
		Renderer:   charts.LookupRenderer(cfg.Page.Renderer, cfg.Page.AssetsHost),
		Layout:     charts.NewLayout(cfg.Page.Mounts...),
		Title:      cfg.Page.Title,
		Notes:      notes,
		AssetsHost: cfg.Page.AssetsHost,
		Logger:     logger,
		Metrics:    tm,
	}
}

func bootstrapError(cfg *config.Config, err error) error {
	if errors.Is(err, dashboard.ErrNoRenderer) {
		return fmt.Errorf("%w: renderer %q is not available (supported: %s)", err, cfg.Page.Renderer, charts.EChartsName)
	}
	return fmt.Errorf("starting dashboard: %w", err)
}
