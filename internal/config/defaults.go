package config

import (
	"time"

	"github.com/ziadkadry99/paradoxdash/internal/charts"
	"github.com/ziadkadry99/paradoxdash/internal/loader"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".paradoxdash.yml"

// DefaultRefreshInterval is the period of the optional refresh loop.
const DefaultRefreshInterval = 60 * time.Second

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Metrics: MetricsConfig{
			Source:   "data/metrics.json",
			Timeout:  10 * time.Second,
			MaxBytes: loader.DefaultMaxBytes,
		},
		Refresh: RefreshConfig{
			Enabled:  false,
			Interval: DefaultRefreshInterval,
		},
		Page: PageConfig{
			Title:    "The Jeff Paradox",
			Renderer: charts.EChartsName,
			Mounts:   append([]string(nil), charts.DefaultMounts...),
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatConsole,
		},
	}
}
