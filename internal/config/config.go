package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/paradoxdash/internal/charts"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: PARADOXDASH_REFRESH__ENABLED -> refresh.enabled.
const EnvPrefix = "PARADOXDASH_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PARADOXDASH_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// A configured mount list replaces the default one instead of merging.
	if k.Exists("page.mounts") {
		cfg.Page.Mounts = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validFormats = map[LogFormat]bool{
	LogFormatJSON:    true,
	LogFormatConsole: true,
}

// Validate checks that the configuration contains valid values. The
// renderer name is not checked here; an unknown renderer is reported when
// the dashboard starts.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if c.Metrics.Source == "" {
		return fmt.Errorf("metrics.source is required")
	}
	if c.Metrics.Timeout <= 0 {
		return fmt.Errorf("metrics.timeout must be positive")
	}
	if c.Metrics.MaxBytes < 0 {
		return fmt.Errorf("metrics.max_bytes must be non-negative")
	}

	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive")
	}

	known := charts.NewLayout(charts.DefaultMounts...)
	for _, m := range c.Page.Mounts {
		if !known.Has(m) {
			return fmt.Errorf("unknown mount %q: must be one of %s", m, strings.Join(charts.DefaultMounts, ", "))
		}
	}

	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log.format %q: must be json or console", c.Log.Format)
	}

	return nil
}
