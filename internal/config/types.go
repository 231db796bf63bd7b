package config

import "time"

// LogFormat selects the zap encoder.
type LogFormat string

const (
	LogFormatJSON    LogFormat = "json"
	LogFormatConsole LogFormat = "console"
)

// Config is the top-level paradoxdash configuration, corresponding to .paradoxdash.yml.
type Config struct {
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Metrics MetricsConfig `yaml:"metrics" koanf:"metrics"`
	Refresh RefreshConfig `yaml:"refresh" koanf:"refresh"`
	Page    PageConfig    `yaml:"page" koanf:"page"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// MetricsConfig describes where live snapshots come from.
type MetricsConfig struct {
	Source   string        `yaml:"source" koanf:"source"`
	Timeout  time.Duration `yaml:"timeout" koanf:"timeout"`
	MaxBytes int64         `yaml:"max_bytes" koanf:"max_bytes"`
	// Watch triggers a refresh when a file source changes on disk.
	Watch bool `yaml:"watch" koanf:"watch"`
}

// RefreshConfig controls periodic reconciliation. Disabled unless set.
type RefreshConfig struct {
	Enabled  bool          `yaml:"enabled" koanf:"enabled"`
	Interval time.Duration `yaml:"interval" koanf:"interval"`
}

// PageConfig describes the hosting page.
type PageConfig struct {
	Title      string   `yaml:"title" koanf:"title"`
	Renderer   string   `yaml:"renderer" koanf:"renderer"`
	Mounts     []string `yaml:"mounts" koanf:"mounts"`
	NotesFile  string   `yaml:"notes_file" koanf:"notes_file"`
	AssetsHost string   `yaml:"assets_host" koanf:"assets_host"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string    `yaml:"level" koanf:"level"`
	Format LogFormat `yaml:"format" koanf:"format"`
}
