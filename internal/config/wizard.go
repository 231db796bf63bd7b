package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the result to
// path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to paradoxdash! Let's configure your dashboard.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Metrics source.
	sourcePrompt := promptui.Prompt{
		Label:   "Metrics source (URL or file path)",
		Default: cfg.Metrics.Source,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("source is required")
			}
			return nil
		},
	}
	source, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("metrics source: %w", err)
	}
	cfg.Metrics.Source = strings.TrimSpace(source)

	// 2. Periodic refresh.
	refreshPrompt := promptui.Select{
		Label: "Periodic refresh",
		Items: []string{
			"off: load once at startup",
			"interval: reload on a fixed period",
		},
	}
	refreshIdx, _, err := refreshPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("refresh selection: %w", err)
	}
	if refreshIdx == 1 {
		intervalPrompt := promptui.Prompt{
			Label:    "Refresh interval",
			Default:  cfg.Refresh.Interval.String(),
			Validate: validateInterval,
		}
		raw, err := intervalPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("refresh interval: %w", err)
		}
		cfg.Refresh.Enabled = true
		cfg.Refresh.Interval, _ = time.ParseDuration(raw)
	}

	// 3. Listen port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	port, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(port)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateInterval(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("not a duration: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	return nil
}

func validatePort(s string) error {
	p, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if p <= 0 || p > 65535 {
		return fmt.Errorf("port out of range")
	}
	return nil
}
