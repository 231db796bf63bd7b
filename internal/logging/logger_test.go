package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ziadkadry99/paradoxdash/internal/config"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		verbose bool
		want    zapcore.Level
	}{
		{"console info", config.LogConfig{Level: "info", Format: config.LogFormatConsole}, false, zapcore.InfoLevel},
		{"json warn", config.LogConfig{Level: "warn", Format: config.LogFormatJSON}, false, zapcore.WarnLevel},
		{"upper case", config.LogConfig{Level: "ERROR", Format: config.LogFormatJSON}, false, zapcore.ErrorLevel},
		{"empty level", config.LogConfig{Format: config.LogFormatConsole}, false, zapcore.InfoLevel},
		{"verbose wins", config.LogConfig{Level: "error", Format: config.LogFormatJSON}, true, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg, tt.verbose)
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.Level())
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", Format: config.LogFormatJSON}, false)
	assert.Error(t, err)
}
