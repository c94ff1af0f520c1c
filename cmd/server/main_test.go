package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vecdb-go/internal/config"
)

func TestSetupLogging(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		expected slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"warning level", "warning", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"default level", "unknown", slog.LevelInfo},
		{"uppercase", "DEBUG", slog.LevelDebug},
		{"mixed case", "WaRn", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogging(tt.logLevel)

			ctx := context.Background()
			assert.True(t, slog.Default().Enabled(ctx, tt.expected))
			assert.False(t, slog.Default().Enabled(ctx, tt.expected-1))
		})
	}
}

func TestSetupGinMode(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		expected string
	}{
		{"debug mode", "debug", gin.DebugMode},
		{"release mode for info", "info", gin.ReleaseMode},
		{"release mode for error", "error", gin.ReleaseMode},
		{"release mode for warn", "warn", gin.ReleaseMode},
		{"release mode for unknown", "unknown", gin.ReleaseMode},
		{"uppercase debug", "DEBUG", gin.DebugMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupGinMode(tt.logLevel)
			assert.Equal(t, tt.expected, gin.Mode())
		})
	}
}

func TestLoadConfigFallsBackToDefaultWithoutPath(t *testing.T) {
	cfg, err := loadConfig("", "dev")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
