package orrery

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.toml")
	data := `
title = "Inner Planets"
width = 1920
height = 1080
catalog = "bodies.yaml"
hot_reload = true
log_level = "warn"
metrics_addr = ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Inner Planets", cfg.Title)
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, 1080, cfg.Height)
	assert.Equal(t, "bodies.yaml", cfg.CatalogPath)
	assert.True(t, cfg.HotReload)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	// Unset keys keep their defaults.
	assert.Equal(t, "assets", cfg.AssetDir)
	assert.True(t, cfg.HUD)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestDecodeConfigErrors(t *testing.T) {
	cases := map[string]string{
		"malformed":     `width = `,
		"unknown field": `colour = "red"`,
		"bad size":      `width = 0`,
		"bad level":     `log_level = "loud"`,
		"wrong type":    `height = "tall"`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeConfig(strings.NewReader(data))
			assert.Error(t, err)
		})
	}
}

func TestConfigDebugForcesDebugLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "error"
	cfg.Debug = true
	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestConfigLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	var buf bytes.Buffer
	log := cfg.Logger(&buf)

	log.Info("hidden")
	log.Warn("shown", "body", "Mars")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "body=Mars")
}
