package orrery

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the settings of a standalone run. It is read from TOML:
//
//	title = "Solar System"
//	width = 1280
//	height = 720
//	asset_dir = "assets"
//	hot_reload = true
//	log_level = "debug"
type Config struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// AssetDir holds body textures and the sky cubemap.
	AssetDir    string `toml:"asset_dir"`
	// CatalogPath optionally replaces the default catalog with a YAML file.
	CatalogPath string `toml:"catalog"`

	// HotReload remounts the session when assets or the catalog change.
	HotReload bool   `toml:"hot_reload"`
	HUD       bool   `toml:"hud"`
	Debug     bool   `toml:"debug"`
	LogLevel  string `toml:"log_level"`

	// MetricsAddr serves Prometheus metrics when non-empty, e.g. ":9090".
	MetricsAddr   string `toml:"metrics_addr"`
	ScreenshotDir string `toml:"screenshot_dir"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Title:         "Solar System",
		Width:         1280,
		Height:        720,
		AssetDir:      "assets",
		HUD:           true,
		LogLevel:      "info",
		ScreenshotDir: "screenshots",
	}
}

// LoadConfig reads path over DefaultConfig. A missing file yields the
// defaults; a malformed one is an error.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig reads TOML from r over DefaultConfig and validates it.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be run.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. Debug forces slog.LevelDebug.
func (c Config) Level() (slog.Level, error) {
	if c.Debug {
		return slog.LevelDebug, nil
	}
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return lvl, nil
}

// Logger builds a text logger on w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.Level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
