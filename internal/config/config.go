// Package config loads application configuration from TOML files with
// sensible defaults and optional live reload.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration.
type Config struct {
	Log  LogConfig  `toml:"log"`
	View ViewConfig `toml:"view"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn or error.
	Level string `toml:"level"`

	// File is the log destination path. Empty means stderr.
	File string `toml:"file"`
}

// ViewConfig configures view defaults for newly opened sessions.
type ViewConfig struct {
	// Timescale used when a waveform file declares none.
	Timescale string `toml:"timescale"`

	// MarkerPrefix is the name prefix for auto-created markers.
	MarkerPrefix string `toml:"marker_prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
		},
		View: ViewConfig{
			Timescale:    "1ns",
			MarkerPrefix: "m",
		},
	}
}

// Load reads configuration from path, layered over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}
