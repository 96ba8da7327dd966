// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package config loads the lamina command's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"nickandperla.net/lamina/internal/eval"
)

// DefaultFile is the config file name looked up in the home directory.
const DefaultFile = ".lamina.yaml"

// Config holds the lamina command configuration. Zero values mean "use the
// default".
type Config struct {
	DB          string        `yaml:"db"`
	LogLevel    string        `yaml:"log_level"`
	PersistMode string        `yaml:"persist_mode"`
	MaxDepth    int           `yaml:"max_depth"`
	Seed        *int64        `yaml:"seed"`
	Timeout     time.Duration `yaml:"timeout"`
	HistorySize int           `yaml:"history_size"`
	NoStdlib    bool          `yaml:"no_stdlib"`
	Prelude     string        `yaml:"prelude"` // path to a prelude file replacing the built-in one
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DB:          envOrDefault("LAMINA_DB", "lamina.db"),
		LogLevel:    envOrDefault("LAMINA_LOG_LEVEL", "warn"),
		PersistMode: "on_demand",
		MaxDepth:    eval.DefaultMaxDepth,
		HistorySize: 500,
	}
}

// Load reads path over the defaults. An empty path tries DefaultFile in the
// home directory and is not an error when that file is absent.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, DefaultFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that have a fixed set of choices.
func (c Config) Validate() error {
	if _, ok := eval.ParsePersistMode(c.PersistMode); !ok {
		return fmt.Errorf("unknown persist mode %q (use on_demand, always, or never)", c.PersistMode)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

// Mode returns the parsed persist mode.
func (c Config) Mode() eval.PersistMode {
	m, _ := eval.ParsePersistMode(c.PersistMode)
	return m
}

// Level returns the parsed log level, warn when unset.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.WarnLevel
	}
	return lvl
}

// PreludeSource reads the configured prelude file, or returns "" when none
// is set.
func (c Config) PreludeSource() (string, error) {
	if c.Prelude == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Prelude)
	if err != nil {
		return "", fmt.Errorf("read prelude: %w", err)
	}
	return string(data), nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
