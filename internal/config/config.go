// Package config holds the per-call selection settings.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultApplyLimit  = 6
	DefaultWindowDepth = 2
)

// Config is passed explicitly into every selection call.
type Config struct {
	Enabled     bool `yaml:"enabled" json:"enabled"`
	ApplyLimit  int  `yaml:"apply_limit" json:"apply_limit"`
	WindowDepth int  `yaml:"window_depth" json:"window_depth"`
	Debug       bool `yaml:"debug" json:"debug"`
}

// Default returns the stock settings.
func Default() Config {
	return Config{
		Enabled:     true,
		ApplyLimit:  DefaultApplyLimit,
		WindowDepth: DefaultWindowDepth,
	}
}

// Sanitize replaces non-positive limits with their defaults.
func (c Config) Sanitize() Config {
	if c.ApplyLimit <= 0 {
		c.ApplyLimit = DefaultApplyLimit
	}
	if c.WindowDepth <= 0 {
		c.WindowDepth = DefaultWindowDepth
	}
	return c
}

// Load builds a Config from defaults, an optional YAML file at path, and
// LOREBOOK_* environment variables (a .env file in the working directory is
// read first when present). Later sources override earlier ones.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Default(), errors.Wrap(err, "load .env")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg.Sanitize(), nil
}

func applyEnv(cfg *Config) error {
	if v, ok := lookup("LOREBOOK_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "LOREBOOK_ENABLED")
		}
		cfg.Enabled = b
	}
	if v, ok := lookup("LOREBOOK_APPLY_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "LOREBOOK_APPLY_LIMIT")
		}
		cfg.ApplyLimit = n
	}
	if v, ok := lookup("LOREBOOK_WINDOW_DEPTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "LOREBOOK_WINDOW_DEPTH")
		}
		cfg.WindowDepth = n
	}
	if v, ok := lookup("LOREBOOK_DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "LOREBOOK_DEBUG")
		}
		cfg.Debug = b
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
