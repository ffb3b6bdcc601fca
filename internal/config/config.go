// Package config loads solver options from a JSON configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/objectx/bullsat/internal/sat"
)

// Config mirrors sat.Options in a file-friendly form. Omitted fields keep
// the solver defaults.
type Config struct {
	MaxConflicts   int64   `mapstructure:"maxConflicts"`
	TimeoutSeconds float64 `mapstructure:"timeoutSeconds"`
}

// Load reads and decodes the configuration file at the given path.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	raw := map[string]interface{}{}
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("cannot parse config file %q: %w", path, err)
	}

	cfg := &Config{MaxConflicts: -1, TimeoutSeconds: -1}
	if err := mapstructure.Decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config file %q: %w", path, err)
	}

	return cfg, nil
}

// Options converts the configuration into solver options.
func (c *Config) Options() sat.Options {
	options := sat.DefaultOptions
	if c.MaxConflicts >= 0 {
		options.MaxConflicts = c.MaxConflicts
	}
	if c.TimeoutSeconds >= 0 {
		options.Timeout = time.Duration(c.TimeoutSeconds * float64(time.Second))
	}
	return options
}
