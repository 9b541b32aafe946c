// Package config loads client configuration from a YAML file with an
// environment variable overlay. Precedence: defaults, then the file, then
// EVENTHUB_* environment variables, then command-line flags (applied by
// the caller).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API   APIConfig   `yaml:"api"`
	State StateConfig `yaml:"state"`
}

type APIConfig struct {
	// BaseURL is the root of the EventHub backend, no trailing slash.
	BaseURL string        `yaml:"base_url" env:"EVENTHUB_API_URL"`
	Timeout time.Duration `yaml:"timeout" env:"EVENTHUB_API_TIMEOUT"`
}

type StateConfig struct {
	// Dir holds the persisted token. Empty means the XDG state path.
	Dir string `yaml:"dir" env:"EVENTHUB_STATE_DIR"`
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: 10 * time.Second,
		},
	}
}

// Load reads the config file at path and applies the environment
// overlay.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but tolerates a missing file, falling
// back to defaults plus the environment overlay.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	cfg = defaultConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}
