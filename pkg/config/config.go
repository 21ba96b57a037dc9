// Package config loads co2dash settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/anrid/japan-co2/pkg/embed"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Embed   EmbedConfig   `yaml:"embed"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" env:"CO2DASH_ADDR"`
}

type DataConfig struct {
	// File is an optional dataset (.json, .xlsx, .xls) replacing the
	// built-in sample.
	File      string `yaml:"file" env:"CO2DASH_DATA_FILE"`
	ExportDir string `yaml:"export_dir" env:"CO2DASH_EXPORT_DIR"`
}

type EmbedConfig struct {
	BaseURL string `yaml:"base_url" env:"CO2DASH_EMBED_BASE_URL"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"CO2DASH_LOG_LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"CO2DASH_LOG_FORMAT"` // console or json
	File   string `yaml:"file" env:"CO2DASH_LOG_FILE"`     // empty logs to stderr
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Data: DataConfig{
			ExportDir: ".",
		},
		Embed: EmbedConfig{
			BaseURL: embed.DefaultBaseURL,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
