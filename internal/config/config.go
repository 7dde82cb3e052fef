package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Tracks   string         `yaml:"tracks"`
	Content  []string       `yaml:"content"`
	Exclude  []string       `yaml:"exclude"`
}

// TALECRAFT_DB_DSN overrides the file value when set.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"TALECRAFT_DB_DSN"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := env.Parse(&cfg.Database); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if strings.TrimSpace(cfg.Tracks) == "" {
		cfg.Tracks = "tracks.yaml"
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	if len(cfg.Content) == 0 {
		return fmt.Errorf("at least one content path is required")
	}
	for i, p := range cfg.Content {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("content path %d is empty", i)
		}
	}
	return nil
}
