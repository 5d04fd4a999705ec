package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the flat quill configuration.
type Config struct {
	DefaultProfile  string        `yaml:"default_profile"`
	DefaultTimezone string        `yaml:"default_timezone"`
	ArchiveRoot     string        `yaml:"archive_root,omitempty"`
	VerifyTimeout   time.Duration `yaml:"verify_timeout,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		DefaultProfile:  "writer",
		DefaultTimezone: "UTC",
	}
}

// LoadConfig reads ~/.quill/config.yaml, or the file at dir when dir is
// non-empty. A missing file is not an error; defaults apply.
func LoadConfig(dir string) (*Config, error) {
	path, err := configPath(dir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config file, creating the directory if needed.
func SaveConfig(dir string, cfg *Config) error {
	path, err := configPath(dir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func configPath(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".quill")
	}
	return filepath.Join(dir, "config.yaml"), nil
}
