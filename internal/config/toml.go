// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Category  *string  `toml:"category"`
	Count     *int     `toml:"count"`
	Variant   *string  `toml:"variant"`
	TimeLimit *float64 `toml:"time-limit"`
	Options   *int     `toml:"options"`
	TickMs    *int     `toml:"tick-ms"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level      *string `toml:"level"`
	File       *string `toml:"file"`
	MaxSize    *int    `toml:"max-size"`
	MaxBackups *int    `toml:"max-backups"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
