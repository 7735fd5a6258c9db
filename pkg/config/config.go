// Package config loads optional CLI defaults from a YAML config file
// and the environment. Precedence, lowest to highest: built-in
// defaults, config file, .env / environment variables, command-line
// flags (applied by the caller).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the tunable defaults for the CLI and MCP server.
type Config struct {
	DBPath        string `yaml:"db_path"`
	WAL           bool   `yaml:"wal"`
	Sync          string `yaml:"sync"`
	Notifications bool   `yaml:"notifications"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sync:          "FULL",
		Notifications: true,
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "seedling.yaml"
	}
	return filepath.Join(homeDir, ".config", "seedling", "config.yaml")
}

// Load builds the effective configuration from path (or the default
// location when empty). A missing config file is not an error; a
// malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file '%s': %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	// .env in the working directory, if present, feeds the same
	// environment variables the shell could set.
	_ = godotenv.Load()

	if v := os.Getenv("SEEDLING_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SEEDLING_WAL"); v != "" {
		if wal, err := strconv.ParseBool(v); err == nil {
			cfg.WAL = wal
		}
	}
	if v := os.Getenv("SEEDLING_SYNC"); v != "" {
		cfg.Sync = v
	}
	if v := os.Getenv("SEEDLING_NOTIFICATIONS"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Notifications = enabled
		}
	}

	return cfg, nil
}
