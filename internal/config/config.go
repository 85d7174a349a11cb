// Package config loads errlens configuration from files and environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Level   string `mapstructure:"level"`
	Verbose bool   `mapstructure:"verbose"`

	// Default values for commands
	Defaults DefaultsConfig `mapstructure:"defaults"`

	// Storage collaborators (optional)
	Storage StorageConfig `mapstructure:"storage"`
}

// DefaultsConfig holds default values for the analyze/forecast commands.
type DefaultsConfig struct {
	// DataDir is where the JSON file connector looks for source batches.
	DataDir string `mapstructure:"data_dir"`

	// Sources restricts which source types are analyzed; empty = all.
	Sources []string `mapstructure:"sources"`

	// Limit caps documents fetched per source; zero = no cap.
	Limit int `mapstructure:"limit"`

	// HorizonDays is the forecast horizon.
	HorizonDays int `mapstructure:"horizon_days"`
}

// StorageConfig holds optional store connection settings.
type StorageConfig struct {
	PostgresDSN string `mapstructure:"postgres_dsn"`
	RedisAddr   string `mapstructure:"redis_addr"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Format: "text",
		Level:  "info",
		Defaults: DefaultsConfig{
			DataDir:     ".",
			HorizonDays: 7,
		},
	}
}

// Load loads configuration from files and environment.
// Config file search order (highest precedence first):
// 1. ./.errlens.yaml or ./.errlens.yml
// 2. ~/.errlens.yaml or ~/.errlens.yml
// 3. $XDG_CONFIG_HOME/errlens/config.yaml
// 4. /etc/errlens/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	if configFile := findConfigFile(); configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded.
func ConfigFile() string {
	return findConfigFile()
}

// findConfigFile searches for a config file in standard locations.
func findConfigFile() string {
	names := []string{".errlens.yaml", ".errlens.yml", "errlens.yaml", "errlens.yml"}

	var searchPaths []string
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "errlens"))
	}
	searchPaths = append(searchPaths, "/etc/errlens")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// applyEnvOverrides applies ERRLENS_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ERRLENS_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("ERRLENS_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("ERRLENS_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("ERRLENS_DATA_DIR"); v != "" {
		cfg.Defaults.DataDir = v
	}
	if v := os.Getenv("ERRLENS_HORIZON_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Defaults.HorizonDays = n
		}
	}
	if v := os.Getenv("ERRLENS_POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("ERRLENS_REDIS_ADDR"); v != "" {
		cfg.Storage.RedisAddr = v
	}
}
