// Package config loads the application configuration from a yaml file,
// with sensible defaults when none exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Storage backend names accepted in the config file.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// EnhanceConfig configures the AI description-enhancement call. The API
// key itself is not stored here: it is read from APIKeyEnv when the call
// is made.
type EnhanceConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// Config is the application configuration.
type Config struct {
	DataDir string        `yaml:"data_dir"`
	Storage string        `yaml:"storage"`
	Debug   bool          `yaml:"debug"`
	Enhance EnhanceConfig `yaml:"enhance"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Storage: StorageSQLite,
		Enhance: EnhanceConfig{
			Model:     "gemini-2.5-flash",
			APIKeyEnv: "GEMINI_API_KEY",
		},
	}
}

// Path returns the config file location: $VIDEOBOARD_CONFIG if set,
// otherwise the per-user config directory.
func Path() (string, error) {
	if custom := os.Getenv("VIDEOBOARD_CONFIG"); custom != "" {
		return custom, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", homeErr)
		}
		return filepath.Join(home, ".videoboard", "config.yaml"), nil
	}
	return filepath.Join(configDir, "videoboard", "config.yaml"), nil
}

// Load reads the config file at path, falling back to defaults when it
// does not exist. The data directory defaults next to the user's local
// share directory the way the config file defaults next to config.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// No file is fine; run on defaults.
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	if cfg.Storage != StorageSQLite && cfg.Storage != StorageFile {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// APIKey reads the enhancement API key from the configured environment
// variable. Empty means enhancement is unavailable.
func (c *Config) APIKey() string {
	if c.Enhance.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Enhance.APIKeyEnv)
}

// defaultDataDir follows XDG with a home-directory fallback.
func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "videoboard"), nil
}
