package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds CLI configuration stored at ~/.paramedit/config.
type Config struct {
	Theme         string `yaml:"theme"`
	VimKeys       bool   `yaml:"vim_keys"`
	LogLevel      string `yaml:"log_level,omitempty"`
	ConfirmRemove bool   `yaml:"confirm_remove"`
	WatchRecords  bool   `yaml:"watch_records"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Theme:         "dark",
		LogLevel:      "info",
		ConfirmRemove: true,
		WatchRecords:  true,
	}
}

// Dir returns the paramedit home directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".paramedit")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Load reads and parses the config file. Returns error if missing or insecure.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate rejects unknown log levels and themes.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config log_level %q unknown", c.LogLevel)
	}
	switch strings.ToLower(c.Theme) {
	case "", "dark", "light":
	default:
		return fmt.Errorf("config theme %q unknown", c.Theme)
	}
	return nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
