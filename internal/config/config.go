// Package config provides thread-safe configuration management for treestage.
// Settings live in a YAML file read through viper and may be overridden by
// TREESTAGE_* environment variables. Staging profiles are stored under the
// "profiles" key; completion markers are handled by Markers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const (
	fileName  = "config"
	fileType  = "yaml"
	envPrefix = "TREESTAGE"
)

// Config manages treestage configuration with thread-safe operations
type Config struct {
	filePath string
	v        *viper.Viper
	loaded   bool // Track if configuration has been loaded from disk
	mu       sync.RWMutex
}

// DefaultFilePath returns ~/.config/treestage/config.yaml
func DefaultFilePath() string {
	return filepath.Join(homeDir(), ".config", "treestage", fileName+"."+fileType)
}

// DefaultStateDir returns ~/.local/state/treestage
func DefaultStateDir() string {
	return filepath.Join(homeDir(), ".local", "state", "treestage")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return home
}

// New creates a new Config instance. An empty filePath selects DefaultFilePath.
func New(filePath string) *Config {
	if filePath == "" {
		filePath = DefaultFilePath()
	}
	return &Config{
		filePath: filePath,
		v:        newViper(filePath),
	}
}

func newViper(filePath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(filePath)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ensureLoaded loads configuration data from disk once before read operations.
// This method must only be called while holding c.mu.
func (c *Config) ensureLoaded() error {
	if c.loaded {
		return nil
	}
	return c.load()
}

// Load reads configuration from file
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *Config) load() error {
	// If file doesn't exist, that's okay - we'll create it on Save
	if _, err := os.Stat(c.filePath); os.IsNotExist(err) {
		c.loaded = true
		return nil
	}

	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", c.filePath, err)
	}

	c.loaded = true
	return nil
}

// save writes configuration to file using atomic write pattern.
// This method must only be called while holding c.mu.Lock.
func (c *Config) save() error {
	dir := filepath.Dir(c.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// viper picks the encoder from the extension, so keep .yaml last
	tmpFile, err := os.CreateTemp(dir, ".config-*."+fileType)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // Cleanup on error

	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := c.v.WriteConfigAs(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tmpPath, c.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file to config: %w", err)
	}

	return nil
}

// Get retrieves a configuration value (thread-safe)
func (c *Config) Get(key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if !c.v.IsSet(key) {
		return "", fmt.Errorf("config key not found: %s", key)
	}
	return c.v.GetString(key), nil
}

// GetOrDefault retrieves a value or returns default if not found (thread-safe)
// First checks the config, then the Defaults table, then the provided fallback
func (c *Config) GetOrDefault(key, defaultValue string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return defaultValue
	}
	if c.v.IsSet(key) {
		return c.v.GetString(key)
	}
	if tableDefault, exists := Defaults[key]; exists {
		return tableDefault
	}
	return defaultValue
}

// GetBool returns a boolean setting, falling back to the Defaults table
func (c *Config) GetBool(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err == nil && c.v.IsSet(key) {
		return c.v.GetBool(key)
	}
	return Defaults[key] == "true"
}

// GetInt returns an integer setting, falling back to the Defaults table and then fallback
func (c *Config) GetInt(key string, fallback int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err == nil && c.v.IsSet(key) {
		return c.v.GetInt(key)
	}
	if tableDefault, exists := Defaults[key]; exists {
		var n int
		if _, err := fmt.Sscanf(tableDefault, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}

// Set sets a configuration value and saves the file (thread-safe)
// Automatically loads existing configuration if not already loaded to prevent data loss
func (c *Config) Set(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return fmt.Errorf("failed to load existing config before set: %w", err)
	}

	c.v.Set(key, value)
	return c.save()
}

// Exists checks if a key exists (thread-safe)
func (c *Config) Exists(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return false
	}
	return c.v.IsSet(key)
}

// Delete removes a top-level configuration key (thread-safe)
func (c *Config) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return fmt.Errorf("failed to load existing config before delete: %w", err)
	}

	// viper cannot unset a key, so rebuild it from the remaining settings
	settings := c.v.AllSettings()
	delete(settings, strings.ToLower(key))

	next := newViper(c.filePath)
	if err := next.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("failed to rebuild config: %w", err)
	}
	c.v = next

	return c.save()
}

// FilePath returns the configuration file path
func (c *Config) FilePath() string {
	return c.filePath
}

// StateDir returns the directory holding markers and lock files
func (c *Config) StateDir() string {
	if dir := c.GetOrDefault(KeyStateDir, ""); dir != "" {
		return dir
	}
	return DefaultStateDir()
}

// MarkerDir returns the marker directory path
func (c *Config) MarkerDir() string {
	return filepath.Join(c.StateDir(), "markers")
}

// LockDir returns the destination lock directory path
func (c *Config) LockDir() string {
	return filepath.Join(c.StateDir(), "locks")
}
