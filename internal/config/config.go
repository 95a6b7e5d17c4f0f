// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// DRM device configuration
	Device DeviceConfig `mapstructure:"device"`

	// Plane allocator tuning
	Allocator AllocatorConfig `mapstructure:"allocator"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// DeviceConfig selects the DRM card node and its plane capacity
type DeviceConfig struct {
	Path      string `mapstructure:"path"`
	PlanesCap int    `mapstructure:"planes_cap"` // 0 means use the kernel's plane count
}

// AllocatorConfig contains settings consumed by the per-cycle driver
type AllocatorConfig struct {
	PriorityPeriod int `mapstructure:"priority_period"` // Page flips per priority window
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Device: DeviceConfig{
			Path:      "/dev/dri/card0",
			PlanesCap: 0,
		},
		Allocator: AllocatorConfig{
			PriorityPeriod: 60,
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("liftoff")
	viper.SetConfigType("toml")

	// If a specific path is set, use only that
	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		// Add config paths in order of precedence
		viper.AddConfigPath("/etc/liftoff")

		if home := os.Getenv("HOME"); home != "" && home != "/root" {
			viper.AddConfigPath(filepath.Join(home, ".config", "liftoff"))
		}

		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	// Set defaults - need to set individual fields for proper merging
	viper.SetDefault("device.path", DefaultConfig.Device.Path)
	viper.SetDefault("device.planes_cap", DefaultConfig.Device.PlanesCap)

	viper.SetDefault("allocator.priority_period", DefaultConfig.Allocator.PriorityPeriod)

	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	viper.SetEnvPrefix("LIFTOFF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	loaded := &Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	if c.Device.Path == "" {
		return fmt.Errorf("device.path must not be empty")
	}
	if c.Device.PlanesCap < 0 {
		return fmt.Errorf("device.planes_cap must be >= 0, got %d", c.Device.PlanesCap)
	}
	if c.Allocator.PriorityPeriod < 1 {
		return fmt.Errorf("allocator.priority_period must be >= 1, got %d", c.Allocator.PriorityPeriod)
	}
	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		defaults := DefaultConfig
		return &defaults
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		if os.IsPermission(err) && strings.Contains(configPath, "/etc/") {
			return fmt.Errorf("failed to create config directory %s: permission denied. Try running with sudo", dir)
		}
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	current := Get()
	viper.Set("device.path", current.Device.Path)
	viper.Set("device.planes_cap", current.Device.PlanesCap)
	viper.Set("allocator.priority_period", current.Allocator.PriorityPeriod)
	viper.Set("logging.log_level", current.Logging.LogLevel)

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	if os.Getuid() == 0 {
		return "/etc/liftoff/liftoff.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/liftoff/liftoff.toml"
	}

	return filepath.Join(home, ".config", "liftoff", "liftoff.toml")
}
