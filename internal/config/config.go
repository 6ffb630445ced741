// Package config handles configuration loading and management for rosterlint.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ProjectConfigName is the file searched for in the working directory and its parents.
const ProjectConfigName = ".rosterlint.yaml"

// Config holds all configuration for rosterlint.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Output    OutputConfig    `mapstructure:"output"`
	History   HistoryConfig   `mapstructure:"history"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Log       LogConfig       `mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings used by "ask".
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	// Format is text, json or yaml.
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// HistoryConfig holds run history settings.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Path is relative to the project root unless absolute.
	Path string `mapstructure:"path"`
	// Driver is "sqlite" (pure Go) or "sqlite3" (cgo).
	Driver string `mapstructure:"driver"`
	// Retention bounds how long runs are kept; zero keeps everything.
	Retention time.Duration `mapstructure:"retention"`
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	Debounce    time.Duration `mapstructure:"debounce"`
	MetricsAddr string        `mapstructure:"metrics_addr"`
}

// LogConfig holds debug log settings.
type LogConfig struct {
	// Path is the debug log file; empty disables logging.
	Path string `mapstructure:"path"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.rosterlint.yaml in current directory or parent)
// 3. User config (~/.config/rosterlint/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config %s: %w", projectConfig, err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path over the defaults.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated and bounded settings.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output.format: unknown format %q (want text, json or yaml)", c.Output.Format)
	}
	switch c.History.Driver {
	case "sqlite", "sqlite3":
	default:
		return fmt.Errorf("history.driver: unknown driver %q (want sqlite or sqlite3)", c.History.Driver)
	}
	if c.History.Retention < 0 {
		return fmt.Errorf("history.retention: must not be negative, got %s", c.History.Retention)
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce: must be positive, got %s", c.Watch.Debounce)
	}
	return nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return saveTo(cfg, filepath.Join(userConfigDir, "config.yaml"))
}

func saveTo(cfg *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("output.format", cfg.Output.Format)
	v.Set("output.color", cfg.Output.Color)
	v.Set("history.enabled", cfg.History.Enabled)
	v.Set("history.path", cfg.History.Path)
	v.Set("history.driver", cfg.History.Driver)
	v.Set("history.retention", cfg.History.Retention.String())
	v.Set("watch.debounce", cfg.Watch.Debounce.String())
	v.Set("watch.metrics_addr", cfg.Watch.MetricsAddr)
	v.Set("log.path", cfg.Log.Path)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("output.format", "text")
	v.SetDefault("output.color", true)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", ".rosterlint/history.db")
	v.SetDefault("history.driver", "sqlite")
	v.SetDefault("history.retention", "0s")

	v.SetDefault("watch.debounce", "250ms")
	v.SetDefault("watch.metrics_addr", "")

	v.SetDefault("log.path", "")
}

// getUserConfigDir returns the XDG config directory for rosterlint.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "rosterlint")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "rosterlint")
	}
	return filepath.Join(home, ".config", "rosterlint")
}

// findProjectConfig searches for .rosterlint.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ProjectConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".rosterlint/history.db",
			Driver:  "sqlite",
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
	}
}
