package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("no Anthropic API key configured")

// KeySource represents where an API key was loaded from.
type KeySource string

const (
	KeySourceEnv     KeySource = "environment"
	KeySourceConfig  KeySource = "config_file"
	KeySourceBedrock KeySource = "aws_bedrock"
	KeySourceNone    KeySource = "none"
)

// GetAPIKey returns the Anthropic API key. The environment variable wins over
// the config file.
func GetAPIKey(cfg *Config) (string, error) {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key, nil
	}
	if key, ok := configKey(cfg); ok {
		return key, nil
	}
	return "", ErrNoAPIKey
}

// configKey returns the config file key once env references are expanded.
// A reference to an unset variable does not count as a key.
func configKey(cfg *Config) (string, bool) {
	if cfg == nil || cfg.Anthropic.APIKey == "" {
		return "", false
	}
	key := os.ExpandEnv(cfg.Anthropic.APIKey)
	if key == "" || strings.HasPrefix(key, "${") {
		return "", false
	}
	return key, true
}

// NeedsAPIKey reports whether the configured client authenticates with an
// Anthropic key. Bedrock uses AWS credentials instead.
func NeedsAPIKey(cfg *Config) bool {
	return cfg == nil || !cfg.Anthropic.UseBedrock
}

// ValidateAPIKey performs a format check only; the key is not verified remotely.
func ValidateAPIKey(key string) error {
	if key == "" {
		return ErrNoAPIKey
	}
	if !strings.HasPrefix(key, "sk-ant-") {
		return errors.New("invalid API key format: expected 'sk-ant-' prefix")
	}
	if len(key) < 20 {
		return errors.New("invalid API key format: key too short")
	}
	return nil
}

// MaskAPIKey shows the first 7 and last 4 characters of a key.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 15 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

// GetAPIKeySource returns where the credentials for "ask" come from.
func GetAPIKeySource(cfg *Config) KeySource {
	if !NeedsAPIKey(cfg) {
		return KeySourceBedrock
	}
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return KeySourceEnv
	}
	if _, ok := configKey(cfg); ok {
		return KeySourceConfig
	}
	return KeySourceNone
}
