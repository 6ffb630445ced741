package main

import (
	"testing"
	"time"

	"github.com/ShayCichocki/rosterlint/internal/config"
)

func TestConfigValueRoundTrip(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"anthropic.model", "claude-3-5-haiku-latest", "claude-3-5-haiku-latest"},
		{"anthropic.use_bedrock", "true", "true"},
		{"output.format", "yaml", "yaml"},
		{"OUTPUT.COLOR", "false", "false"},
		{"history.driver", "sqlite3", "sqlite3"},
		{"history.retention", "720h", "720h0m0s"},
		{"watch.debounce", "1s", "1s"},
		{"watch.metrics_addr", ":9090", ":9090"},
		{"anthropic.api_key", "sk-ant-REDACTED", "sk-ant-...wxyz"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := config.Default()
			if err := setConfigValue(cfg, tt.key, tt.value); err != nil {
				t.Fatalf("setConfigValue(%q) error = %v", tt.key, err)
			}
			got, err := getConfigValue(cfg, tt.key)
			if err != nil {
				t.Fatalf("getConfigValue(%q) error = %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("getConfigValue(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSetConfigValueErrors(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"output.color", "maybe"},
		{"watch.debounce", "soon"},
		{"defaults.tier", "builder"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := setConfigValue(config.Default(), tt.key, tt.value); err == nil {
				t.Errorf("setConfigValue(%q, %q) should fail", tt.key, tt.value)
			}
		})
	}
}

func TestConfigKeysAreReadable(t *testing.T) {
	cfg := config.Default()
	for _, key := range configKeys {
		if _, err := getConfigValue(cfg, key); err != nil {
			t.Errorf("getConfigValue(%q) error = %v", key, err)
		}
	}
	if got, _ := getConfigValue(cfg, "watch.debounce"); got != (250 * time.Millisecond).String() {
		t.Errorf("watch.debounce = %q", got)
	}
}
