package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %q, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("expected output.color to be true")
	}
	if !cfg.History.Enabled {
		t.Error("expected history.enabled to be true")
	}
	if cfg.History.Driver != "sqlite" {
		t.Errorf("History.Driver = %q, want sqlite", cfg.History.Driver)
	}
	if cfg.History.Path != ".rosterlint/history.db" {
		t.Errorf("History.Path = %q", cfg.History.Path)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 250ms", cfg.Watch.Debounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
anthropic:
  api_key: test-key
  model: claude-3-5-haiku-latest
  use_bedrock: true
  aws_region: us-west-2
output:
  format: json
  color: false
history:
  enabled: false
  driver: sqlite3
  retention: 720h
watch:
  debounce: 1s
  metrics_addr: ":9090"
log:
  path: /tmp/rosterlint.log
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("Anthropic.APIKey = %q, want test-key", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Model != "claude-3-5-haiku-latest" {
		t.Errorf("Anthropic.Model = %q", cfg.Anthropic.Model)
	}
	if !cfg.Anthropic.UseBedrock || cfg.Anthropic.AWSRegion != "us-west-2" {
		t.Errorf("bedrock settings = %+v", cfg.Anthropic)
	}
	if cfg.Output.Format != "json" || cfg.Output.Color {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.History.Enabled {
		t.Error("expected history.enabled to be false")
	}
	if cfg.History.Driver != "sqlite3" {
		t.Errorf("History.Driver = %q, want sqlite3", cfg.History.Driver)
	}
	if cfg.History.Retention != 720*time.Hour {
		t.Errorf("History.Retention = %v, want 720h", cfg.History.Retention)
	}
	// Unset keys keep their defaults.
	if cfg.History.Path != ".rosterlint/history.db" {
		t.Errorf("History.Path = %q, want the default", cfg.History.Path)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Watch.Debounce = %v, want 1s", cfg.Watch.Debounce)
	}
	if cfg.Watch.MetricsAddr != ":9090" {
		t.Errorf("Watch.MetricsAddr = %q", cfg.Watch.MetricsAddr)
	}
	if cfg.Log.Path != "/tmp/rosterlint.log" {
		t.Errorf("Log.Path = %q", cfg.Log.Path)
	}
}

func TestLoadFromPathRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"format", "output:\n  format: xml\n", "output.format"},
		{"driver", "history:\n  driver: postgres\n", "history.driver"},
		{"debounce", "watch:\n  debounce: 0s\n", "watch.debounce"},
		{"retention", "history:\n  retention: -1h\n", "history.retention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromPath(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFromPath() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Output.Format = "yaml"
	cfg.History.Retention = 48 * time.Hour
	cfg.Watch.MetricsAddr = "127.0.0.1:9100"
	if err := saveTo(cfg, path); err != nil {
		t.Fatalf("saveTo() error = %v", err)
	}

	got, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if got.Output.Format != "yaml" {
		t.Errorf("Output.Format = %q, want yaml", got.Output.Format)
	}
	if got.History.Retention != 48*time.Hour {
		t.Errorf("History.Retention = %v, want 48h", got.History.Retention)
	}
	if got.Watch.MetricsAddr != "127.0.0.1:9100" {
		t.Errorf("Watch.MetricsAddr = %q", got.Watch.MetricsAddr)
	}
}

func TestLoadMergesProjectConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "")

	project := t.TempDir()
	nested := filepath.Join(project, "data", "q3")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	content := "output:\n  format: json\n"
	if err := os.WriteFile(filepath.Join(project, ProjectConfigName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	prevDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevDir) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want json from the project config", cfg.Output.Format)
	}
	if cfg.History.Driver != "sqlite" {
		t.Errorf("History.Driver = %q, want the default", cfg.History.Driver)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "expanded-value")

	if got := expandEnv("${TEST_VAR}"); got != "expanded-value" {
		t.Errorf("expandEnv() = %q, want expanded-value", got)
	}
	if got := expandEnv("prefix-${TEST_VAR}-suffix"); got != "prefix-expanded-value-suffix" {
		t.Errorf("expandEnv() = %q", got)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	if got := getUserConfigDir(); got != "/custom/config/rosterlint" {
		t.Errorf("getUserConfigDir() = %q, want /custom/config/rosterlint", got)
	}
	if got := GetUserConfigPath(); got != "/custom/config/rosterlint/config.yaml" {
		t.Errorf("GetUserConfigPath() = %q", got)
	}
}
