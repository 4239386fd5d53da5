package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dc "fuel-dashboard/domain/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Pipeline != dc.DefaultPipeline() {
		t.Fatalf("pipeline = %+v", cfg.Pipeline)
	}
	if cfg.Server.Addr != ":8080" || cfg.Auth.Enabled() {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
pipeline:
  apply_weekday_filter: false
  trailing_window_days: 7
  trailing_metric: MEAN
server:
  addr: ":9090"
  session_ttl: 30m
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := dc.Pipeline{ApplyWeekdayFilter: false, TrailingWindowDays: 7, TrailingMetric: dc.TrailingMean}
	if cfg.Pipeline != want {
		t.Fatalf("pipeline = %+v, want %+v", cfg.Pipeline, want)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.MaxUpload != "10M" || cfg.Server.SessionTTL != 30*time.Minute {
		t.Fatalf("server = %+v", cfg.Server)
	}
}

func TestLoadRejectsInvalidPipeline(t *testing.T) {
	for name, body := range map[string]string{
		"window": "pipeline:\n  trailing_window_days: 0\n",
		"metric": "pipeline:\n  trailing_metric: median\n",
	} {
		if _, err := Load(writeConfig(t, body)); err == nil || !strings.Contains(err.Error(), "invalid pipeline config") {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
	if _, err := Load(writeConfig(t, "server:\n  session_ttl: -1m\n")); err == nil {
		t.Error("expected error for negative session_ttl")
	}
}

func TestLoadAuth(t *testing.T) {
	if _, err := Load(writeConfig(t, "auth:\n  username: ops\n")); err == nil {
		t.Fatal("expected error for username without hash")
	}

	t.Setenv("FUEL_USERNAME", "ops")
	t.Setenv("FUEL_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	cfg, err := Load(writeConfig(t, "auth:\n  username: someone-else\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Auth.Enabled() || cfg.Auth.Username != "ops" {
		t.Fatalf("auth = %+v", cfg.Auth)
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/fuel.yml")
	if got := ResolvePath("custom.yml"); got != "custom.yml" {
		t.Fatalf("flag path = %s", got)
	}
	if got := ResolvePath(""); got != "/etc/fuel.yml" {
		t.Fatalf("env path = %s", got)
	}
	t.Setenv("CONFIG_PATH", "")
	if got := ResolvePath(""); got != DefaultPath {
		t.Fatalf("default path = %s", got)
	}
}
