package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
	if cfg.Points.Default != 25 {
		t.Errorf("Expected default points 25, got %d", cfg.Points.Default)
	}
	if cfg.Suggest.Delay != 1500*time.Millisecond {
		t.Errorf("Expected suggest delay 1.5s, got %s", cfg.Suggest.Delay)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  path: /tmp/board.db
log:
  level: debug
notify:
  mode: http
  endpoint: https://mail.example.com/send
  timeout: 3s
suggest:
  delay: 250ms
points:
  default: 40
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Path != "/tmp/board.db" {
		t.Errorf("Expected database path /tmp/board.db, got %s", cfg.Database.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Notify.Timeout != 3*time.Second {
		t.Errorf("Expected notify timeout 3s, got %s", cfg.Notify.Timeout)
	}
	if cfg.Suggest.Delay != 250*time.Millisecond {
		t.Errorf("Expected suggest delay 250ms, got %s", cfg.Suggest.Delay)
	}
	if cfg.Points.Default != 40 {
		t.Errorf("Expected default points 40, got %d", cfg.Points.Default)
	}
	// Untouched keys keep their defaults
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected default server addr :8080, got %s", cfg.Server.Addr)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")
	t.Setenv("CREWBOARD_LOG_LEVEL", "warn")
	t.Setenv("CREWBOARD_SERVER_ADDR", ":9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected env to override log level, got %s", cfg.Log.Level)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Expected env to override server addr, got %s", cfg.Server.Addr)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "database.dsn"},
		{"http without endpoint", func(c *Config) { c.Notify.Mode = "http" }, "notify.endpoint"},
		{"unknown notify mode", func(c *Config) { c.Notify.Mode = "smtp" }, "notify.mode"},
		{"points too low", func(c *Config) { c.Points.Default = 1 }, "points.default"},
		{"points too high", func(c *Config) { c.Points.Default = 500 }, "points.default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
