package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_BASE_URL", "https://project.example.com/auth/v1")
	t.Setenv("AUTH_API_KEY", "public-anon-key")
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
auth:
  base_url: "https://project.example.com/auth/v1"
  api_key: "public-anon-key"
  request_timeout: "5s"
  oauth_redirect_url: "https://app.example.com/"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 5
  min_conns: 1

local:
  path: "./testdata/spendcheck.db"

log:
  level: "debug"
  format: "text"
`

func TestLoad_FromEnvOnly(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Auth.BaseURL != "https://project.example.com/auth/v1" {
		t.Errorf("BaseURL = %q", cfg.Auth.BaseURL)
	}
	if cfg.Auth.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout default = %v, want 10s", cfg.Auth.RequestTimeout)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("MaxConns default = %d, want 10", cfg.Database.MaxConns)
	}
	if cfg.Local.Path != "./data/spendcheck.db" {
		t.Errorf("Local.Path default = %q", cfg.Local.Path)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults = %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Auth.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.Auth.RequestTimeout)
	}
	if cfg.Database.MaxConns != 5 {
		t.Errorf("MaxConns = %d, want 5", cfg.Database.MaxConns)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Log.Format)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Level = %q, want env override", cfg.Log.Level)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			Auth: AuthConfig{
				BaseURL:        "https://project.example.com/auth/v1",
				APIKey:         "key",
				RequestTimeout: 10 * time.Second,
			},
			Database: DatabaseConfig{DSN: "postgres://localhost/db", MaxConns: 10, MinConns: 2},
			Local:    LocalConfig{Path: "./data/local.db"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "relative base url", mutate: func(c *Config) { c.Auth.BaseURL = "/auth/v1" }, wantErr: true},
		{name: "empty api key", mutate: func(c *Config) { c.Auth.APIKey = " " }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Auth.RequestTimeout = 0 }, wantErr: true},
		{name: "min conns above max", mutate: func(c *Config) { c.Database.MinConns = 20 }, wantErr: true},
		{name: "empty local path", mutate: func(c *Config) { c.Local.Path = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
