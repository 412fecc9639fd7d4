package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: 127.0.0.1
  port: 8080
database:
  host: localhost
  port: 5432
  name: repquest
  user: repquest
  password: secret
auth:
  api_key: test-key
tailscale:
  enabled: true
  hostname: repquest
  state_dir: /var/lib/repquest/tsnet
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8080 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Database.Name != "repquest" || cfg.Database.Port != 5432 {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Auth.APIKey != "test-key" {
		t.Errorf("api key = %q", cfg.Auth.APIKey)
	}
	if !cfg.Tailscale.Enabled || cfg.Tailscale.Hostname != "repquest" {
		t.Errorf("tailscale = %+v", cfg.Tailscale)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REPQUEST_DB_HOST", "db.internal")
	t.Setenv("REPQUEST_DB_PORT", "6543")
	t.Setenv("REPQUEST_AUTH_API_KEY", "env-key")

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Host != "db.internal" {
		t.Errorf("db host = %q, want env override", cfg.Database.Host)
	}
	if cfg.Database.Port != 6543 {
		t.Errorf("db port = %d, want 6543", cfg.Database.Port)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("api key = %q, want env override", cfg.Auth.APIKey)
	}
	// Untouched values survive.
	if cfg.Database.Name != "repquest" {
		t.Errorf("db name = %q, want repquest", cfg.Database.Name)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing server port",
			yaml: `
database: {host: localhost, port: 5432, name: db, user: u}
auth: {api_key: k}
`,
		},
		{
			name: "missing database host",
			yaml: `
server: {port: 8080}
database: {port: 5432, name: db, user: u}
auth: {api_key: k}
`,
		},
		{
			name: "missing api key",
			yaml: `
server: {port: 8080}
database: {host: localhost, port: 5432, name: db, user: u}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.yaml)); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, Name: "repquest", User: "u", Password: "p"}
	want := "postgres://u:p@localhost:5432/repquest?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}

	d.SSLMode = "require"
	if got := d.DSN(); got != "postgres://u:p@localhost:5432/repquest?sslmode=require" {
		t.Errorf("DSN() = %q", got)
	}
}
