package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Storage.Driver != "jsonfile" {
			t.Errorf("default driver = %q, want jsonfile", cfg.Storage.Driver)
		}
		if cfg.Addr() != "0.0.0.0:8080" {
			t.Errorf("default addr = %q", cfg.Addr())
		}
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		body := `
server:
  port: "9090"
storage:
  driver: sqlite
  dsn: /tmp/t.db
jwt:
  expire_hour: 2
`
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Storage.Driver != "sqlite" || cfg.Storage.DSN != "/tmp/t.db" {
			t.Errorf("storage = %+v", cfg.Storage)
		}
		if cfg.Server.Port != "9090" {
			t.Errorf("port = %q", cfg.Server.Port)
		}
		if cfg.JWT.ExpireHour != 2 {
			t.Errorf("expire_hour = %d", cfg.JWT.ExpireHour)
		}
		// Unset keys keep their defaults.
		if cfg.Server.Host != "0.0.0.0" {
			t.Errorf("host = %q", cfg.Server.Host)
		}
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "memory")
		t.Setenv("JWT_SECRET", "from-env")
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Storage.Driver != "memory" {
			t.Errorf("driver = %q, want memory", cfg.Storage.Driver)
		}
		if cfg.JWT.Secret != "from-env" {
			t.Errorf("secret = %q", cfg.JWT.Secret)
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("server: ["), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Error("expected parse error")
		}
	})
}
