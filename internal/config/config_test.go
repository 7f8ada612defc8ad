package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/arcflow/core/internal/config"
)

func TestLoadWithNoFilePresentReturnsDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected a resolved path even when absent")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("Storage.Driver = %q, want memory", cfg.Storage.Driver)
	}
	if cfg.Debug.Bind != "127.0.0.1:4756" {
		t.Fatalf("Debug.Bind = %q, want 127.0.0.1:4756", cfg.Debug.Bind)
	}
}

func TestLoadReadsExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arcflow.toml")

	data, err := toml.Marshal(config.Config{
		Storage: config.Storage{Driver: "sqlite", DSN: "file:test.db"},
	})
	if err != nil {
		t.Fatalf("toml.Marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.DSN != "file:test.db" {
		t.Fatalf("unexpected storage config: %+v", cfg.Storage)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ARCFLOW_STORAGE_DRIVER", "postgres")
	t.Setenv("ARCFLOW_BROADCAST_URL", "redis://localhost:6379")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Storage.Driver != "postgres" {
		t.Fatalf("Storage.Driver = %q, want postgres (from env)", cfg.Storage.Driver)
	}
	if !cfg.Broadcast.Enabled || cfg.Broadcast.URL != "redis://localhost:6379" {
		t.Fatalf("Broadcast = %+v, want enabled with env URL", cfg.Broadcast)
	}
}
