package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mohammadpnp/mollie-import/internal/infrastructure/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `[mollie]
APIkey = live_abc123
ProfileID = pfl_1

[log]
file = /var/log/mollie-import.log
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.APIKey != "live_abc123" {
		t.Fatalf("unexpected api key: %s", cfg.APIKey)
	}
	if cfg.ProfileID != "pfl_1" {
		t.Fatalf("unexpected profile id: %s", cfg.ProfileID)
	}
	if cfg.LogFile != "/var/log/mollie-import.log" {
		t.Fatalf("unexpected log file: %s", cfg.LogFile)
	}
	if cfg.ImportBaseDir != "." {
		t.Fatalf("expected default base dir, got %s", cfg.ImportBaseDir)
	}
}

func TestLoadConfigMissingAPIKey(t *testing.T) {
	path := writeConfig(t, "[mollie]\nProfileID = pfl_1\n")

	_, err := config.Load(path)
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.ini"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MOLLIE_API_KEY", "env_key")

	path := writeConfig(t, "[mollie]\nAPIkey = file_key\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.APIKey != "env_key" {
		t.Fatalf("expected env override, got %s", cfg.APIKey)
	}
}
