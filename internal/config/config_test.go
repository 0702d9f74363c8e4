package config

import (
	"os"
	"testing"
	"time"
)

const sampleConfig = `
api:
  base_url: https://tutor.example.com
  timeout_seconds: 30
auth:
  email: student@example.com
  password: secret
log:
  level: debug
`

// TestLoad verifies that Load unmarshals the full configuration tree.
func TestLoad(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString(sampleConfig); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != "https://tutor.example.com" {
		t.Fatalf("unexpected base url: %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout() != 30*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.API.Timeout())
	}
	if cfg.Auth.Email != "student@example.com" {
		t.Fatalf("unexpected email: %s", cfg.Auth.Email)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.Log.Level)
	}
}

func TestAPIConfigTimeoutDefault(t *testing.T) {
	var c APIConfig
	if c.Timeout() != 60*time.Second {
		t.Fatalf("expected 60s default, got %v", c.Timeout())
	}
}
