package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeTempConfig(t, `
algogrid:
  name: algogrid
  version: 1.0.0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Server.Address != "127.0.0.1:8800" {
		t.Fatalf("unexpected default server address: %s", cfg.Server.Address)
	}
	if cfg.API.HostURL != "http://127.0.0.1:5000" {
		t.Fatalf("unexpected default host url: %s", cfg.API.HostURL)
	}
	if cfg.API.Version != "v1" {
		t.Fatalf("unexpected default api version: %s", cfg.API.Version)
	}
	if cfg.Client.Timeout != 30*time.Second {
		t.Fatalf("unexpected default timeout: %s", cfg.Client.Timeout)
	}
}

func TestLoadConfigTrimsHostURL(t *testing.T) {
	path := writeTempConfig(t, `
algogrid:
  name: algogrid
  version: 1.0.0
api:
  host_url: http://127.0.0.1:5000///
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.API.HostURL != "http://127.0.0.1:5000" {
		t.Fatalf("host url not trimmed: %s", cfg.API.HostURL)
	}
}

func TestLoadConfigRejectsBadFormat(t *testing.T) {
	path := writeTempConfig(t, `
algogrid:
  name: algogrid
  version: 1.0.0
api:
  format: sideways
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for invalid format")
	}
}

func TestLoadConfigReadsKeyFromEnv(t *testing.T) {
	t.Setenv("OPENALGO_API_KEY", "  secret-key-1234  ")
	path := writeTempConfig(t, `
algogrid:
  name: algogrid
  version: 1.0.0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.API.Key != "secret-key-1234" {
		t.Fatalf("api key not read from environment: %q", cfg.API.Key)
	}
}
