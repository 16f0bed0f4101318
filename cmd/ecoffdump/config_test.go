package main

import (
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.Strict != nil || cfg.Workers != nil {
		t.Fatalf("expected zero config, got %+v", cfg)
	}

	path := writeConfig(t, `
strict: true
workers: 3
log_level: debug
server_address: 0.0.0.0:9000
max_upload_bytes: 1048576
rate_limit: 2.5
rate_burst: 5
`)
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Strict == nil || !*cfg.Strict {
		t.Fatalf("strict = %v", cfg.Strict)
	}
	if cfg.Workers == nil || *cfg.Workers != 3 {
		t.Fatalf("workers = %v", cfg.Workers)
	}
	if cfg.LogLevel != "debug" || cfg.ServerAddress != "0.0.0.0:9000" {
		t.Fatalf("unexpected strings: %+v", cfg)
	}
	if *cfg.MaxUploadBytes != 1<<20 || *cfg.RateLimit != 2.5 || *cfg.RateBurst != 5 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}

	if _, err := LoadConfig(writeConfig(t, "strict: [")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
