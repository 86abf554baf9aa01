package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("missing file should not report as existing")
	}
	if cfg.Cache.Backend != "file" {
		t.Fatalf("unexpected default backend %q", cfg.Cache.Backend)
	}
	if cfg.Segmentation.TargetAudibleMS != 2000 || cfg.Segmentation.MinAudibleMS != 150 {
		t.Fatalf("unexpected segmentation defaults: %+v", cfg.Segmentation)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[cache]
dir = "` + filepath.Join(dir, "cache") + `"
backend = "SQLite"

[segmentation]
target_audible_ms = 3000

[logging]
level = "DEBUG"
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected to load %s, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.Cache.Backend != "sqlite" {
		t.Fatalf("backend should normalize to lowercase, got %q", cfg.Cache.Backend)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging values should normalize: %+v", cfg.Logging)
	}
	if cfg.Segmentation.TargetAudibleMS != 3000 {
		t.Fatalf("expected target_audible_ms 3000, got %d", cfg.Segmentation.TargetAudibleMS)
	}
	// Untouched sections keep defaults.
	if cfg.Segmentation.MinAudibleMS != 150 {
		t.Fatalf("expected default min_audible_ms, got %d", cfg.Segmentation.MinAudibleMS)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Cache.Backend = "redis" }},
		{"empty cache dir", func(c *Config) { c.Cache.Dir = "" }},
		{"negative memo", func(c *Config) { c.Cache.MemoSize = -1 }},
		{"zero min audible", func(c *Config) { c.Segmentation.MinAudibleMS = 0 }},
		{"target below min", func(c *Config) { c.Segmentation.TargetAudibleMS = 100 }},
		{"zero seek step", func(c *Config) { c.Segmentation.SeekStepMS = 0 }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Cache.Dir = t.TempDir()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}

	got, err := ExpandPath("~/.cache/speechsplit")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if !strings.HasPrefix(got, home) {
		t.Fatalf("expected %q under %q", got, home)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("sample config must parse: %v", err)
	}
	if !exists {
		t.Fatal("sample config should exist after CreateSample")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config must validate: %v", err)
	}
}
