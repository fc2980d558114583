package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Rerank.JitterMin != -0.03 || cfg.Rerank.JitterMax != 0.12 {
		t.Errorf("unexpected jitter bounds %+v", cfg.Rerank)
	}
	if cfg.Evaluate.ConfidenceMin != 70 || cfg.Evaluate.ConfidenceMax != 95 {
		t.Errorf("unexpected confidence range %+v", cfg.Evaluate)
	}
	if cfg.Evaluate.RelevanceMin != 65 || cfg.Evaluate.RelevanceMax != 95 {
		t.Errorf("unexpected relevance range %+v", cfg.Evaluate)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("expected memory backend, got %s", cfg.Store.Backend)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "ragtour.yaml")

	content := `
store:
  backend: bolt
presentation:
  format: json
  pacing: 250ms
retrieve:
  cache_ttl: 1m
random:
  seed: 7
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Store.Backend != BackendBolt {
		t.Errorf("expected bolt backend, got %s", cfg.Store.Backend)
	}
	if cfg.Presentation.Pacing != 250*time.Millisecond {
		t.Errorf("expected 250ms pacing, got %s", cfg.Presentation.Pacing)
	}
	if cfg.Retrieve.CacheTTL != time.Minute {
		t.Errorf("expected 1m ttl, got %s", cfg.Retrieve.CacheTTL)
	}
	if cfg.Random.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Random.Seed)
	}
	// Unset fields keep their defaults.
	if cfg.Rerank.JitterMax != 0.12 {
		t.Errorf("expected default jitter max, got %f", cfg.Rerank.JitterMax)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ragtour.yaml")
	if err := os.WriteFile(configPath, []byte("store:\n  backend: redis\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(configPath); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected defaults, got level %s", cfg.Logging.Level)
	}

	if err := EnsureDataDir(tmpDir); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(tmpDir, DataDirName, "config.yaml")
	if err := os.WriteFile(nested, []byte("logging:\n  level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err = LoadFromDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected .ragtour/config.yaml to be read, got level %s", cfg.Logging.Level)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragtour.yaml")
	cfg := DefaultConfig()
	cfg.Presentation.Pacing = 2 * time.Second
	cfg.Fixture.Pattern = "fixtures/**/*.yaml"

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Presentation.Pacing != 2*time.Second || loaded.Fixture.Pattern != "fixtures/**/*.yaml" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvSeed, "42")
	t.Setenv(EnvStoreBackend, BackendBolt)

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "warn" || cfg.Random.Seed != 42 || cfg.Store.Backend != BackendBolt {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	t.Setenv(EnvSeed, "abc")
	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric seed")
	}
}

func TestStoreDBPath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.StoreDBPath("/proj"); got != filepath.Join("/proj", ".ragtour", "store.db") {
		t.Errorf("unexpected default path %s", got)
	}
	cfg.Store.Path = "data/vec.db"
	if got := cfg.StoreDBPath("/proj"); got != filepath.Join("/proj", "data", "vec.db") {
		t.Errorf("unexpected relative path %s", got)
	}
}
