package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DataDirName is the per-project directory holding persisted state.
const DataDirName = ".ragtour"

// Environment overrides applied by ApplyEnv.
const (
	EnvLogLevel     = "RAGTOUR_LOG_LEVEL"
	EnvSeed         = "RAGTOUR_SEED"
	EnvStoreBackend = "RAGTOUR_STORE_BACKEND"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
)

// Config holds all configuration for the walkthrough engine.
type Config struct {
	Fixture      FixtureConfig      `yaml:"fixture"`
	Retrieve     RetrieveConfig     `yaml:"retrieve"`
	Rerank       RerankConfig       `yaml:"rerank"`
	Evaluate     EvaluateConfig     `yaml:"evaluate"`
	Store        StoreConfig        `yaml:"store"`
	Presentation PresentationConfig `yaml:"presentation"`
	Random       RandomConfig       `yaml:"random"`
	Server       ServerConfig       `yaml:"server"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// FixtureConfig selects the fixture. Both fields empty means the built-in one.
type FixtureConfig struct {
	Path    string `yaml:"path"`
	Pattern string `yaml:"pattern"` // doublestar glob under the root dir
}

// RetrieveConfig holds retrieval cache configuration.
type RetrieveConfig struct {
	CacheEnabled bool          `yaml:"cache_enabled"`
	CacheSize    int           `yaml:"cache_size"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

type RerankConfig struct {
	JitterMin float64 `yaml:"jitter_min"`
	JitterMax float64 `yaml:"jitter_max"`
}

type EvaluateConfig struct {
	ConfidenceMin int `yaml:"confidence_min"`
	ConfidenceMax int `yaml:"confidence_max"`
	RelevanceMin  int `yaml:"relevance_min"`
	RelevanceMax  int `yaml:"relevance_max"`
}

// StoreConfig holds vector store configuration.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "memory" or "bolt"
	Path    string `yaml:"path"`    // empty = <dir>/.ragtour/store.db
}

// PresentationConfig controls how stage records are rendered.
type PresentationConfig struct {
	Format   string        `yaml:"format"` // "text" or "json"
	Pacing   time.Duration `yaml:"pacing"`
	ShowTech bool          `yaml:"show_tech"`
}

type RandomConfig struct {
	Seed int64 `yaml:"seed"` // 0 = seeded from the clock
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Retrieve: RetrieveConfig{
			CacheEnabled: true,
			CacheSize:    64,
			CacheTTL:     10 * time.Minute,
		},
		Rerank: RerankConfig{
			JitterMin: -0.03,
			JitterMax: 0.12,
		},
		Evaluate: EvaluateConfig{
			ConfidenceMin: 70,
			ConfidenceMax: 95,
			RelevanceMin:  65,
			RelevanceMax:  95,
		},
		Store: StoreConfig{
			Backend: BackendMemory,
		},
		Presentation: PresentationConfig{
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for ragtour.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "ragtour.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, DataDirName, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendBolt:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Presentation.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown presentation format %q", c.Presentation.Format)
	}
	if c.Presentation.Pacing < 0 {
		return fmt.Errorf("pacing must not be negative")
	}
	return nil
}

// ApplyEnv overrides fields from RAGTOUR_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSeed)); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSeed, err)
		}
		c.Random.Seed = seed
	}
	if v := strings.TrimSpace(os.Getenv(EnvStoreBackend)); v != "" {
		c.Store.Backend = v
	}
	return c.Validate()
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StoreDBPath returns the bolt store path for dir, honouring store.path.
func (c *Config) StoreDBPath(dir string) string {
	if c.Store.Path != "" {
		if filepath.IsAbs(c.Store.Path) {
			return c.Store.Path
		}
		return filepath.Join(dir, c.Store.Path)
	}
	return StoreDBPath(dir)
}

// StoreDBPath returns the default path to the store database.
func StoreDBPath(dir string) string {
	return filepath.Join(dir, DataDirName, "store.db")
}

// EnsureDataDir ensures the .ragtour directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, DataDirName), 0755)
}
