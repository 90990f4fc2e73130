// Package config handles braid configuration loading.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/braid/internal/functor"
	"github.com/born-ml/braid/internal/log"
	"github.com/born-ml/braid/internal/parallel"
	"github.com/born-ml/braid/internal/tensor"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config is the root configuration structure.
type Config struct {
	Backend   string         `yaml:"backend"`
	Parallel  ParallelConfig `yaml:"parallel"`
	Log       LogConfig      `yaml:"log"`
	Tolerance float64        `yaml:"tolerance"`
}

// ParallelConfig controls the CPU contraction kernel.
type ParallelConfig struct {
	Enabled  bool `yaml:"enabled"`
	Workers  int  `yaml:"workers"`   // 0 means one per CPU
	MinChunk int  `yaml:"min_chunk"` // minimum output cells per goroutine
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level    string   `yaml:"level"`
	Sections []string `yaml:"sections"`
}

// Default returns the default configuration.
func Default() *Config {
	p := parallel.DefaultConfig()
	return &Config{
		Backend: "cpu",
		Parallel: ParallelConfig{
			Enabled:  p.Enabled,
			MinChunk: p.MinChunkSize,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Tolerance: 1e-9,
	}
}

// Parse reads YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	return Parse(data)
}

// LoadOrDefault loads config from path, or returns the default if path is
// empty or missing.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// Validate checks value ranges and that the backend is registered.
func (c *Config) Validate() error {
	if c.Parallel.Workers < 0 {
		return errors.Wrapf(ErrInvalid, "parallel.workers must be >= 0, got %d", c.Parallel.Workers)
	}
	if c.Parallel.MinChunk < 1 {
		return errors.Wrapf(ErrInvalid, "parallel.min_chunk must be >= 1, got %d", c.Parallel.MinChunk)
	}
	if c.Tolerance < 0 {
		return errors.Wrapf(ErrInvalid, "tolerance must be >= 0, got %g", c.Tolerance)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Wrapf(ErrInvalid, "log.level %q", c.Log.Level)
	}
	for _, name := range functor.Backends() {
		if name == c.Backend {
			return nil
		}
	}
	return errors.Wrapf(ErrInvalid, "backend %q is not registered", c.Backend)
}

// ParallelConfig converts the parallel section.
func (c *Config) ParallelConfig() parallel.Config {
	workers := c.Parallel.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return parallel.Config{
		Enabled:      c.Parallel.Enabled,
		NumWorkers:   workers,
		MinChunkSize: c.Parallel.MinChunk,
	}
}

// NewBackend builds the configured backend.
func (c *Config) NewBackend() (tensor.Backend, error) {
	return functor.Lookup(c.Backend, c.ParallelConfig())
}

// ConfigureLogging applies the log section to every braid logger.
func (c *Config) ConfigureLogging() {
	log.Configure(os.Stderr, log.ParseLevel(c.Log.Level), c.Log.Sections...)
}
