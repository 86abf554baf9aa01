package testsupport

import (
	"path/filepath"
	"testing"

	"speechsplit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp cache directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBackend selects the cache backend on the test config.
func WithBackend(backend string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Cache.Backend = backend
	}
}

// WithSegmentation overrides the fragmenter knobs on the test config.
func WithSegmentation(minAudible, targetAudible, seekStep int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Segmentation.MinAudibleMS = minAudible
		cfg.Segmentation.TargetAudibleMS = targetAudible
		cfg.Segmentation.SeekStepMS = seekStep
	}
}
