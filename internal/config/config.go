package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Cache contains fragment cache settings.
type Cache struct {
	Dir      string `toml:"dir"`
	Backend  string `toml:"backend"` // "file" or "sqlite"
	MemoSize int    `toml:"memo_size"`
	Locking  bool   `toml:"locking"`
}

// Segmentation contains the fragmenter knobs.
type Segmentation struct {
	MinAudibleMS    int `toml:"min_audible_ms"`
	TargetAudibleMS int `toml:"target_audible_ms"`
	SeekStepMS      int `toml:"seek_step_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for speechsplit.
type Config struct {
	Cache        Cache        `toml:"cache"`
	Segmentation Segmentation `toml:"segmentation"`
	Logging      Logging      `toml:"logging"`
}

// Default returns the repository defaults.
func Default() Config {
	return Config{
		Cache: Cache{
			Dir:      "~/.cache/speechsplit",
			Backend:  "file",
			MemoSize: 32,
		},
		Segmentation: Segmentation{
			MinAudibleMS:    150,
			TargetAudibleMS: 2000,
			SeekStepMS:      10,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/speechsplit/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error; defaults apply. The returned config has all path fields
// expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("speechsplit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	dir, err := ExpandPath(strings.TrimSpace(c.Cache.Dir))
	if err != nil {
		return err
	}
	c.Cache.Dir = dir
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("cache backend: unsupported value %q (use \"file\" or \"sqlite\")", c.Cache.Backend)
	}
	if c.Cache.Dir == "" {
		return errors.New("cache dir must not be empty")
	}
	if c.Cache.MemoSize < 0 {
		return fmt.Errorf("cache memo_size must not be negative, got %d", c.Cache.MemoSize)
	}
	if c.Segmentation.MinAudibleMS <= 0 {
		return fmt.Errorf("segmentation min_audible_ms must be positive, got %d", c.Segmentation.MinAudibleMS)
	}
	if c.Segmentation.TargetAudibleMS <= c.Segmentation.MinAudibleMS {
		return fmt.Errorf("segmentation target_audible_ms (%d) must exceed min_audible_ms (%d)",
			c.Segmentation.TargetAudibleMS, c.Segmentation.MinAudibleMS)
	}
	if c.Segmentation.SeekStepMS <= 0 {
		return fmt.Errorf("segmentation seek_step_ms must be positive, got %d", c.Segmentation.SeekStepMS)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// SQLitePath returns the cache database location for the sqlite backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.Cache.Dir, "fragments.db")
}

// LockPath returns the lock file used to serialize runs sharing a cache dir.
func (c *Config) LockPath() string {
	return filepath.Join(c.Cache.Dir, ".speechsplit.lock")
}

// ExpandPath resolves tilde shortcuts and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
