package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"speechsplit/internal/config"
	"speechsplit/internal/fragcache"
	"speechsplit/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		// Tag every line of this invocation for correlation.
		c.logger = logger.With(logging.String("run_id", uuid.NewString()))
	})
	return c.logger, c.loggerErr
}

// openStore builds the configured cache store. The returned closer is a
// no-op for the file backend.
func (c *commandContext) openStore() (fragcache.Store, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Cache.Backend == "sqlite" {
		store, err := fragcache.OpenSQLiteStore(cfg.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return fragcache.NewFileStore(cfg.Cache.Dir), func() error { return nil }, nil
}
