// Package cli implements the mosaic command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/internal/config"
	"github.com/matzehuels/mosaic/internal/workspace"
	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "mosaic"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Flags shared by every command.
	configPath string
	key        string
	backend    string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file once and applies flag overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.key != "" {
		cfg.Key = c.key
	}
	if c.backend != "" {
		cfg.Storage.Backend = c.backend
	}
	c.cfg = cfg
	return cfg, nil
}

// registerHooks routes workspace and storage events to the debug log.
func (c *CLI) registerHooks() {
	hooks := &logHooks{logger: c.Logger}
	observability.SetLayoutHooks(hooks)
	observability.SetStoreHooks(hooks)
	observability.SetHTTPHooks(hooks)
}

// =============================================================================
// Workspace Factory
// =============================================================================

// openStore opens the configured snapshot store.
func (c *CLI) openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	sc := cfg.StoreConfig()
	var s store.Store
	err := withSpinner(ctx, fmt.Sprintf("Connecting to %s store", backendName(sc.Backend)), isRemote(sc.Backend), func() error {
		var err error
		s, err = store.Open(ctx, sc)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened store", "backend", backendName(sc.Backend), "key", cfg.Key)
	return s, nil
}

// openWorkspace opens the configured store and loads the layout from it.
// The returned close function releases the store.
func (c *CLI) openWorkspace(ctx context.Context) (*workspace.Workspace, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := c.openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := s.Close(); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}

	ws, err := workspace.Open(ctx, s, cfg.Key, c.Logger)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return ws, closeStore, nil
}

func backendName(b string) string {
	if b == "" {
		return store.BackendFile
	}
	return b
}

func isRemote(backend string) bool {
	return backend == store.BackendRedis || backend == store.BackendMongo
}

// stdout is where command output goes; tests replace it.
var stdout io.Writer = os.Stdout
