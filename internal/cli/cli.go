// Package cli implements the blocksets command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blocksets/pkg/archive"
	"github.com/matzehuels/blocksets/pkg/buildinfo"
	"github.com/matzehuels/blocksets/pkg/cache"
	"github.com/matzehuels/blocksets/pkg/errors"
	"github.com/matzehuels/blocksets/pkg/observability"
	"github.com/matzehuels/blocksets/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "blocksets"

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

	configPath string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Blocksets decomposes statement/entity layout instances",
		Long: `Blocksets splits layout instances into bounded-size, self-consistent parts
by deleting a few entities and duplicating them into every part they touch,
so that each part can be handed to a layout solver on its own.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			c.registerHooks()
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/blocksets/config.toml)")

	root.AddCommand(c.splitCommand())
	root.AddCommand(c.decomposeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// registerHooks routes pipeline, cache and HTTP events to the debug log.
func (c *CLI) registerHooks() {
	h := &logHooks{logger: c.Logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// cfg returns the loaded configuration, or the defaults when the root
// pre-run hook has not executed (as in tests calling commands directly).
func (c *CLI) cfg() *Config {
	if c.config == nil {
		c.config = defaultConfig()
	}
	return c.config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The archive is only
// opened when record is set.
func (c *CLI) newRunner(ctx context.Context, noCache, record bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var store archive.Store
	if record {
		store, err = c.newArchive(ctx)
		if err != nil {
			ch.Close()
			return nil, err
		}
	}
	return pipeline.NewRunner(ch, c.newKeyer(), store, c.Logger), nil
}

// newKeyer namespaces file cache keys with the configured prefix. Redis
// applies the prefix itself.
func (c *CLI) newKeyer() cache.Keyer {
	cfg := c.cfg().Cache
	if cfg.Prefix == "" || cfg.Backend == backendRedis {
		return nil
	}
	return cache.NewScopedKeyer(nil, cfg.Prefix)
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.cfg().Cache
	if noCache || cfg.Backend == backendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == backendRedis {
		return cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, Prefix: cfg.Prefix})
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newArchive opens the configured run store. It returns nil when archiving
// is disabled.
func (c *CLI) newArchive(ctx context.Context) (archive.Store, error) {
	cfg := c.cfg().Archive
	switch cfg.Backend {
	case backendNone:
		return nil, nil
	case backendMongo:
		return archive.NewMongoStore(ctx, cfg.Mongo)
	default:
		return archive.NewFileStore(cfg.Dir)
	}
}

// requireArchive opens the run store for commands that cannot work without one.
func (c *CLI) requireArchive(ctx context.Context) (archive.Store, error) {
	store, err := c.newArchive(ctx)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "run archive is disabled (archive.backend = %q)", backendNone)
	}
	return store, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/blocksets/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/blocksets/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
