// Package cli implements the candlecake command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/candlecake/pkg/buildinfo"
	"github.com/matzehuels/candlecake/pkg/cache"
	"github.com/matzehuels/candlecake/pkg/config"
	"github.com/matzehuels/candlecake/pkg/observability"
	"github.com/matzehuels/candlecake/pkg/shortlink"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Candlecake places, shares and blows out birthday candles",
		Long:         `Candlecake encodes candle arrangements into share links, decodes them back, serves them over HTTP and replays recordings to blow the candles out.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/candlecake/config.toml)")

	// Register all subcommands
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.blowCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.shortCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context. Debug logging also turns on the log-backed observability hooks.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))

	if c.Logger.GetLevel() <= log.DebugLevel {
		registerLogHooks(c.Logger)
	} else {
		observability.Reset()
	}
	return nil
}

// =============================================================================
// Store Factory
// =============================================================================

// openCache opens the configured backend. Network backends are dialled
// behind a spinner.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	opts, err := c.cfg.CacheOptions()
	if err != nil {
		return nil, err
	}

	switch opts.Backend {
	case cache.BackendRedis, cache.BackendMongo:
		spinner := newSpinnerWithContext(ctx, "Connecting to "+opts.Backend+"...")
		spinner.Start()
		defer spinner.Stop()
	}

	loggerFromContext(ctx).Debug("Opening link store", "backend", opts.Backend, "dir", opts.Dir)
	return cache.Open(ctx, opts)
}

// linkStore opens the short link store. The caller closes the returned
// cache.
func (c *CLI) linkStore(ctx context.Context) (*shortlink.Store, cache.Cache, error) {
	backend, err := c.openCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	keyer := cache.NewDefaultKeyer()
	if c.cfg.Store.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, c.cfg.Store.Prefix)
	}
	return shortlink.NewWithKeyer(backend, keyer, c.cfg.Store.TTL), backend, nil
}
