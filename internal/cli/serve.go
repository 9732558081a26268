package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/candlecake/pkg/cache"
	"github.com/matzehuels/candlecake/pkg/server"
	"github.com/matzehuels/candlecake/pkg/shortlink"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		origin  string
		path    string
		noLinks bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP share service",
		Long: `Run the share service: token encoding and decoding over HTTP plus short
links kept in the configured store. Short links are off when the store
backend is "none" or with --no-links.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			origin, path, err := c.shareTarget(origin, path)
			if err != nil {
				return err
			}

			var links *shortlink.Store
			if !noLinks && c.cfg.Store.Backend != cache.BackendNone {
				store, backend, err := c.linkStore(ctx)
				if err != nil {
					return err
				}
				defer backend.Close()
				links = store
				logger.Info("Short links enabled", "backend", c.cfg.Store.Backend, "ttl", c.cfg.Store.TTL)
			}

			srv, err := server.New(server.Config{
				Addr:           addr,
				Origin:         origin,
				Path:           path,
				ReadTimeout:    c.cfg.Server.ReadTimeout,
				WriteTimeout:   c.cfg.Server.WriteTimeout,
				RequestTimeout: c.cfg.Server.RequestTimeout,
			}, links, logger)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&origin, "origin", "", "origin of generated links (default from config)")
	cmd.Flags().StringVar(&path, "path", "", "page path of generated links (default from config)")
	cmd.Flags().BoolVar(&noLinks, "no-links", false, "disable short links")
	return cmd
}
