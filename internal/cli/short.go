package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/candlecake/pkg/candle"
	"github.com/matzehuels/candlecake/pkg/errors"
)

// shortCommand creates the short link command.
func (c *CLI) shortCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "short",
		Short: "Create and resolve short links",
		Long: `Manage short links in the configured store. The serve command redirects
/s/<id> to the full share link.`,
	}

	cmd.AddCommand(c.shortenCommand())
	cmd.AddCommand(c.resolveCommand())
	cmd.AddCommand(c.forgetCommand())

	return cmd
}

// shortenCommand creates the "short shorten" subcommand.
func (c *CLI) shortenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shorten <token|link>",
		Short: "Store a token and print its short id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, backend, err := c.linkStore(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			// Re-encode so that equivalent tokens share an id.
			token := candle.Encode(candle.Decode(tokenArg(args[0])))
			id, err := store.Shorten(ctx, token)
			if err != nil {
				return err
			}

			printSuccess("Stored short link %s", StyleHighlight.Render(id))
			printLink(c.cfg.Share.Origin + "/s/" + id)
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

// resolveCommand creates the "short resolve" subcommand.
func (c *CLI) resolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id>",
		Short: "Print the share link behind a short id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, backend, err := c.linkStore(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			token, err := store.Resolve(ctx, args[0])
			if err != nil {
				if errors.Is(err, errors.ErrCodeLinkNotFound) {
					printError("%s", errors.UserMessage(err))
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), candle.ShareLink(c.cfg.Share.Origin, c.cfg.Share.Path, candle.Decode(token)))
			return nil
		},
	}
}

// forgetCommand creates the "short forget" subcommand.
func (c *CLI) forgetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "forget <id>",
		Short: "Delete a short link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, backend, err := c.linkStore(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := store.Forget(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Forgot short link %s", args[0])
			return nil
		},
	}
}
