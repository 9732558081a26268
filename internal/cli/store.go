package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/candlecake/pkg/cache"
	"github.com/matzehuels/candlecake/pkg/errors"
)

// storeCommand creates the link store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the short link store",
	}

	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every short link from the file store",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.storeDir()
			if err != nil {
				return err
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Store is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}

			printSuccess("Cleared %d short links", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file store directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.storeDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// storeDir returns the file backend directory. Other backends have no
// directory to manage.
func (c *CLI) storeDir() (string, error) {
	if c.cfg.Store.Backend != cache.BackendFile {
		return "", errors.New(errors.ErrCodeUnsupported, "store backend %q is not file-based", c.cfg.Store.Backend)
	}
	opts, err := c.cfg.CacheOptions()
	if err != nil {
		return "", fmt.Errorf("get store dir: %w", err)
	}
	return opts.Dir, nil
}
