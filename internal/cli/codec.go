package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/candlecake/pkg/candle"
	"github.com/matzehuels/candlecake/pkg/errors"
	"github.com/matzehuels/candlecake/pkg/observability"
)

// encodeCommand creates the encode command.
func (c *CLI) encodeCommand() *cobra.Command {
	var jsonPath string

	cmd := &cobra.Command{
		Use:   "encode [left,top[,lit|out]]...",
		Short: "Encode candles into a share token",
		Long: `Encode candles into the URL-safe token carried by the candles parameter
of share links. Candles are given as arguments or as a JSON array with --json.
Put "--" before the candles when a coordinate is negative, otherwise it is
read as a flag.`,
		Example: `  candlecake encode 50,24 80,24,out
  candlecake encode -- -5,24 80,24
  echo '[{"left":50,"top":24,"out":false}]' | candlecake encode --json -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			candles, err := candlesFromArgs(args, jsonPath)
			if err != nil {
				return err
			}

			token := candle.Encode(candles)
			observability.Codec().OnEncode(cmd.Context(), len(candles), len(token))
			if token == "" {
				loggerFromContext(cmd.Context()).Warn("Nothing to encode, token is empty")
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&jsonPath, "json", "", "read candles from a JSON file (- for stdin)")
	return cmd
}

// decodeCommand creates the decode command.
func (c *CLI) decodeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decode <token|link>",
		Short: "Decode a share token or link into candles",
		Long: `Decode a token or a complete share link. Decoding is lenient: a malformed
token yields no candles and damaged records are dropped, never an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := tokenArg(args[0])
			rep := candle.Inspect(token)
			observability.Codec().OnDecode(cmd.Context(), len(token), len(rep.Candles), rep.Dropped, rep.Malformed)

			if asJSON {
				data, err := json.Marshal(rep.Candles)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			switch {
			case rep.Malformed:
				printWarning("Token is malformed, no candles recovered")
			case len(rep.Candles) == 0:
				printInfo("No candles")
			default:
				printCandles(rep.Candles)
			}
			printStats(len(rep.Candles), candle.CountLit(rep.Candles), rep.Dropped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print candles as JSON")
	return cmd
}

// linkCommand creates the link command.
func (c *CLI) linkCommand() *cobra.Command {
	var (
		jsonPath string
		origin   string
		path     string
	)

	cmd := &cobra.Command{
		Use:   "link [left,top[,lit|out]]...",
		Short: "Build a share link for candles",
		Long: `Build the share link that reproduces candles. Put "--" before the candles
when a coordinate is negative, otherwise it is read as a flag.`,
		Example: `  candlecake link 50,24 80,24,out --origin https://cards.example
  candlecake link --origin https://cards.example -- -5,24 80,24
  candlecake link --json candles.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			candles, err := candlesFromArgs(args, jsonPath)
			if err != nil {
				return err
			}
			origin, path, err := c.shareTarget(origin, path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), candle.ShareLink(origin, path, candles))
			return nil
		},
	}

	cmd.Flags().StringVar(&jsonPath, "json", "", "read candles from a JSON file (- for stdin)")
	cmd.Flags().StringVar(&origin, "origin", "", "link origin (default from config)")
	cmd.Flags().StringVar(&path, "path", "", "link path (default from config)")
	return cmd
}

// candlesFromArgs reads candles from positional arguments or a JSON file,
// but not both.
func candlesFromArgs(args []string, jsonPath string) ([]candle.Candle, error) {
	if jsonPath != "" {
		if len(args) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "give candles as arguments or with --json, not both")
		}
		return readCandlesJSON(jsonPath)
	}
	return parseCandles(args)
}

// shareTarget resolves the origin and path of generated links: flags
// first, then the [share] config section.
func (c *CLI) shareTarget(origin, path string) (string, string, error) {
	if origin == "" {
		origin = c.cfg.Share.Origin
	}
	if path == "" {
		path = c.cfg.Share.Path
	}
	if err := errors.ValidateOrigin(origin); err != nil {
		return "", "", err
	}
	if err := errors.ValidatePath(path); err != nil {
		return "", "", err
	}
	return origin, path, nil
}
