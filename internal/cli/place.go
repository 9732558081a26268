package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/candlecake/pkg/cake"
	"github.com/matzehuels/candlecake/pkg/candle"
	"github.com/matzehuels/candlecake/pkg/errors"
)

// placeCommand creates the place command.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		from    string
		clear   bool
		relight bool
		origin  string
		path    string
	)

	cmd := &cobra.Command{
		Use:   "place [x,y]...",
		Short: "Place candles by clicking on the cake surface",
		Long: `Place candles at click positions measured from the cake's top-left corner.
Positions are offset to the flame anchor and clamped to the cake surface, so
clicks outside the cake still land on it. Start from an existing arrangement
with --from. Put "--" before the positions when one is negative.`,
		Example: `  candlecake place 60,90 120,95 180,100
  candlecake place -- -20,90 120,95
  candlecake place 100,100 --from "https://cards.example/cake?candles=..."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, path, err := c.shareTarget(origin, path)
			if err != nil {
				return err
			}

			k := cake.FromToken(cake.DefaultSurface(), tokenArg(from))
			before := k.Len()
			if clear {
				k.Clear()
			}
			if relight {
				k.Relight()
			}

			for _, a := range args {
				x, y, err := parsePoint(a)
				if err != nil {
					return err
				}
				placed := k.Place(x, y)
				loggerFromContext(cmd.Context()).Debug("Placed candle", "x", x, "y", y, "left", placed.Left, "top", placed.Top)
			}

			candles := k.Candles()
			printSuccess("Placed %d candles", len(args))
			if from != "" {
				printDetail("Started from %d candles", before)
			}
			printCandles(candles)
			printStats(len(candles), k.Lit(), 0)
			fmt.Fprintln(cmd.OutOrStdout(), candle.ShareLink(origin, path, candles))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start from this token or share link")
	cmd.Flags().BoolVar(&clear, "clear", false, "remove existing candles first")
	cmd.Flags().BoolVar(&relight, "relight", false, "relight existing candles")
	cmd.Flags().StringVar(&origin, "origin", "", "link origin (default from config)")
	cmd.Flags().StringVar(&path, "path", "", "link path (default from config)")
	return cmd
}

// parsePoint parses a click position "x,y".
func parsePoint(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "position %q: want x,y", s)
	}
	x, err := parseCoord(xs)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "position %q: x", s)
	}
	y, err := parseCoord(ys)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "position %q: y", s)
	}
	return x, y, nil
}
