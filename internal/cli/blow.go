package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/candlecake/pkg/blow"
	"github.com/matzehuels/candlecake/pkg/cake"
)

// blowOptions holds the blow command flags.
type blowOptions struct {
	wav         string
	levels      string
	threshold   float64
	probability float64
	seed        uint64
	interval    time.Duration
	window      time.Duration
	origin      string
	path        string
}

// blowCommand creates the blow command.
func (c *CLI) blowCommand() *cobra.Command {
	var opts blowOptions

	cmd := &cobra.Command{
		Use:   "blow <token|link>",
		Short: "Blow out candles with a recorded breath",
		Long: `Feed volume samples to the blow detector and print the link of the
resulting arrangement. Samples come from a WAV recording (--wav) or a list of
levels in [0, 1] (--levels). A sample at or above the threshold is a blow;
each lit candle then goes out with the configured probability.

A recording that cannot be opened is treated like a microphone without
permission: detection is disabled and the candles stay as they are.`,
		Example: `  candlecake blow "$LINK" --wav breath.wav
  candlecake blow "$TOKEN" --levels 0.05,0.1,0.6 --probability 0.5 --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBlow(cmd, tokenArg(args[0]), opts)
		},
	}

	cmd.Flags().StringVar(&opts.wav, "wav", "", "WAV recording to sample")
	cmd.Flags().StringVar(&opts.levels, "levels", "", "comma-separated volume levels to replay")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", blow.DefaultThreshold, "level that counts as a blow (default from config)")
	cmd.Flags().Float64Var(&opts.probability, "probability", blow.DefaultProbability, "chance a lit candle goes out per blow (default from config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed; 0 seeds from the clock (default from config)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "pause between samples (default from config for --wav, none for --levels)")
	cmd.Flags().DurationVar(&opts.window, "window", 0, "audio window per sample (default from config)")
	cmd.Flags().StringVar(&opts.origin, "origin", "", "link origin (default from config)")
	cmd.Flags().StringVar(&opts.path, "path", "", "link path (default from config)")
	cmd.MarkFlagsMutuallyExclusive("wav", "levels")
	cmd.MarkFlagsOneRequired("wav", "levels")
	return cmd
}

func (c *CLI) runBlow(cmd *cobra.Command, token string, opts blowOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	flags := cmd.Flags()

	policy := c.cfg.Policy()
	if flags.Changed("threshold") {
		policy.Threshold = opts.threshold
	}
	if flags.Changed("probability") {
		policy.Probability = opts.probability
	}
	if err := policy.Validate(); err != nil {
		return err
	}

	seed := c.cfg.Blow.Seed
	if flags.Changed("seed") {
		seed = opts.seed
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	origin, path, err := c.shareTarget(opts.origin, opts.path)
	if err != nil {
		return err
	}

	k := cake.FromToken(cake.DefaultSurface(), token)
	if k.Len() == 0 {
		printWarning("No candles to blow out")
		fmt.Fprintln(cmd.OutOrStdout(), k.ShareLink(origin, path))
		return nil
	}

	src, interval, closeSrc, err := c.volumeSource(opts, flags.Changed("interval"), flags.Changed("window"))
	if err != nil {
		return err
	}
	defer closeSrc()

	d := &blow.Detector{
		Policy:   policy,
		Source:   src,
		Rand:     blow.NewRand(seed),
		Interval: interval,
		Logger:   logger,
	}
	logger.Debug("Blow detector", "threshold", policy.Threshold, "probability", policy.Probability, "seed", seed, "interval", interval)

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Listening for a blow (%d lit)...", k.Lit()))
	spinner.Start()
	sum, err := d.Run(ctx, k)
	spinner.Stop()
	if err != nil {
		return err
	}

	switch {
	case sum.Disabled:
		printWarning("Blow detection is unavailable, candles unchanged")
	case sum.AllOut:
		printSuccess("All candles are out")
	case sum.Extinguished > 0:
		printSuccess("Blew out %d candles", sum.Extinguished)
	default:
		printInfo("No blow detected")
	}
	printDetail("%d samples, %d blows", sum.Samples, sum.Blows)
	printStats(k.Len(), k.Lit(), 0)
	prog.done(fmt.Sprintf("Blew out %d candles", sum.Extinguished))

	fmt.Fprintln(cmd.OutOrStdout(), k.ShareLink(origin, path))
	return nil
}

// volumeSource builds the source named by the flags along with the
// sampling interval and a close function.
func (c *CLI) volumeSource(opts blowOptions, intervalSet, windowSet bool) (blow.VolumeSource, time.Duration, func(), error) {
	noop := func() {}

	if opts.levels != "" {
		levels, err := parseLevels(opts.levels)
		if err != nil {
			return nil, 0, noop, err
		}
		return blow.NewSamples(levels...), opts.interval, noop, nil
	}

	interval := c.cfg.Blow.Interval
	if intervalSet {
		interval = opts.interval
	}
	window := c.cfg.Blow.Window
	if windowSet {
		window = opts.window
	}

	f, err := os.Open(opts.wav)
	if err != nil {
		return blow.Unavailable(err), interval, noop, nil
	}
	src, err := blow.NewWAVSource(f, window)
	if err != nil {
		f.Close()
		return nil, 0, noop, fmt.Errorf("open recording %s: %w", opts.wav, err)
	}
	return src, interval, func() { f.Close() }, nil
}
