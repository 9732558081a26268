package blow

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/candlecake/pkg/cake"
	"github.com/matzehuels/candlecake/pkg/candle"
	"github.com/matzehuels/candlecake/pkg/errors"
	"github.com/matzehuels/candlecake/pkg/observability"
)

// Sample is the outcome of one volume reading.
type Sample struct {
	Level        float64 // Level read from the source
	Blowing      bool    // Level reached the policy threshold
	Extinguished int     // Candles blown out by this sample
}

// Summary describes a detection run.
type Summary struct {
	Samples      int  // Volume readings taken
	Blows        int  // Readings that reached the threshold
	Extinguished int  // Candles blown out during the run
	AllOut       bool // The cake ended with candles and none lit
	Disabled     bool // The source was unavailable; detection is off
}

// Detector applies a Policy to samples from a VolumeSource.
// The zero Interval samples as fast as the source answers, which suits
// recordings; live sources want a pause between readings.
type Detector struct {
	Policy   Policy
	Source   VolumeSource
	Rand     Rand          // Used when Policy is not deterministic; seeded from the clock when nil
	Interval time.Duration // Pause between samples
	Logger   *log.Logger   // Defaults to log.Default()

	once     sync.Once
	mu       sync.Mutex
	disabled bool
}

func (d *Detector) init() {
	d.once.Do(func() {
		if d.Rand == nil {
			d.Rand = NewRand(uint64(time.Now().UnixNano()))
		}
		if d.Logger == nil {
			d.Logger = log.Default()
		}
	})
}

// Disabled reports whether an unavailable source has switched detection off.
func (d *Detector) Disabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disabled
}

// Step takes one sample and, on a blow, extinguishes candles on c.
func (d *Detector) Step(ctx context.Context, c *cake.Cake) (Sample, error) {
	d.init()

	level, err := d.Source.Volume(ctx)
	if err != nil {
		return Sample{}, err
	}

	s := Sample{Level: level, Blowing: d.Policy.Blowing(level)}
	observability.Blow().OnSample(ctx, level, s.Blowing)
	if !s.Blowing {
		return s, nil
	}

	s.Extinguished = c.Extinguish(func(int, candle.Candle) bool {
		return d.Policy.extinguishes(d.Rand)
	})
	observability.Blow().OnBlow(ctx, level, s.Extinguished)
	d.Logger.Debug("blow", "level", level, "extinguished", s.Extinguished)
	return s, nil
}

// Run samples until no candle on c is lit, the source is exhausted, or ctx
// is done. An unavailable source is logged once and disables the detector;
// Run then reports Disabled without an error, now and on later calls.
func (d *Detector) Run(ctx context.Context, c *cake.Cake) (Summary, error) {
	if err := d.Policy.Validate(); err != nil {
		return Summary{}, err
	}
	d.init()

	var sum Summary
	if d.Disabled() {
		sum.Disabled = true
		return sum, nil
	}

	var tick <-chan time.Time
	if d.Interval > 0 {
		ticker := time.NewTicker(d.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if c.Lit() == 0 {
			sum.AllOut = c.AllOut()
			return sum, nil
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return sum, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return sum, err
		}

		s, err := d.Step(ctx, c)
		switch {
		case stderrors.Is(err, io.EOF):
			sum.AllOut = c.AllOut()
			return sum, nil
		case errors.Is(err, errors.ErrCodeDeviceUnavailable):
			d.disable(err)
			sum.Disabled = true
			return sum, nil
		case err != nil:
			return sum, err
		}

		sum.Samples++
		if s.Blowing {
			sum.Blows++
		}
		sum.Extinguished += s.Extinguished
	}
}

func (d *Detector) disable(cause error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disabled {
		return
	}
	d.disabled = true
	d.Logger.Warn("Blow detection disabled", "err", cause)
}
