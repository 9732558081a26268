package blow

import (
	"context"
	"io"
	"math"
	"sync"

	"github.com/matzehuels/candlecake/pkg/errors"
)

// VolumeSource produces volume samples.
//
// Volume returns the current level in [0, 1]. A finite source returns
// io.EOF once exhausted. A source whose device cannot be used returns an
// error with code errors.ErrCodeDeviceUnavailable.
type VolumeSource interface {
	Volume(ctx context.Context) (float64, error)
}

// SourceFunc adapts a function to VolumeSource.
type SourceFunc func(ctx context.Context) (float64, error)

// Volume calls f.
func (f SourceFunc) Volume(ctx context.Context) (float64, error) { return f(ctx) }

// Samples replays a fixed sequence of levels, then reports io.EOF.
type Samples struct {
	mu     sync.Mutex
	levels []float64
	next   int
}

// NewSamples returns a source that yields levels in order.
func NewSamples(levels ...float64) *Samples {
	return &Samples{levels: levels}
}

// Volume returns the next level.
func (s *Samples) Volume(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.levels) {
		return 0, io.EOF
	}
	level := s.levels[s.next]
	s.next++
	return level, nil
}

// Unavailable returns a source for a device that could not be opened,
// such as a microphone whose permission was denied.
func Unavailable(cause error) VolumeSource {
	return SourceFunc(func(context.Context) (float64, error) {
		return 0, errors.Wrap(errors.ErrCodeDeviceUnavailable, cause, "volume source unavailable")
	})
}

// Level returns the RMS of PCM samples as a fraction of full scale.
// 8-bit samples are unsigned and centred on 128, as stored in WAV files;
// wider samples are signed. The result is clamped to [0, 1].
func Level(samples []int, bitDepth int) float64 {
	if len(samples) == 0 || bitDepth <= 0 {
		return 0
	}

	bias := 0.0
	if bitDepth == 8 {
		bias = 128
	}
	fullScale := math.Ldexp(1, bitDepth-1)

	var sum float64
	for _, s := range samples {
		v := (float64(s) - bias) / fullScale
		sum += v * v
	}
	return min(math.Sqrt(sum/float64(len(samples))), 1)
}
