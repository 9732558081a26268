package blow

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/matzehuels/candlecake/pkg/errors"
)

// DefaultWindow is the span of audio summarised by one sample.
const DefaultWindow = 100 * time.Millisecond

// WAVSource reports the level of consecutive windows of a WAV recording.
// It stands in for a live microphone when replaying a recorded breath.
type WAVSource struct {
	mu       sync.Mutex
	dec      *wav.Decoder
	buf      *audio.IntBuffer
	bitDepth int
}

// NewWAVSource reads the WAV header from r and prepares windows of the
// given duration (DefaultWindow when zero or negative).
func NewWAVSource(r io.ReadSeeker, window time.Duration) (*WAVSource, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "read WAV header")
		}
		return nil, errors.New(errors.ErrCodeUnsupported, "not a valid WAV file")
	}
	if window <= 0 {
		window = DefaultWindow
	}

	channels := int(dec.NumChans)
	frames := max(int(int64(dec.SampleRate)*int64(window)/int64(time.Second)), 1)

	return &WAVSource{
		dec: dec,
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: int(dec.SampleRate)},
			Data:           make([]int, frames*channels),
			SourceBitDepth: int(dec.BitDepth),
		},
		bitDepth: int(dec.BitDepth),
	}, nil
}

// SampleRate returns the recording's sample rate in Hz.
func (s *WAVSource) SampleRate() int {
	return int(s.dec.SampleRate)
}

// Volume returns the level of the next window, or io.EOF at the end of
// the recording.
func (s *WAVSource) Volume(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "read WAV samples")
	}
	if n == 0 {
		return 0, io.EOF
	}
	return Level(s.buf.Data[:n], s.bitDepth), nil
}
