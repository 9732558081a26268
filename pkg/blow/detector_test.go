package blow

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/candlecake/pkg/cake"
	"github.com/matzehuels/candlecake/pkg/candle"
)

// fixedRand returns values from a cycle.
type fixedRand struct {
	values []float64
	i      int
}

func (r *fixedRand) Float64() float64 {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

func litCake(n int) *cake.Cake {
	c := cake.New(cake.DefaultSurface())
	for i := range n {
		c.Add(candle.Candle{Left: float64(20 + i), Top: 100})
	}
	return c
}

func quietLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

func TestDetectorDeterministic(t *testing.T) {
	c := litCake(5)
	var buf bytes.Buffer
	d := &Detector{
		Policy: DefaultPolicy(),
		Source: NewSamples(0.05, 0.1, 0.6, 0.9),
		Logger: quietLogger(&buf),
	}

	sum, err := d.Run(context.Background(), c)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if sum.Samples != 3 {
		t.Errorf("Samples = %d, want 3 (stops once the cake is out)", sum.Samples)
	}
	if sum.Blows != 1 || sum.Extinguished != 5 {
		t.Errorf("Blows = %d, Extinguished = %d, want 1 and 5", sum.Blows, sum.Extinguished)
	}
	if !sum.AllOut || !c.AllOut() {
		t.Error("cake should be fully out")
	}
}

func TestDetectorProbabilistic(t *testing.T) {
	c := litCake(4)
	d := &Detector{
		Policy: Policy{Threshold: 0.5, Probability: 0.5},
		Source: NewSamples(0.8),
		Rand:   &fixedRand{values: []float64{0.1, 0.9, 0.2, 0.7}},
		Logger: quietLogger(new(bytes.Buffer)),
	}

	sum, err := d.Run(context.Background(), c)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if sum.Extinguished != 2 {
		t.Errorf("Extinguished = %d, want 2", sum.Extinguished)
	}
	if sum.AllOut {
		t.Error("AllOut = true with candles still lit")
	}

	got := c.Candles()
	wantOut := []bool{true, false, true, false}
	for i, cd := range got {
		if cd.Out != wantOut[i] {
			t.Errorf("candle %d Out = %v, want %v", i, cd.Out, wantOut[i])
		}
	}
}

func TestDetectorQuietSourceExhausts(t *testing.T) {
	c := litCake(2)
	d := &Detector{Policy: DefaultPolicy(), Source: NewSamples(0.01, 0.02), Logger: quietLogger(new(bytes.Buffer))}

	sum, err := d.Run(context.Background(), c)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if sum.Samples != 2 || sum.Blows != 0 || c.Lit() != 2 {
		t.Errorf("Run() = %+v, lit %d; want 2 quiet samples and every candle lit", sum, c.Lit())
	}
}

func TestDetectorEmptyCake(t *testing.T) {
	calls := 0
	d := &Detector{
		Policy: DefaultPolicy(),
		Source: SourceFunc(func(context.Context) (float64, error) {
			calls++
			return 1, nil
		}),
	}

	sum, err := d.Run(context.Background(), cake.New(cake.DefaultSurface()))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if calls != 0 || sum.AllOut {
		t.Errorf("empty cake sampled %d times, AllOut = %v", calls, sum.AllOut)
	}
}

func TestDetectorUnavailableReportedOnce(t *testing.T) {
	var buf bytes.Buffer
	d := &Detector{
		Policy: DefaultPolicy(),
		Source: Unavailable(stderrors.New("permission denied")),
		Logger: quietLogger(&buf),
	}
	c := litCake(1)

	for range 3 {
		sum, err := d.Run(context.Background(), c)
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if !sum.Disabled {
			t.Error("Disabled = false for an unavailable source")
		}
	}

	if !d.Disabled() {
		t.Error("Detector.Disabled() = false")
	}
	if n := strings.Count(buf.String(), "Blow detection disabled"); n != 1 {
		t.Errorf("disable message logged %d times, want 1", n)
	}
	if c.Lit() != 1 {
		t.Error("candles changed while detection was disabled")
	}
}

func TestDetectorSourceError(t *testing.T) {
	boom := stderrors.New("boom")
	d := &Detector{
		Policy: DefaultPolicy(),
		Source: SourceFunc(func(context.Context) (float64, error) { return 0, boom }),
	}
	if _, err := d.Run(context.Background(), litCake(1)); !stderrors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}

func TestDetectorInvalidPolicy(t *testing.T) {
	d := &Detector{Policy: Policy{}, Source: NewSamples(1)}
	if _, err := d.Run(context.Background(), litCake(1)); err == nil {
		t.Error("Run() with zero policy should fail")
	}
}

func TestDetectorContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Detector{
		Policy:   DefaultPolicy(),
		Source:   SourceFunc(func(context.Context) (float64, error) { return 0, nil }),
		Interval: time.Millisecond,
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	sum, err := d.Run(ctx, litCake(1))
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if sum.Samples == 0 {
		t.Error("expected some samples before cancellation")
	}
}
