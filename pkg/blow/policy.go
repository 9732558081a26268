package blow

import (
	"math/rand/v2"

	"github.com/matzehuels/candlecake/pkg/errors"
)

// Default policy values.
const (
	DefaultThreshold   = 0.2
	DefaultProbability = 1.0
)

// Policy is the threshold-and-probability rule for blowing out candles.
type Policy struct {
	// Threshold is the minimum level, in (0, 1], that counts as a blow.
	Threshold float64 `toml:"threshold" json:"threshold"`

	// Probability is the chance, in (0, 1], that a lit candle goes out
	// during a blow. 1 extinguishes every lit candle.
	Probability float64 `toml:"probability" json:"probability"`
}

// DefaultPolicy returns a policy that blows out every candle on a clear breath.
func DefaultPolicy() Policy {
	return Policy{Threshold: DefaultThreshold, Probability: DefaultProbability}
}

// Validate checks that both values lie in (0, 1].
func (p Policy) Validate() error {
	if !(p.Threshold > 0 && p.Threshold <= 1) {
		return errors.New(errors.ErrCodeInvalidPolicy, "threshold must be in (0, 1], got %v", p.Threshold)
	}
	if !(p.Probability > 0 && p.Probability <= 1) {
		return errors.New(errors.ErrCodeInvalidPolicy, "probability must be in (0, 1], got %v", p.Probability)
	}
	return nil
}

// Blowing reports whether level counts as a blow.
func (p Policy) Blowing(level float64) bool {
	return level >= p.Threshold
}

// Deterministic reports whether a blow always extinguishes every lit candle.
func (p Policy) Deterministic() bool {
	return p.Probability >= 1
}

// extinguishes decides the fate of one lit candle during a blow.
func (p Policy) extinguishes(r Rand) bool {
	return p.Deterministic() || r.Float64() < p.Probability
}

// Rand is the randomness the policy draws from.
type Rand interface {
	// Float64 returns a number in [0, 1).
	Float64() float64
}

// NewRand returns a reproducible generator for seed.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
