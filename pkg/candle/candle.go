package candle

import "math"

// Candle is a positioned flame marker on the cake surface.
// Left and Top are offsets in the cake's coordinate space; Out reports
// whether the flame has been blown out.
type Candle struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
	Out  bool    `json:"out"`
}

// Lit reports whether the candle still burns.
func (c Candle) Lit() bool { return !c.Out }

// valid reports whether the candle can be represented in a token.
// JSON has no encoding for NaN or infinities.
func (c Candle) valid() bool {
	return finite(c.Left) && finite(c.Top)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Equal reports whether two arrangements hold the same candles in the same order.
func Equal(a, b []Candle) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CountLit returns the number of candles that are not out.
func CountLit(candles []Candle) int {
	n := 0
	for _, c := range candles {
		if c.Lit() {
			n++
		}
	}
	return n
}
