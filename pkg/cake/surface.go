package cake

import "github.com/matzehuels/candlecake/pkg/candle"

// Surface describes the area of the cake that accepts candles.
//
// A click is given relative to the cake's top-left corner. The candle's
// anchor sits OffsetX to the left of and OffsetY above the pointer so the
// flame appears under it, and the result is clamped into the frosting.
type Surface struct {
	OffsetX float64
	OffsetY float64
	MinLeft float64
	MaxLeft float64
	MinTop  float64
	MaxTop  float64
}

// DefaultSurface is the layout of the stock cake graphic.
func DefaultSurface() Surface {
	return Surface{
		OffsetX: 5,
		OffsetY: 30,
		MinLeft: 20,
		MaxLeft: 210,
		MinTop:  60,
		MaxTop:  140,
	}
}

// Place converts a click position into a lit candle on the surface.
func (s Surface) Place(x, y float64) candle.Candle {
	return candle.Candle{
		Left: clamp(x-s.OffsetX, s.MinLeft, s.MaxLeft),
		Top:  clamp(y-s.OffsetY, s.MinTop, s.MaxTop),
	}
}

// Contains reports whether c lies within the surface bounds.
func (s Surface) Contains(c candle.Candle) bool {
	return c.Left >= s.MinLeft && c.Left <= s.MaxLeft &&
		c.Top >= s.MinTop && c.Top <= s.MaxTop
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
