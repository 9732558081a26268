// Package cake holds the live candle arrangement of a greeting card.
//
// A [Cake] is the single owner of the candle list. Clicks append to it,
// blow events flip candles out, and share links are derived from it through
// the candle codec. All methods are safe for concurrent use, so a sampling
// loop may extinguish candles while the caller keeps placing new ones.
package cake

import (
	"sync"

	"github.com/matzehuels/candlecake/pkg/candle"
)

// Cake is the state object that owns the live candle list.
type Cake struct {
	mu      sync.Mutex
	surface Surface
	candles []candle.Candle
}

// New creates an empty cake on the given surface.
func New(surface Surface) *Cake {
	return &Cake{surface: surface}
}

// FromToken creates a cake holding the candles encoded in token.
// A malformed token yields an empty cake.
func FromToken(surface Surface, token string) *Cake {
	c := New(surface)
	c.candles = candle.Decode(token)
	return c
}

// Surface returns the surface candles are placed on.
func (c *Cake) Surface() Surface {
	return c.surface
}

// Place appends a lit candle for a click at (x, y) and returns it.
func (c *Cake) Place(x, y float64) candle.Candle {
	cd := c.surface.Place(x, y)
	c.Add(cd)
	return cd
}

// Add appends candles as given, without clamping.
func (c *Cake) Add(candles ...candle.Candle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.candles = append(c.candles, candles...)
}

// Clear removes every candle.
func (c *Cake) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.candles = nil
}

// Candles returns a copy of the current arrangement.
func (c *Cake) Candles() []candle.Candle {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]candle.Candle, len(c.candles))
	copy(out, c.candles)
	return out
}

// Len returns the number of candles.
func (c *Cake) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.candles)
}

// Lit returns the number of candles still burning.
func (c *Cake) Lit() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return candle.CountLit(c.candles)
}

// AllOut reports whether the cake has candles and none of them burn.
func (c *Cake) AllOut() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.candles) > 0 && candle.CountLit(c.candles) == 0
}

// Relight marks every candle as burning again.
func (c *Cake) Relight() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.candles {
		c.candles[i].Out = false
	}
}

// Extinguish blows out the lit candles for which decide returns true and
// returns how many went out. decide sees each lit candle once, in order,
// and is called with the cake locked; it must not call back into the cake.
func (c *Cake) Extinguish(decide func(i int, cd candle.Candle) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for i, cd := range c.candles {
		if cd.Out || !decide(i, cd) {
			continue
		}
		c.candles[i].Out = true
		n++
	}
	return n
}

// Token encodes the current arrangement.
func (c *Cake) Token() string {
	return candle.Encode(c.Candles())
}

// ShareLink derives the link that reproduces the current arrangement.
func (c *Cake) ShareLink(origin, path string) string {
	return candle.ShareLink(origin, path, c.Candles())
}
