package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments or
// card themes can share one backend without their links colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "cards:birthday:")
//	keyer.LinkKey("0123456789ab") // cards:birthday:link:0123456789ab
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LinkKey generates a prefixed key for a short link.
func (k *ScopedKeyer) LinkKey(id string) string {
	return k.prefix + k.inner.LinkKey(id)
}
