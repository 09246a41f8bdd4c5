package cache

// ScopedKeyer wraps a Keyer with a prefix so that several measurers can
// share one cache without reading each other's entries.
//
// Example usage:
//
//	heuristic := NewScopedKeyer(NewDefaultKeyer(), "heuristic:")
//	opentype := NewScopedKeyer(NewDefaultKeyer(), "opentype:")
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

// MeasureKey generates a prefixed measurement key.
func (k *ScopedKeyer) MeasureKey(font string, size float64, text string) string {
	return k.prefix + k.inner.MeasureKey(font, size, text)
}
