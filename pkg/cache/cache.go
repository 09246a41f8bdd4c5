// Package cache provides the small key/value caches used by the layout
// engine.
//
// The engine recomputes geometry from scratch on every relayout, so the only
// state worth keeping between passes is derived from inputs that do not
// change with graph structure: text measurements keyed by font and label.
// Entries live in memory only and disappear with the process.
//
// # Implementations
//
//   - [MemoryCache]: bounded, least-recently-used, optional per-entry TTL
//   - [NullCache]: stores nothing, for tests and for disabling memoization
//
// # Keys
//
// A [Keyer] turns domain values into cache keys. [NewScopedKeyer] prefixes
// every key so several consumers can share one cache without collisions.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by string key.
//
// Implementations must be safe for concurrent use. A zero ttl means the
// entry does not expire on its own.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// MeasureKey identifies the width of text rendered in the given font.
	MeasureKey(font string, size float64, text string) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MeasureKey hashes the font description together with the text, so labels
// of arbitrary length produce fixed-size keys.
func (DefaultKeyer) MeasureKey(font string, size float64, text string) string {
	return hashKey("measure", font, size, text)
}
