package measure

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/matzehuels/sdfglayout/pkg/cache"
	"github.com/matzehuels/sdfglayout/pkg/observability"
)

const cacheKeyType = "measure"

// Cached memoizes an inner measurer. Font switches pass through to the
// inner measurer so the key always reflects the font actually measured.
type Cached struct {
	inner Measurer
	cache cache.Cache
	keyer cache.Keyer
}

// NewCached wraps inner. A nil keyer uses the default keyer.
func NewCached(inner Measurer, c cache.Cache, keyer cache.Keyer) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cached{inner: inner, cache: c, keyer: keyer}
}

// MeasureText returns the memoized width, measuring on a miss. Cache
// failures degrade to direct measurement.
func (c *Cached) MeasureText(text string) (float64, error) {
	ctx := context.Background()
	f := c.inner.Font()
	family := f.Family
	if f.Bold {
		family += " bold"
	}
	key := c.keyer.MeasureKey(family, f.Size, text)

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok && len(data) == 8 {
		observability.Cache().OnCacheHit(ctx, cacheKeyType)
		return math.Float64frombits(binary.LittleEndian.Uint64(data)), nil
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	w, err := c.inner.MeasureText(text)
	if err != nil {
		return 0, err
	}
	buf := binary.LittleEndian.AppendUint64(nil, math.Float64bits(w))
	if err := c.cache.Set(ctx, key, buf, 0); err == nil {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(buf))
	}
	return w, nil
}

func (c *Cached) Font() Font     { return c.inner.Font() }
func (c *Cached) SetFont(f Font) { c.inner.SetFont(f) }

// Unwrap returns the inner measurer.
func (c *Cached) Unwrap() Measurer { return c.inner }

var _ Measurer = (*Cached)(nil)
