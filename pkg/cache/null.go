package cache

import (
	"context"
	"time"
)

// NullCache stores nothing: every Get misses and every Set is dropped.
// Passing it to the measurer disables memoization without a nil check at
// every call site.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a cache that never holds an entry.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
