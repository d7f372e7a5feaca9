package cache

import (
	"context"
	"time"
)

// NullCache stands in when caching is off (--no-cache, backend "none", or
// no usable cache directory). Every lookup misses and writes are dropped,
// so the Runner recomputes each layout and artifact.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
