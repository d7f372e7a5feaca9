// Package cache provides byte caches for computed layouts and rendered
// artifacts.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for servers sharing work between instances and [NullCache] when caching
// is disabled. Keys come from a [Keyer] so callers never build them by hand.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey identifies a layout of the graph with the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendering of the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout.
type LayoutKeyOpts struct {
	BranchAngle     float64   `json:"a"`
	BranchFactor    float64   `json:"f"`
	MinBranchLength float64   `json:"m"`
	MaxDepth        int       `json:"d"`
	OriginX         float64   `json:"x"`
	OriginY         float64   `json:"y"`
	Seed            uint64    `json:"s"`
	Bands           []float64 `json:"b,omitempty"` // Flattened min,max,length,spacing quads
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"f"`
	Style      string `json:"s,omitempty"`
	Scheme     int    `json:"c"`
	Width      int    `json:"w,omitempty"`
	Height     int    `json:"h,omitempty"`
	Background string `json:"bg,omitempty"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey hashes the graph hash together with the options.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey hashes the layout hash together with the options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
