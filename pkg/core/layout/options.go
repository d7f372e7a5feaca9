package layout

import (
	"math"

	"github.com/matzehuels/arbor/pkg/core/rng"
	"github.com/matzehuels/arbor/pkg/errors"
)

// Default parameter values.
const (
	DefaultBranchFactor    = 0.85
	DefaultMinBranchLength = 30.0
	DefaultMaxDepth        = 10000
)

// DefaultBranchAngle is half of the sibling spread (35°).
var DefaultBranchAngle = 35 * math.Pi / 180

// lengthDecayLow is the lower bound of the per-level length decay draw.
const lengthDecayLow = 0.8

// Options configures a static layout.
type Options struct {
	// BranchAngle is half the spread across siblings, in radians.
	BranchAngle float64

	// BranchFactor is the upper bound of the length decay U(0.8, BranchFactor).
	BranchFactor float64

	// MinBranchLength stops recursion once a branch gets shorter.
	MinBranchLength float64

	// MaxDepth stops recursion at this depth (root = 1).
	MaxDepth int

	// Bands overrides DefaultBands when non-empty.
	Bands Bands

	// Rand drives the length decay. Nil uses the process-wide generator.
	Rand rng.Source
}

// DefaultOptions returns the canonical parameters.
func DefaultOptions() Options {
	return Options{
		BranchAngle:     DefaultBranchAngle,
		BranchFactor:    DefaultBranchFactor,
		MinBranchLength: DefaultMinBranchLength,
		MaxDepth:        DefaultMaxDepth,
	}
}

// Validate rejects parameter combinations that break the termination
// guarantee of the recursion.
func (o Options) Validate() error {
	if o.MaxDepth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_depth must be positive, got %d", o.MaxDepth)
	}
	if o.MinBranchLength <= 0 && o.BranchFactor >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"min_branch_length %.3g with branch_factor %.3g never terminates by length", o.MinBranchLength, o.BranchFactor)
	}
	if math.IsNaN(o.BranchAngle) || math.IsNaN(o.BranchFactor) || math.IsNaN(o.MinBranchLength) {
		return errors.New(errors.ErrCodeInvalidConfig, "layout parameters must not be NaN")
	}
	return nil
}
