package growth

import (
	"math"

	"github.com/matzehuels/arbor/pkg/core/layout"
	"github.com/matzehuels/arbor/pkg/errors"
)

// Config holds the growth rules shared by every branch of a simulation.
type Config struct {
	// GrowthSpeed is added to a branch's length on every growth tick.
	GrowthSpeed float64 `json:"growth_speed"`

	// BranchAngle bounds the random deviation of child branches, in radians.
	BranchAngle float64 `json:"branch_angle"`

	// BranchFactor is the upper bound of the length decay U(0.8, BranchFactor).
	BranchFactor float64 `json:"branch_factor"`

	// MinBranchLength is the shortest branch that may be spawned.
	MinBranchLength float64 `json:"min_branch_length"`

	// MaxDepth is the deepest level that may spawn children (root = 1).
	MaxDepth int `json:"max_depth"`

	// GrowthCadence makes every Nth tick a growth tick in normal mode.
	GrowthCadence int `json:"growth_cadence"`

	// FastCadence is the cadence used in fast mode.
	FastCadence int `json:"fast_cadence"`

	// BranchEndCutoff pauses growth once the forest has this many leaf ends.
	// Zero disables the cutoff.
	BranchEndCutoff int `json:"branch_end_cutoff"`
}

// Seed describes a root branch.
type Seed struct {
	Start  layout.Position `json:"start"`
	Angle  float64         `json:"angle"`
	Length float64         `json:"length"`
}

// Canvas size the default seed is planted on.
const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 600
)

// DefaultConfig returns the canonical growth rules.
func DefaultConfig() Config {
	return Config{
		GrowthSpeed:     1,
		BranchAngle:     35 * math.Pi / 180,
		BranchFactor:    0.85,
		MinBranchLength: 18,
		MaxDepth:        14,
		GrowthCadence:   5,
		FastCadence:     2,
		BranchEndCutoff: 5000,
	}
}

// DefaultSeed plants a 100-unit trunk pointing up, 50 units above the
// bottom centre of the default canvas.
func DefaultSeed() Seed {
	return SeedFor(DefaultCanvasWidth, DefaultCanvasHeight)
}

// SeedFor plants the default trunk on a width × height canvas.
func SeedFor(width, height float64) Seed {
	return Seed{
		Start:  layout.Position{X: width / 2, Y: height - 50},
		Angle:  layout.RootAngle,
		Length: 100,
	}
}

// Validate rejects rules that cannot terminate or cannot make progress.
func (c Config) Validate() error {
	switch {
	case c.MaxDepth <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max_depth must be positive, got %d", c.MaxDepth)
	case c.MinBranchLength <= 0 && c.BranchFactor >= 1:
		return errors.New(errors.ErrCodeInvalidConfig,
			"min_branch_length %.3g with branch_factor %.3g never terminates by length", c.MinBranchLength, c.BranchFactor)
	case !(c.GrowthSpeed > 0):
		return errors.New(errors.ErrCodeInvalidConfig, "growth_speed must be positive, got %v", c.GrowthSpeed)
	case c.GrowthCadence <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "growth_cadence must be positive, got %d", c.GrowthCadence)
	case c.FastCadence <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "fast_cadence must be positive, got %d", c.FastCadence)
	case c.BranchEndCutoff < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "branch_end_cutoff must not be negative, got %d", c.BranchEndCutoff)
	}
	return nil
}

// MaxBranches bounds the number of branches a tree grown from a trunk of
// the given length can ever hold: every branch spawning three children,
// each at the longest possible length, down to the deepest level that can
// still reach MinBranchLength. The result saturates at math.MaxInt.
func (c Config) MaxBranches(trunk float64) int {
	decay := max(lengthDecayLow, c.BranchFactor)
	total, level := 1, 1
	length := trunk
	for depth := 2; depth <= c.MaxDepth; depth++ {
		if length <= c.MinBranchLength {
			break
		}
		length *= decay
		if length < c.MinBranchLength {
			break
		}
		if level > (math.MaxInt-total)/3 {
			return math.MaxInt
		}
		level *= 3
		total += level
	}
	return total
}
