package growth

import (
	"fmt"

	"github.com/matzehuels/arbor/pkg/core/layout"
	"github.com/matzehuels/arbor/pkg/core/rng"
)

// Mode selects how fast a simulation grows.
type Mode int

const (
	// ModeNormal grows on every GrowthCadence-th tick.
	ModeNormal Mode = iota
	// ModeFast grows on every FastCadence-th tick.
	ModeFast
	// ModeInstant grew the forest to completion in a single call.
	ModeInstant
)

var modeNames = map[Mode]string{
	ModeNormal:  "normal",
	ModeFast:    "fast",
	ModeInstant: "instant",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name back to a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeNormal, fmt.Errorf("unknown growth mode %q (want normal, fast or instant)", s)
}

// Simulation owns a forest of root branches and the tick clock driving it.
type Simulation struct {
	grower *Grower
	roots  []*Branch
	mode   Mode
	ticks  int
	paused bool
}

// New returns an empty simulation. A nil src uses the process-wide
// generator.
func New(cfg Config, src rng.Source) (*Simulation, error) {
	g, err := NewGrower(cfg, src)
	if err != nil {
		return nil, err
	}
	return &Simulation{grower: g}, nil
}

// Config returns the growth rules.
func (s *Simulation) Config() Config { return s.grower.cfg }

// Plant adds a root branch at depth 1 and returns it.
func (s *Simulation) Plant(seed Seed) *Branch {
	b := NewBranch(seed.Start, seed.Angle, seed.Length, 1)
	s.roots = append(s.roots, b)
	return b
}

// Restart discards the forest, clears the clock and the pause flag, sets
// the mode and plants a new tree from seed.
func (s *Simulation) Restart(seed Seed, mode Mode) *Branch {
	s.Reset()
	s.mode = mode
	return s.Plant(seed)
}

// Reset discards the forest and clears the clock and the pause flag.
func (s *Simulation) Reset() {
	s.roots = nil
	s.ticks = 0
	s.paused = false
	s.mode = ModeNormal
}

// SetMode switches the cadence used by Tick.
func (s *Simulation) SetMode(m Mode) { s.mode = m }

// Mode returns the current mode.
func (s *Simulation) Mode() Mode { return s.mode }

// Roots returns the root branches. The slice must not be modified.
func (s *Simulation) Roots() []*Branch { return s.roots }

// Ticks returns the number of ticks taken since the last reset.
func (s *Simulation) Ticks() int { return s.ticks }

// Paused reports whether the leaf-end cutoff suspended growth.
func (s *Simulation) Paused() bool { return s.paused }

// Complete reports whether every root is static. An empty forest is never
// complete.
func (s *Simulation) Complete() bool {
	if len(s.roots) == 0 {
		return false
	}
	for _, r := range s.roots {
		if !r.Static() {
			return false
		}
	}
	return true
}

// Running reports whether Tick would still change anything.
func (s *Simulation) Running() bool {
	return len(s.roots) > 0 && !s.paused && !s.Complete()
}

// cadence returns the number of ticks between growth ticks.
func (s *Simulation) cadence() int {
	if s.mode == ModeFast {
		return s.grower.cfg.FastCadence
	}
	return s.grower.cfg.GrowthCadence
}

// GrowthTick reports whether the next call to Tick grows branches.
func (s *Simulation) GrowthTick() bool {
	return s.ticks%s.cadence() == 0
}

// Tick advances the clock by one external tick. It returns whether the
// tick was a growth tick that reached the forest.
func (s *Simulation) Tick() bool {
	active := s.GrowthTick()
	s.ticks++
	if !s.Running() {
		return false
	}
	s.Step(active)
	return active
}

// Step advances every root with an explicit growth signal, then pauses the
// simulation if the leaf-end count reached the cutoff. Pausing never
// discards branches.
func (s *Simulation) Step(active bool) {
	if s.paused {
		return
	}
	for _, r := range s.roots {
		r.Advance(s.grower, active)
	}
	if cutoff := s.grower.cfg.BranchEndCutoff; cutoff > 0 && s.LeafEnds() >= cutoff {
		s.paused = true
	}
}

// InstantGrow grows every root to completion and switches to ModeInstant.
// The cutoff does not apply.
func (s *Simulation) InstantGrow() {
	for _, r := range s.roots {
		r.InstantGrow(s.grower)
	}
	s.mode = ModeInstant
}

// LeafEnds sums CountLeafEnds over the forest.
func (s *Simulation) LeafEnds() int {
	n := 0
	for _, r := range s.roots {
		n += r.CountLeafEnds()
	}
	return n
}

// Segment is the renderer-facing geometry of one branch.
type Segment struct {
	Start    layout.Position `json:"start" bson:"start"`
	End      layout.Position `json:"end" bson:"end"`
	Tip      layout.Position `json:"tip" bson:"tip"`
	Depth    int             `json:"depth" bson:"depth"`
	Finished bool            `json:"finished" bson:"finished"`
	Static   bool            `json:"static" bson:"static"`
}

// SegmentOf captures the geometry of b.
func SegmentOf(b *Branch) Segment {
	return Segment{
		Start:    b.Start,
		End:      b.End(),
		Tip:      b.Tip(),
		Depth:    b.Depth,
		Finished: b.finished,
		Static:   b.static,
	}
}

// Segments flattens the forest depth-first, parents before children.
func (s *Simulation) Segments() []Segment {
	var out []Segment
	for _, r := range s.roots {
		r.Walk(func(b *Branch) bool {
			out = append(out, SegmentOf(b))
			return true
		})
	}
	return out
}

// Stats summarizes the forest.
type Stats struct {
	Branches int  `json:"branches"`
	Static   int  `json:"static"`
	LeafEnds int  `json:"leaf_ends"`
	MaxDepth int  `json:"max_depth"`
	Ticks    int  `json:"ticks"`
	Paused   bool `json:"paused"`
	Complete bool `json:"complete"`
	Mode     Mode `json:"-"`
}

// Stats walks the forest once.
func (s *Simulation) Stats() Stats {
	st := Stats{
		LeafEnds: s.LeafEnds(),
		Ticks:    s.ticks,
		Paused:   s.paused,
		Complete: s.Complete(),
		Mode:     s.mode,
	}
	for _, r := range s.roots {
		r.Walk(func(b *Branch) bool {
			st.Branches++
			if b.static {
				st.Static++
			}
			st.MaxDepth = max(st.MaxDepth, b.Depth)
			return true
		})
	}
	return st
}
