package server

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/core/growth"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/observability"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/render/palette"
)

// =============================================================================
// Registry
// =============================================================================

// simulation is one live forest. mu serializes every call into sim, so
// ticks from concurrent requests never overlap.
type simulation struct {
	id      string
	mu      sync.Mutex
	sim     *growth.Simulation
	opts    pipeline.SimulationOptions
	seed    growth.Seed
	scheme  int
	touched atomic.Int64
}

func (s *simulation) touch(now time.Time) { s.touched.Store(now.UnixNano()) }

// registry holds live simulations. Entries idle for longer than ttl are
// dropped the next time a simulation is added.
type registry struct {
	mu   sync.RWMutex
	sims map[string]*simulation
	max  int
	ttl  time.Duration
	now  func() time.Time
}

func newRegistry(max int, ttl time.Duration) *registry {
	return &registry{
		sims: make(map[string]*simulation),
		max:  max,
		ttl:  ttl,
		now:  time.Now,
	}
}

func (r *registry) add(s *simulation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	cutoff := now.Add(-r.ttl).UnixNano()
	for id, e := range r.sims {
		if e.touched.Load() < cutoff {
			delete(r.sims, id)
		}
	}
	if len(r.sims) >= r.max {
		return errors.New(errors.ErrCodeLimitExceeded, "too many live simulations (%d)", r.max)
	}
	s.touch(now)
	r.sims[s.id] = s
	return nil
}

func (r *registry) get(id string) (*simulation, error) {
	r.mu.RLock()
	s, ok := r.sims[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSimulationNotFound, "simulation %q not found", id)
	}
	s.touch(r.now())
	return s, nil
}

func (r *registry) remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sims[id]; !ok {
		return errors.New(errors.ErrCodeSimulationNotFound, "simulation %q not found", id)
	}
	delete(r.sims, id)
	return nil
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sims)
}

// =============================================================================
// Requests and responses
// =============================================================================

// simulationRequest plants a tree. Zero values take the config defaults.
type simulationRequest struct {
	Mode   string        `json:"mode,omitempty"`
	Seed   uint64        `json:"seed,omitempty"`
	Width  int           `json:"width,omitempty"`
	Height int           `json:"height,omitempty"`
	Scheme int           `json:"scheme,omitempty"`
	Rules  *rulesRequest `json:"rules,omitempty"`
}

// rulesRequest overrides growth rules; angles are in degrees.
type rulesRequest struct {
	GrowthSpeed     float64 `json:"growth_speed,omitempty"`
	BranchAngleDeg  float64 `json:"branch_angle_deg,omitempty"`
	BranchFactor    float64 `json:"branch_factor,omitempty"`
	MinBranchLength float64 `json:"min_branch_length,omitempty"`
	MaxDepth        int     `json:"max_depth,omitempty"`
	GrowthCadence   int     `json:"growth_cadence,omitempty"`
	FastCadence     int     `json:"fast_cadence,omitempty"`
	BranchEndCutoff int     `json:"branch_end_cutoff,omitempty"`
}

// within rejects overrides that let a tree grow past the server's own
// rules: deeper, with shorter branches, or with a higher cutoff.
func (rr *rulesRequest) within(g config.GrowthConfig) error {
	switch {
	case rr == nil:
		return nil
	case rr.MaxDepth > g.MaxDepth:
		return errors.New(errors.ErrCodeInvalidInput, "max_depth %d exceeds the server limit %d", rr.MaxDepth, g.MaxDepth)
	case rr.MinBranchLength != 0 && rr.MinBranchLength < g.MinBranchLength:
		return errors.New(errors.ErrCodeInvalidInput,
			"min_branch_length %v is below the server limit %v", rr.MinBranchLength, g.MinBranchLength)
	case g.BranchEndCutoff > 0 && rr.BranchEndCutoff > g.BranchEndCutoff:
		return errors.New(errors.ErrCodeInvalidInput,
			"branch_end_cutoff %d exceeds the server limit %d", rr.BranchEndCutoff, g.BranchEndCutoff)
	}
	return nil
}

// apply overlays the non-zero fields on g.
func (rr *rulesRequest) apply(g config.GrowthConfig) config.GrowthConfig {
	if rr == nil {
		return g
	}
	set := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	set(&g.GrowthSpeed, rr.GrowthSpeed)
	set(&g.BranchAngleDeg, rr.BranchAngleDeg)
	set(&g.BranchFactor, rr.BranchFactor)
	set(&g.MinBranchLength, rr.MinBranchLength)
	setInt(&g.MaxDepth, rr.MaxDepth)
	setInt(&g.GrowthCadence, rr.GrowthCadence)
	setInt(&g.FastCadence, rr.FastCadence)
	setInt(&g.BranchEndCutoff, rr.BranchEndCutoff)
	return g
}

type simulationState struct {
	ID       string           `json:"id"`
	Mode     string           `json:"mode"`
	Scheme   string           `json:"scheme"`
	Running  bool             `json:"running"`
	Stats    growth.Stats     `json:"stats"`
	Segments []growth.Segment `json:"segments,omitempty"`
}

func (s *simulation) state(withSegments bool) simulationState {
	st := simulationState{
		ID:      s.id,
		Mode:    s.sim.Mode().String(),
		Scheme:  palette.Name(s.scheme),
		Running: s.sim.Running(),
		Stats:   s.sim.Stats(),
	}
	if withSegments {
		st.Segments = s.sim.Segments()
	}
	return st
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) createSimulation(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := req.Rules.within(s.cfg.Growth); err != nil {
		s.writeError(w, r, err)
		return
	}
	g := req.Rules.apply(s.cfg.Growth)
	rules := config.Config{Growth: g}.GrowthRules()
	opts := pipeline.SimulationOptions{
		Rules:      rules,
		Seed:       req.Seed,
		Width:      req.Width,
		Height:     req.Height,
		Mode:       req.Mode,
		Scheme:     palette.Index(req.Scheme),
		Background: s.cfg.Render.Background,
		Logger:     s.logger,
	}
	if opts.Seed == 0 {
		opts.Seed = g.Seed
	}
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width, opts.Height = int(g.Width), int(g.Height)
	}

	sim, err := pipeline.NewSimulation(opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.SetDefaults()
	entry := &simulation{
		id:     uuid.NewString(),
		sim:    sim,
		opts:   opts,
		seed:   growth.SeedFor(float64(opts.Width), float64(opts.Height)),
		scheme: opts.Scheme,
	}
	// Instant growth ignores the branch-end cutoff, so the rules alone must
	// keep any tree this simulation can grow within bounds.
	if n := sim.Config().MaxBranches(entry.seed.Length); n > MaxTreeBranches {
		s.writeError(w, r, errors.New(errors.ErrCodeLimitExceeded,
			"rules allow up to %d branches per tree, the limit is %d", n, MaxTreeBranches))
		return
	}
	if sim.Mode() == growth.ModeInstant {
		sim.InstantGrow()
	}
	if err := s.sims.add(entry); err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.Simulation().OnSimulationStart(r.Context(), entry.id, opts.Mode)
	s.logger.Debug("simulation created", "id", entry.id, "mode", opts.Mode, "seed", opts.Seed)

	w.Header().Set("Location", "/v1/simulations/"+entry.id)
	s.writeJSON(w, http.StatusCreated, entry.state(false))
}

// getSimulation returns the state with segments, or renders the forest
// when ?format= is svg, png or json.
func (s *Server) getSimulation(w http.ResponseWriter, r *http.Request) {
	entry, err := s.sims.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	entry.mu.Lock()
	if format == "" {
		st := entry.state(true)
		entry.mu.Unlock()
		s.writeJSON(w, http.StatusOK, st)
		return
	}
	forest := graph.ForestOf(entry.sim)
	forest.ID = entry.id
	forest.Width, forest.Height = float64(entry.opts.Width), float64(entry.opts.Height)
	opts := entry.opts
	opts.Scheme = entry.scheme
	entry.mu.Unlock()

	opts.Formats = []string{format}
	if err := opts.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := pipeline.RenderForest(forest, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, artifacts[format])
}

func (s *Server) deleteSimulation(w http.ResponseWriter, r *http.Request) {
	if err := s.sims.remove(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// tickSimulation advances ?n= ticks (default 1), stopping early once the
// forest no longer changes.
func (s *Server) tickSimulation(w http.ResponseWriter, r *http.Request) {
	entry, err := s.sims.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := intParam(r.URL.Query().Get("n"), 1)
	if err == nil && (n < 1 || n > pipeline.DefaultMaxTicks) {
		err = errors.New(errors.ErrCodeInvalidInput, "n must be in [1, %d], got %d", pipeline.DefaultMaxTicks, n)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	entry.mu.Lock()
	start := time.Now()
	wasRunning := entry.sim.Running()
	for i := 0; i < n && entry.sim.Running(); i++ {
		entry.sim.Tick()
	}
	st := entry.state(false)
	entry.mu.Unlock()

	observability.Simulation().OnTicks(r.Context(), entry.id, n, st.Stats.Branches, time.Since(start))
	if wasRunning && !st.Running {
		observability.Simulation().OnSimulationComplete(r.Context(), entry.id, st.Stats.Branches, st.Stats.LeafEnds)
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) instantSimulation(w http.ResponseWriter, r *http.Request) {
	entry, err := s.sims.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry.mu.Lock()
	entry.sim.InstantGrow()
	st := entry.state(false)
	entry.mu.Unlock()

	observability.Simulation().OnSimulationComplete(r.Context(), entry.id, st.Stats.Branches, st.Stats.LeafEnds)
	s.writeJSON(w, http.StatusOK, st)
}

// restartSimulation discards the forest and plants a new tree in ?mode=
// (default normal; instant grows it immediately).
func (s *Server) restartSimulation(w http.ResponseWriter, r *http.Request) {
	entry, err := s.sims.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name := r.URL.Query().Get("mode")
	if name == "" {
		name = growth.ModeNormal.String()
	}
	mode, err := growth.ParseMode(name)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid mode"))
		return
	}

	entry.mu.Lock()
	if mode == growth.ModeInstant {
		entry.sim.Restart(entry.seed, growth.ModeNormal)
		entry.sim.InstantGrow()
	} else {
		entry.sim.Restart(entry.seed, mode)
	}
	st := entry.state(false)
	entry.mu.Unlock()

	observability.Simulation().OnSimulationStart(r.Context(), entry.id, name)
	s.writeJSON(w, http.StatusOK, st)
}

// nextScheme cycles the colour scheme used when rendering.
func (s *Server) nextScheme(w http.ResponseWriter, r *http.Request) {
	entry, err := s.sims.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry.mu.Lock()
	entry.scheme = palette.Next(entry.scheme)
	st := entry.state(false)
	entry.mu.Unlock()
	s.writeJSON(w, http.StatusOK, st)
}
