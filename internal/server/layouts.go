package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/store"
)

const defaultListLimit = 50

// layoutRequest carries the tree either as JSON (graph or links form) or
// as an edge list.
type layoutRequest struct {
	Graph   json.RawMessage  `json:"graph,omitempty"`
	Edges   string           `json:"edges,omitempty"`
	Options pipeline.Options `json:"options"`
}

type layoutResponse struct {
	ID        string            `json:"id"`
	Cached    bool              `json:"cached"`
	Omitted   int               `json:"omitted"`
	Layout    graph.Layout      `json:"layout"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
}

func (s *Server) createLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		g   graph.Graph
		err error
	)
	switch {
	case req.Edges != "":
		g, err = pipeline.ParseInput([]byte(req.Edges), pipeline.InputEdges)
	case len(req.Graph) > 0:
		g, err = pipeline.ParseInput(req.Graph, "")
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "request needs graph or edges")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.layoutOptions(req.Options)
	resp := layoutResponse{ID: uuid.NewString()}
	if len(opts.Formats) == 0 {
		resp.Layout, resp.Cached, err = s.runner.ComputeLayoutWithCacheInfo(r.Context(), g, opts)
	} else {
		var res *pipeline.Result
		res, err = s.runner.Execute(r.Context(), g, opts)
		if res != nil {
			resp.Layout, resp.Cached, resp.Artifacts = res.Layout, res.CacheInfo.LayoutHit, res.Artifacts
		}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.Omitted = g.DistinctNodes() - len(resp.Layout.Positions)

	resp.Layout.ID = resp.ID
	if err := s.store.SaveLayout(r.Context(), resp.Layout); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/v1/layouts/"+resp.ID)
	s.writeJSON(w, http.StatusCreated, resp)
}

// layoutOptions fills parameters the request left out from the config file.
func (s *Server) layoutOptions(opts pipeline.Options) pipeline.Options {
	l := s.cfg.Layout
	if opts.BranchAngleDeg == 0 && opts.BranchFactor == 0 && opts.MinBranchLength == 0 {
		opts.BranchAngleDeg, opts.BranchFactor, opts.MinBranchLength = l.BranchAngleDeg, l.BranchFactor, l.MinBranchLength
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = l.MaxDepth
	}
	if opts.OriginX == 0 && opts.OriginY == 0 {
		opts.OriginX, opts.OriginY = l.OriginX, l.OriginY
	}
	if opts.Seed == 0 {
		opts.Seed = l.Seed
	}
	if opts.Bands == nil {
		opts.Bands = s.cfg.LayoutOptions().Bands
	}
	if opts.Background == "" {
		opts.Background = s.cfg.Render.Background
	}
	opts.Logger = s.logger
	return opts
}

func (s *Server) listLayouts(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	list, err := s.store.ListLayouts(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"layouts": list})
}

// getLayout returns the stored layout, or renders it when ?format= is set.
// Rendering accepts ?type=, ?scheme=, ?width=, ?height= and ?detailed=.
func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.LoadLayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		s.writeJSON(w, http.StatusOK, l)
		return
	}

	opts := pipeline.Options{
		Formats:    []string{format},
		VizType:    q.Get("type"),
		Background: s.cfg.Render.Background,
		Logger:     s.logger,
	}
	if opts.Scheme, err = intParam(q.Get("scheme"), s.cfg.Render.Scheme); err == nil {
		if opts.Width, err = intParam(q.Get("width"), 0); err == nil {
			opts.Height, err = intParam(q.Get("height"), 0)
		}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Detailed = q.Get("detailed") == "true"

	artifacts, err := s.runner.Render(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, artifacts[format])
}

func (s *Server) deleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteLayout(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid integer %q", v)
	}
	return n, nil
}
