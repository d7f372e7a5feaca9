// Package server exposes layouts and growth simulations over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /v1/layouts                      compute (and store) a layout
//	GET    /v1/layouts                      list stored layouts
//	GET    /v1/layouts/{id}                 fetch a layout, ?format= renders it
//	DELETE /v1/layouts/{id}
//	POST   /v1/simulations                  plant a tree
//	GET    /v1/simulations/{id}             state and segments, ?format= renders it
//	POST   /v1/simulations/{id}/tick        advance ?n= ticks
//	POST   /v1/simulations/{id}/instant     grow to completion
//	POST   /v1/simulations/{id}/restart     plant a new tree, ?mode=
//	POST   /v1/simulations/{id}/scheme      next colour scheme
//	DELETE /v1/simulations/{id}
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/store"
)

// Limits applied to every server.
const (
	MaxBodyBytes      = 8 << 20
	MaxSimulations    = 256
	MaxTreeBranches   = 100_000
	SimulationIdleTTL = 30 * time.Minute
	shutdownTimeout   = 5 * time.Second
)

// Server holds the dependencies shared by all handlers.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	cfg    config.Config
	logger *log.Logger
	sims   *registry
	router chi.Router
}

// New builds the router. A nil store keeps layouts in memory.
func New(runner *pipeline.Runner, st store.Store, cfg config.Config, logger *log.Logger) *Server {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  st,
		cfg:    cfg,
		logger: logger,
		sims:   newRegistry(MaxSimulations, SimulationIdleTTL),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.createLayout)
		r.Get("/", s.listLayouts)
		r.Get("/{id}", s.getLayout)
		r.Delete("/{id}", s.deleteLayout)
	})

	r.Route("/v1/simulations", func(r chi.Router) {
		r.Post("/", s.createSimulation)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSimulation)
			r.Delete("/", s.deleteSimulation)
			r.Post("/tick", s.tickSimulation)
			r.Post("/instant", s.instantSimulation)
			r.Post("/restart", s.restartSimulation)
			r.Post("/scheme", s.nextScheme)
		})
	})

	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
