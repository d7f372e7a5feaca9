// Package store persists computed layouts.
//
// [MongoStore] keeps layouts in a MongoDB collection keyed by layout id.
// [MemoryStore] serves tests and single-process servers without a database.
package store

import (
	"context"
	"sync"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
)

// Store saves and loads layouts by id.
type Store interface {
	SaveLayout(ctx context.Context, l graph.Layout) error
	LoadLayout(ctx context.Context, id string) (graph.Layout, error)
	ListLayouts(ctx context.Context, limit int) ([]Summary, error)
	DeleteLayout(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// Summary is a listing entry.
type Summary struct {
	ID        string `json:"id" bson:"_id"`
	Root      string `json:"root" bson:"root"`
	Nodes     int    `json:"nodes" bson:"nodes"`
	GraphHash string `json:"graph_hash,omitempty" bson:"graph_hash,omitempty"`
}

func summarize(l graph.Layout) Summary {
	return Summary{ID: l.ID, Root: l.Root, Nodes: len(l.Positions), GraphHash: l.GraphHash}
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]graph.Layout
	order   []string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]graph.Layout)}
}

// SaveLayout inserts or replaces l.
func (s *MemoryStore) SaveLayout(_ context.Context, l graph.Layout) error {
	if l.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "layout id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.layouts[l.ID]; !ok {
		s.order = append(s.order, l.ID)
	}
	s.layouts[l.ID] = l
	return nil
}

// LoadLayout returns the layout stored under id.
func (s *MemoryStore) LoadLayout(_ context.Context, id string) (graph.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layouts[id]
	if !ok {
		return graph.Layout{}, errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", id)
	}
	return l, nil
}

// ListLayouts returns the newest layouts first; limit <= 0 means all.
func (s *MemoryStore) ListLayouts(_ context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, summarize(s.layouts[s.order[i]]))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// DeleteLayout removes id. Missing ids report ErrCodeLayoutNotFound.
func (s *MemoryStore) DeleteLayout(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.layouts[id]; !ok {
		return errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", id)
	}
	delete(s.layouts, id)
	for j, v := range s.order {
		if v == id {
			s.order = append(s.order[:j], s.order[j+1:]...)
			break
		}
	}
	return nil
}

// Close does nothing.
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
