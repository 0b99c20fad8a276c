package trip

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps trips in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	trips map[string]Trip
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trips: make(map[string]Trip)}
}

func (s *MemoryStore) Create(_ context.Context, t *Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[t.ID] = cloneTrip(*t)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Trip, 0, len(s.trips))
	for _, t := range s.trips {
		out = append(out, cloneTrip(t))
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := cloneTrip(t)
	return &c, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[id]; !ok {
		return ErrNotFound
	}
	delete(s.trips, id)
	return nil
}

func (s *MemoryStore) FindDuplicate(ctx context.Context, key DedupKey) (*Trip, error) {
	trips, _ := s.List(ctx)
	for i := range trips {
		if trips[i].DedupKey() == key {
			return &trips[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// sortNewestFirst orders by GeneratedAt descending, then by id descending.
// Service ids are uuid v7, so the id tie-break keeps same-millisecond saves newest first.
func sortNewestFirst(trips []Trip) {
	slices.SortStableFunc(trips, func(a, b Trip) int {
		if c := b.GeneratedAt.Compare(a.GeneratedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
}

func cloneTrip(t Trip) Trip {
	t.Itinerary = slices.Clone(t.Itinerary)
	for i := range t.Itinerary {
		t.Itinerary[i].Activities = slices.Clone(t.Itinerary[i].Activities)
	}
	t.Tips = slices.Clone(t.Tips)
	t.BudgetBreakdown = maps.Clone(t.BudgetBreakdown)
	if t.Travel != nil {
		tr := *t.Travel
		t.Travel = &tr
	}
	return t
}
