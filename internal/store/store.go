package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"traindash/internal/models"
)

// Store holds the most recent consolidated arrival views. Each fetch cycle
// replaces the whole snapshot; readers never see a half-updated cycle.
type Store struct {
	mu         sync.RWMutex
	views      []models.StationArrivals
	byName     map[string]int
	lastUpdate time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byName: make(map[string]int),
	}
}

// Update replaces the snapshot with the views from one cycle.
func (s *Store) Update(views []models.StationArrivals) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.views = views
	s.lastUpdate = time.Now()

	s.byName = make(map[string]int, len(views))
	for i, view := range views {
		s.byName[strings.ToLower(view.Name)] = i
	}
}

// All returns the current snapshot in configuration order.
func (s *Store) All() []models.StationArrivals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.StationArrivals, len(s.views))
	copy(result, s.views)
	return result
}

// Station returns one station's view by name, case-insensitively.
func (s *Store) Station(name string) (models.StationArrivals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return models.StationArrivals{}, fmt.Errorf("station %q not found", name)
	}
	return s.views[i], nil
}

// LastUpdate returns when the snapshot was last replaced.
func (s *Store) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}
