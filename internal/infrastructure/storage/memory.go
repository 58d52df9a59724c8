package storage

import (
	"context"
	"sync"
	"time"

	"github.com/ucuzbot/backend/internal/domain"
)

// maxHistory bounds the checks kept per watch
const maxHistory = 50

// MemoryWatchRepository is an in-process watch store. Watches fire once:
// a triggered watch is deactivated until it is saved again.
type MemoryWatchRepository struct {
	mu        sync.RWMutex
	watches   map[string]*domain.Watch
	order     []string
	checks    map[string][]domain.WatchCheck
	triggered map[string]time.Time
}

// NewMemoryWatchRepository creates a repository seeded with watches
func NewMemoryWatchRepository(seed []domain.Watch) *MemoryWatchRepository {
	r := &MemoryWatchRepository{
		watches:   make(map[string]*domain.Watch),
		checks:    make(map[string][]domain.WatchCheck),
		triggered: make(map[string]time.Time),
	}
	for _, w := range seed {
		r.Save(w)
	}
	return r
}

// Save inserts or replaces a watch
func (r *MemoryWatchRepository) Save(w domain.Watch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.watches[w.ID]; !exists {
		r.order = append(r.order, w.ID)
	}
	w.SourceIDs = append([]string(nil), w.SourceIDs...)
	r.watches[w.ID] = &w
	delete(r.triggered, w.ID)
}

// Get returns a copy of the watch
func (r *MemoryWatchRepository) Get(ctx context.Context, id string) (domain.Watch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.watches[id]
	if !ok {
		return domain.Watch{}, domain.ErrWatchNotFound
	}
	return *w, nil
}

// ListActive returns active watches in insertion order
func (r *MemoryWatchRepository) ListActive(ctx context.Context) ([]domain.Watch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make([]domain.Watch, 0, len(r.order))
	for _, id := range r.order {
		if w := r.watches[id]; w.Active {
			active = append(active, *w)
		}
	}
	return active, nil
}

// RecordCheck appends a check to the watch history
func (r *MemoryWatchRepository) RecordCheck(ctx context.Context, check domain.WatchCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.watches[check.WatchID]; !ok {
		return domain.ErrWatchNotFound
	}

	history := append(r.checks[check.WatchID], check)
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	r.checks[check.WatchID] = history
	return nil
}

// MarkTriggered deactivates the watch and remembers when it fired
func (r *MemoryWatchRepository) MarkTriggered(ctx context.Context, watchID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.watches[watchID]
	if !ok {
		return domain.ErrWatchNotFound
	}
	w.Active = false
	r.triggered[watchID] = at
	return nil
}

// Checks returns the recorded history of a watch, oldest first
func (r *MemoryWatchRepository) Checks(watchID string) []domain.WatchCheck {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.WatchCheck(nil), r.checks[watchID]...)
}

// TriggeredAt reports when the watch last fired
func (r *MemoryWatchRepository) TriggeredAt(watchID string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	at, ok := r.triggered[watchID]
	return at, ok
}
