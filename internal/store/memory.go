package store

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bethellan/MaranuiCam/internal/forecast"
)

// ErrNotFound is returned when no dataset is held for a day.
var ErrNotFound = errors.New("no dataset for requested day")

// MemoryStore keeps the latest reconciled dataset per calendar day,
// keyed by the dataset's own local midnight. Keying by day rather than
// by relative offset means a dataset assembled before midnight cannot
// be served for whatever day that offset resolves to afterwards. A
// dataset only replaces the held one when its generation number is at
// least as new, so a slow superseded assembly can never overwrite a
// fresher result. Consumers always see whole datasets, never merges.
type MemoryStore struct {
	mu sync.RWMutex

	// key: the dataset's Day (local midnight) as a unix timestamp
	data map[int64]*forecast.Dataset

	// maxAge hides datasets that have not been refreshed; 0 disables.
	maxAge time.Duration
	clock  clockwork.Clock
}

// NewMemoryStore creates a MemoryStore with an optional age limit. A
// nil clock falls back to the wall clock.
func NewMemoryStore(maxAge time.Duration, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		data:   make(map[int64]*forecast.Dataset),
		maxAge: maxAge,
		clock:  clock,
	}
}

// Publish installs a dataset for its day unless a newer generation is
// already held. It reports whether the dataset was kept.
func (s *MemoryStore) Publish(d *forecast.Dataset) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := d.Day.Unix()
	if cur, ok := s.data[key]; ok && cur.Generation > d.Generation {
		return false
	}
	s.data[key] = d
	return true
}

// Latest returns the held dataset for a calendar day (local midnight).
func (s *MemoryStore) Latest(day time.Time) (*forecast.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[day.Unix()]
	if !ok {
		return nil, ErrNotFound
	}
	if s.maxAge > 0 && s.clock.Since(d.AssembledAt) > s.maxAge {
		return nil, ErrNotFound
	}
	return d, nil
}

// Evict drops datasets older than the age limit. Called from the
// refresh job; a no-op when no limit is set.
func (s *MemoryStore) Evict() {
	if s.maxAge <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-s.maxAge)
	for key, d := range s.data {
		if d.AssembledAt.Before(cutoff) {
			delete(s.data, key)
		}
	}
}
