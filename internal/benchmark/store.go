package benchmark

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is a bounded collection of benchmark entries. Implementations are
// injected into the HTTP layer; there is no package-level shared state.
type Store interface {
	// Record stores an entry, filling in its ID and timestamp when absent,
	// and returns the stored entry. The oldest entries are evicted once
	// the store is at capacity.
	Record(entry Entry) Entry

	// List returns all entries, oldest first, optionally filtered by
	// client ID.
	List(clientID string) []Entry

	// Stats aggregates the stored entries.
	Stats() *Stats
}

// ringStore implements Store with a capacity-bounded slice: appends at the
// tail, evicts from the head.
type ringStore struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	logger   zerolog.Logger
}

// NewStore creates a bounded in-memory benchmark store.
func NewStore(capacity int, logger zerolog.Logger) Store {
	return &ringStore{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		logger:   logger.With().Str("component", "benchmark-store").Logger(),
	}
}

// Record stores an entry, evicting the oldest once the store is full.
func (s *ringStore) Record(entry Entry) Entry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	if len(s.entries) > s.capacity {
		overflow := len(s.entries) - s.capacity
		s.entries = append(s.entries[:0], s.entries[overflow:]...)
	}
	s.mu.Unlock()

	s.logger.Info().
		Str("id", entry.ID).
		Str("client_id", entry.ClientID).
		Str("page_url", entry.PageURL).
		Msg("benchmark entry recorded")

	return entry
}

// List returns all entries, oldest first, optionally filtered by client ID.
func (s *ringStore) List(clientID string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if clientID == "" || e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out
}

// Stats aggregates the stored entries.
func (s *ringStore) Stats() *Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return computeStats(s.entries)
}
