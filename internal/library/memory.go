package library

import (
	"sort"
	"sync"
)

// MemoryStore keeps library records in process memory. Used when no
// database is configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	nextID  uint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Init initializes the store.
func (s *MemoryStore) Init() error { return nil }

// Close cleans up resources.
func (s *MemoryStore) Close() error { return nil }

// Record upserts an entry keyed by tileset name.
func (s *MemoryStore) Record(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[rec.Name]; ok {
		rec.ID = existing.ID
	} else {
		s.nextID++
		rec.ID = s.nextID
	}
	s.records[rec.Name] = *rec
	return nil
}

// Get returns the record for a tileset name.
func (s *MemoryStore) Get(name string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// List returns all records ordered by name.
func (s *MemoryStore) List() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
