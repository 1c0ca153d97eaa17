package cache

import (
	"sync"
	"time"
)

// ResourceType names a cached collection.
type ResourceType string

const (
	ResourcePacks     ResourceType = "packs"
	ResourceOfferings ResourceType = "offerings"
)

type key struct {
	resource      ResourceType
	institutionID int64
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Store is an in-process read-through cache for catalog browsing, keyed by
// (resource type, institution). Staff mutations invalidate the affected
// keys explicitly. It is display-only: admission decisions always re-derive
// occupancy from the database and never consult this cache.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[key]entry
	now     func() time.Time
}

// New creates a cache with the given entry TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[key]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for the key if present and not expired.
func (s *Store) Get(resource ResourceType, institutionID int64) (interface{}, bool) {
	s.mu.RLock()
	e, ok := s.entries[key{resource, institutionID}]
	s.mu.RUnlock()
	if !ok || s.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores a value under the key with the configured TTL.
func (s *Store) Set(resource ResourceType, institutionID int64, value interface{}) {
	s.mu.Lock()
	s.entries[key{resource, institutionID}] = entry{
		value:     value,
		expiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()
}

// Invalidate drops the cached value for one key.
func (s *Store) Invalidate(resource ResourceType, institutionID int64) {
	s.mu.Lock()
	delete(s.entries, key{resource, institutionID})
	s.mu.Unlock()
}

// InvalidateInstitution drops every cached resource of one institution.
// Used after staff mutations that can affect multiple listings.
func (s *Store) InvalidateInstitution(institutionID int64) {
	s.mu.Lock()
	for k := range s.entries {
		if k.institutionID == institutionID {
			delete(s.entries, k)
		}
	}
	s.mu.Unlock()
}
