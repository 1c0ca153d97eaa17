package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetSet(t *testing.T) {
	s := New(time.Minute)

	_, ok := s.Get(ResourcePacks, 1)
	assert.False(t, ok)

	s.Set(ResourcePacks, 1, "packs-of-1")
	v, ok := s.Get(ResourcePacks, 1)
	require.True(t, ok)
	assert.Equal(t, "packs-of-1", v)

	// Same resource, different institution is a different key
	_, ok = s.Get(ResourcePacks, 2)
	assert.False(t, ok)

	// Different resource, same institution is a different key
	_, ok = s.Get(ResourceOfferings, 1)
	assert.False(t, ok)
}

func TestStoreExpiry(t *testing.T) {
	s := New(time.Minute)
	current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.Set(ResourceOfferings, 7, []int{1, 2, 3})

	_, ok := s.Get(ResourceOfferings, 7)
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = s.Get(ResourceOfferings, 7)
	assert.False(t, ok, "expired entry must not be served")
}

func TestStoreInvalidate(t *testing.T) {
	s := New(time.Minute)
	s.Set(ResourcePacks, 1, "a")
	s.Set(ResourceOfferings, 1, "b")
	s.Set(ResourcePacks, 2, "c")

	s.Invalidate(ResourcePacks, 1)
	_, ok := s.Get(ResourcePacks, 1)
	assert.False(t, ok)
	_, ok = s.Get(ResourceOfferings, 1)
	assert.True(t, ok)

	s.InvalidateInstitution(1)
	_, ok = s.Get(ResourceOfferings, 1)
	assert.False(t, ok)

	// Other institutions are untouched
	_, ok = s.Get(ResourcePacks, 2)
	assert.True(t, ok)
}
