package team_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoreline/scoreline/internal/team"
)

func TestNewLRUCache_RejectsBadSettings(t *testing.T) {
	tests := []struct {
		name string
		size int
		ttl  time.Duration
	}{
		{name: "zero size", size: 0, ttl: time.Minute},
		{name: "negative size", size: -1, ttl: time.Minute},
		{name: "negative ttl", size: 10, ttl: -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, err := team.NewLRUCache(tt.size, tt.ttl)
			assert.Error(t, err)
			assert.Nil(t, cache)
		})
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache, err := team.NewLRUCache(2, 0)
	require.NoError(t, err)

	cache.Add("a", team.NewPlaceholder("a"))
	cache.Add("b", team.NewPlaceholder("b"))
	_, ok := cache.Get("a") // a becomes most recent
	require.True(t, ok)
	cache.Add("c", team.NewPlaceholder("c"))

	_, ok = cache.Peek("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = cache.Peek("a")
	assert.True(t, ok)
	_, ok = cache.Peek("c")
	assert.True(t, ok)

	stats := cache.Stats()
	assert.Equal(t, uint64(1), stats.Evictions)
	assert.Equal(t, 2, stats.Size)
}

func TestLRUCache_EntriesExpireAfterTTL(t *testing.T) {
	cache, err := team.NewLRUCache(8, 50*time.Millisecond)
	require.NoError(t, err)

	cache.Add("42", team.NewPlaceholder("42"))
	_, ok := cache.Get("42")
	require.True(t, ok)

	time.Sleep(150 * time.Millisecond)

	_, ok = cache.Get("42")
	assert.False(t, ok)
}

func TestLRUCache_PeekDoesNotCount(t *testing.T) {
	cache, err := team.NewLRUCache(8, 0)
	require.NoError(t, err)

	cache.Add("1", team.NewPlaceholder("1"))
	cache.Peek("1")
	cache.Peek("missing")

	stats := cache.Stats()
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
}

func TestLRUCache_RemoveAndKeys(t *testing.T) {
	cache, err := team.NewLRUCache(8, 0)
	require.NoError(t, err)

	cache.Add("1", team.NewPlaceholder("1"))
	cache.Add("2", team.NewPlaceholder("2"))
	cache.Remove("1")
	cache.Remove("does-not-exist")

	assert.Equal(t, []string{"2"}, cache.Keys())
	assert.Equal(t, 1, cache.Len())
	assert.Zero(t, cache.Stats().Evictions)
}

func TestRecord_Clone(t *testing.T) {
	orig := &team.Record{ID: "1", Name: "Ajax", Translations: map[string]string{"nl": "AFC Ajax"}}

	c := orig.Clone()
	c.Translations["nl"] = "changed"

	assert.Equal(t, "AFC Ajax", orig.Translations["nl"])

	empty := (&team.Record{ID: "2"}).Clone()
	assert.NotNil(t, empty.Translations)
}
