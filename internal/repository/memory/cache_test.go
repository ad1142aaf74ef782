package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"job-wizard-be/pkg/hh"
)

func TestQueryCacheRoundTrip(t *testing.T) {
	c := NewQueryCache()
	result := &hh.SearchResult{Found: 2, Items: []hh.VacancyItem{{ID: "v1"}, {ID: "v2"}}}

	c.Save("12345", 0, result)

	got, ok := c.Get("12345", 0)
	assert.True(t, ok)
	assert.Equal(t, result, got)

	_, ok = c.Get("12345", 1)
	assert.False(t, ok, "pages are cached independently")

	_, ok = c.Get("99999", 0)
	assert.False(t, ok, "a different signature misses")
}

func TestQueryCachePurgeAll(t *testing.T) {
	c := NewQueryCache()
	c.Save("12345", 0, &hh.SearchResult{})
	c.Save("12345", 1, &hh.SearchResult{})

	c.PurgeAll()

	_, ok := c.Get("12345", 0)
	assert.False(t, ok)
	_, ok = c.Get("12345", 1)
	assert.False(t, ok)
}

func TestSuggestionCacheNormalizesQuery(t *testing.T) {
	c := NewSuggestionCache()
	c.Save("Remote   Go  Jobs", []string{"go", "backend"})

	got, ok := c.Get("  remote go jobs ")
	assert.True(t, ok)
	assert.Equal(t, []string{"go", "backend"}, got)

	_, ok = c.Get("remote java jobs")
	assert.False(t, ok)
}

func TestSuggestionCachePurgeAll(t *testing.T) {
	c := NewSuggestionCache()
	c.Save("go jobs", []string{"go"})

	c.PurgeAll()

	_, ok := c.Get("go jobs")
	assert.False(t, ok)
}
