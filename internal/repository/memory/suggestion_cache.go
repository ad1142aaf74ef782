package memory

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// SuggestionCache memoizes AI keyword suggestions per normalized free-text
// query. Suggestions are deterministic enough that re-asking the model for
// the same text within a session is wasted latency.
type SuggestionCache struct {
	cache *cache.Cache
}

func NewSuggestionCache() *SuggestionCache {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SuggestionCache{
		cache: c,
	}
}

func normalizeQuery(freeText string) string {
	return strings.ToLower(strings.Join(strings.Fields(freeText), " "))
}

func (r *SuggestionCache) Save(freeText string, keywords []string) {
	r.cache.Set(normalizeQuery(freeText), keywords, cache.DefaultExpiration)
}

func (r *SuggestionCache) Get(freeText string) ([]string, bool) {
	if x, found := r.cache.Get(normalizeQuery(freeText)); found {
		return x.([]string), true
	}
	return nil, false
}

// PurgeAll drops all memoized suggestions. Implements wizard.CachePurger.
func (r *SuggestionCache) PurgeAll() {
	r.cache.Flush()
}
