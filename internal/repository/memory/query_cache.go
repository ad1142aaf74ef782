package memory

import (
	"fmt"
	"time"

	"job-wizard-be/pkg/hh"

	"github.com/patrickmn/go-cache"
)

// QueryCache keeps recent job board search pages in process memory so that
// stepping back and forth through results does not re-hit the upstream API.
// Entries are keyed by the search signature hash plus the page number, so a
// changed signature naturally misses.
type QueryCache struct {
	cache *cache.Cache
}

func NewQueryCache() *QueryCache {
	// Default expiration 10 minutes, sweep every 5. Search results go stale
	// quickly on an active job board.
	c := cache.New(10*time.Minute, 5*time.Minute)
	return &QueryCache{
		cache: c,
	}
}

func (r *QueryCache) key(signatureHash string, page int) string {
	return fmt.Sprintf("%s:%d", signatureHash, page)
}

func (r *QueryCache) Save(signatureHash string, page int, result *hh.SearchResult) {
	r.cache.Set(r.key(signatureHash, page), result, cache.DefaultExpiration)
}

func (r *QueryCache) Get(signatureHash string, page int) (*hh.SearchResult, bool) {
	if x, found := r.cache.Get(r.key(signatureHash, page)); found {
		return x.(*hh.SearchResult), true
	}
	return nil, false
}

// PurgeAll drops every cached page. Implements wizard.CachePurger.
func (r *QueryCache) PurgeAll() {
	r.cache.Flush()
}
