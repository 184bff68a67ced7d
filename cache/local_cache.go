package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"query-hub/models"

	gocache "github.com/patrickmn/go-cache"
)

// LocalListCache keeps listings in process memory. It suits a single
// instance; with several replicas a write only invalidates the local copy.
type LocalListCache struct {
	cache *gocache.Cache

	mu          sync.Mutex
	generations map[string]int64
}

func NewLocalListCache(ttl time.Duration) *LocalListCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &LocalListCache{
		cache:       gocache.New(ttl, 2*ttl),
		generations: make(map[string]int64),
	}
}

// Get returns the cached listing, if any, and the current generation of
// collection.
func (lc *LocalListCache) Get(_ context.Context, collection string, params models.ListParams) ([]models.Document, int64, bool) {
	lc.mu.Lock()
	generation := lc.generations[collection]
	lc.mu.Unlock()

	v, found := lc.cache.Get(localKey(collection, generation, params))
	if !found {
		return nil, generation, false
	}
	docs, ok := v.([]models.Document)
	return docs, generation, ok
}

// SetAsync stores synchronously; a local write cannot block. A listing read
// under an older generation is dropped.
func (lc *LocalListCache) SetAsync(collection string, generation int64, params models.ListParams, docs []models.Document) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if lc.generations[collection] != generation {
		return
	}
	lc.cache.Set(localKey(collection, generation, params), docs, gocache.DefaultExpiration)
}

// Invalidate bumps the generation of collection and drops its entries.
func (lc *LocalListCache) Invalidate(_ context.Context, collection string) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	lc.generations[collection]++
	prefix := collection + "|"
	for key := range lc.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			lc.cache.Delete(key)
		}
	}
	return nil
}

func localKey(collection string, generation int64, params models.ListParams) string {
	return fmt.Sprintf("%s|%d|%q|%q|%q", collection, generation, params.Search, params.Filter, params.Sort)
}
