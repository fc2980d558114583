package cache

import (
	"sync"
	"time"

	"ragtour/internal/domain"
	"ragtour/internal/port"
)

// QueryCache memoises retrieval rankings per resolved keyword. Entries are
// bound to an index generation; Invalidate bumps it after each ingestion.
type QueryCache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	order    []string
	maxSize  int
	ttl      time.Duration
	indexGen uint64
	hits     uint64
	misses   uint64
}

type cacheEntry struct {
	scored    []domain.ScoredChunk
	top       []domain.ScoredChunk
	timestamp time.Time
	indexGen  uint64
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get returns deep copies of the cached ranking for keyword.
func (c *QueryCache) Get(keyword string) ([]domain.ScoredChunk, []domain.ScoredChunk, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[keyword]
	if !exists {
		c.misses++
		return nil, nil, false
	}

	if time.Since(entry.timestamp) > c.ttl || entry.indexGen != c.indexGen {
		delete(c.entries, keyword)
		c.removeFromOrder(keyword)
		c.misses++
		return nil, nil, false
	}

	c.moveToEnd(keyword)
	c.hits++

	return cloneScored(entry.scored), cloneScored(entry.top), true
}

func (c *QueryCache) Put(keyword string, scored, top []domain.ScoredChunk) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{
		scored:    cloneScored(scored),
		top:       cloneScored(top),
		timestamp: time.Now(),
		indexGen:  c.indexGen,
	}

	if _, exists := c.entries[keyword]; exists {
		c.entries[keyword] = entry
		c.moveToEnd(keyword)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[keyword] = entry
	c.order = append(c.order, keyword)
}

func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.indexGen++
}

func (c *QueryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counters since construction.
func (c *QueryCache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *QueryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *QueryCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *QueryCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func cloneScored(in []domain.ScoredChunk) []domain.ScoredChunk {
	if in == nil {
		return nil
	}
	out := make([]domain.ScoredChunk, len(in))
	for i, s := range in {
		out[i] = domain.ScoredChunk{Chunk: s.Chunk.Clone(), Similarity: s.Similarity}
	}
	return out
}

// CachedRetriever wraps a retriever with a QueryCache. Query vectors come
// from a fixed keyword table, so the keyword identifies the vector.
type CachedRetriever struct {
	retriever port.Retriever
	cache     *QueryCache
}

func NewCachedRetriever(retriever port.Retriever, cache *QueryCache) *CachedRetriever {
	return &CachedRetriever{
		retriever: retriever,
		cache:     cache,
	}
}

func (r *CachedRetriever) Search(query domain.QueryVector) ([]domain.ScoredChunk, []domain.ScoredChunk, error) {
	if scored, top, hit := r.cache.Get(query.Keyword); hit {
		return scored, top, nil
	}

	scored, top, err := r.retriever.Search(query)
	if err != nil {
		return nil, nil, err
	}

	r.cache.Put(query.Keyword, scored, top)

	return scored, top, nil
}

// Invalidate drops every cached ranking.
func (r *CachedRetriever) Invalidate() {
	r.cache.Invalidate()
}

// Cache exposes the underlying cache.
func (r *CachedRetriever) Cache() *QueryCache {
	return r.cache
}
