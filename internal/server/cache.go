package server

import (
	"container/list"
	"encoding/json"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

// cacheKey is the BLAKE3 digest of a render request.
type cacheKey [32]byte

// keyOf hashes everything that affects a render's output.
func keyOf(mode wikitext.Mode, input string, page wikitext.PageInfo) cacheKey {
	h := blake3.New()
	enc := json.NewEncoder(h)
	// PageInfo and strings always encode
	_ = enc.Encode(mode)
	_ = enc.Encode(page)
	_ = enc.Encode(input)

	var key cacheKey
	copy(key[:], h.Sum(nil))
	return key
}

type cacheEntry struct {
	key cacheKey
	out *wikitext.Output
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
	MaxSize   int   `json:"max_size"`
}

// renderCache is a thread-safe LRU cache of render outputs. Cached outputs
// are shared and must not be modified.
type renderCache struct {
	mu        sync.Mutex
	maxSize   int
	entries   map[cacheKey]*list.Element
	evictList *list.List
	stats     CacheStats
}

// newRenderCache creates a cache holding up to maxSize outputs. A size of
// zero or less disables caching.
func newRenderCache(maxSize int) *renderCache {
	if maxSize < 0 {
		maxSize = 0
	}
	return &renderCache{
		maxSize:   maxSize,
		entries:   make(map[cacheKey]*list.Element),
		evictList: list.New(),
		stats:     CacheStats{MaxSize: maxSize},
	}
}

func (c *renderCache) Get(key cacheKey) (*wikitext.Output, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	// Move to front (most recently used)
	c.evictList.MoveToFront(ent)
	c.stats.Hits++
	return ent.Value.(*cacheEntry).out, true
}

func (c *renderCache) Put(key cacheKey, out *wikitext.Output) {
	if c.maxSize == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*cacheEntry).out = out
		return
	}

	c.entries[key] = c.evictList.PushFront(&cacheEntry{key: key, out: out})

	for c.evictList.Len() > c.maxSize {
		oldest := c.evictList.Back()
		c.evictList.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		c.stats.Evictions++
	}
}

func (c *renderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

func (c *renderCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := c.stats
	stats.Size = c.evictList.Len()
	return stats
}
