// Package cache implements a two-tier semantic response cache: an
// exact-match L1 backed by hashicorp/golang-lru/v2 and a similarity L2
// that promotes near-duplicate hits back into L1.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"testmind/internal/embedding"
	"testmind/internal/model"
)

// SimilarityThreshold is the cosine-similarity floor an L2 lookup must
// clear before it counts as a hit and gets promoted to L1.
const SimilarityThreshold = 0.85

// Cache is the two-tier Semantic Cache.
type Cache struct {
	mu sync.Mutex
	l1 *lru.Cache[string, *model.CacheEntry]
	l2 []*model.CacheEntry // linear-scanned by embedding similarity
}

// New creates a Cache whose L1 exact tier holds at most l1Size entries.
func New(l1Size int) (*Cache, error) {
	l1, err := lru.New[string, *model.CacheEntry](l1Size)
	if err != nil {
		return nil, err
	}
	return &Cache{l1: l1}, nil
}

// Get looks up key exactly in L1 first, then by embedding similarity in
// L2. An L2 hit is promoted into L1 and counts as an L1 hit thereafter.
func (c *Cache) Get(key string, queryEmbedding []float32) (*model.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneExpiredLocked()

	if entry, ok := c.l1.Get(key); ok {
		entry.Hits++
		return entry, true
	}

	if queryEmbedding == nil {
		return nil, false
	}

	var best *model.CacheEntry
	bestScore := 0.0
	for _, entry := range c.l2 {
		if entry.Embedding == nil {
			continue
		}
		score, err := embedding.CosineSimilarity(queryEmbedding, entry.Embedding)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = entry
		}
	}
	if best == nil || bestScore < SimilarityThreshold {
		return nil, false
	}

	best.Hits++
	c.l1.Add(best.Key, best)
	return best, true
}

// Set inserts or refreshes an entry in both tiers.
func (c *Cache) Set(key, value string, queryEmbedding []float32, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &model.CacheEntry{
		Key:       key,
		Value:     value,
		Embedding: queryEmbedding,
		Timestamp: time.Now(),
		TTL:       ttl,
	}
	c.l1.Add(key, entry)

	for i, existing := range c.l2 {
		if existing.Key == key {
			c.l2[i] = entry
			return
		}
	}
	c.l2 = append(c.l2, entry)
}

// pruneExpiredLocked drops TTL-expired entries from both tiers. Called
// lazily on every Get rather than via a background goroutine.
func (c *Cache) pruneExpiredLocked() {
	now := time.Now()
	live := c.l2[:0]
	for _, entry := range c.l2 {
		if entry.TTL > 0 && now.Sub(entry.Timestamp) > entry.TTL {
			c.l1.Remove(entry.Key)
			continue
		}
		live = append(live, entry)
	}
	c.l2 = live
}

// Len reports the number of live L2 entries (L1 is a strict subset).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.l2)
}
