package engine

import (
	"sync"
	"sync/atomic"
)

// Cache constants
const (
	DefaultCacheSize = 1 << 16 // 64K entries
)

// CacheEntry stores a cached evaluation result for one position
// under one rating context.
type CacheEntry struct {
	FEN         string // Position in FEN notation
	EvalContext int32  // Packed self/opponent rating buckets
	Eval        Evaluation
}

// EvalCache is a thread-safe position evaluation cache.
// Uses a two-way associative cache with MurmurHash3-based indexing.
type EvalCache struct {
	entries  []cacheNode
	size     uint32
	hashMask uint32

	// Statistics
	lookups atomic.Uint64
	hits    atomic.Uint64
	adds    atomic.Uint64

	mu sync.RWMutex
}

// cacheNode holds primary and secondary entries for two-way associative cache
type cacheNode struct {
	primary   CacheEntry
	secondary CacheEntry
}

// NewEvalCache creates a new evaluation cache with the given size.
// Size will be adjusted to the nearest power of 2.
func NewEvalCache(size uint32) *EvalCache {
	if size > 1<<31 {
		size = 1 << 31
	}
	if size < 2 {
		size = 2
	}

	// Find smallest power of 2 >= size
	p := uint32(1)
	for p < size {
		p <<= 1
	}
	size = p

	return &EvalCache{
		entries:  make([]cacheNode, size/2),
		size:     size,
		hashMask: (size / 2) - 1,
	}
}

// Flush clears all entries from the cache
func (c *EvalCache) Flush() {
	c.mu.Lock()
	for i := range c.entries {
		c.entries[i] = cacheNode{}
	}
	c.mu.Unlock()

	c.lookups.Store(0)
	c.hits.Store(0)
	c.adds.Store(0)
}

// hash computes the cache slot for a position using MurmurHash3-style mixing
func (c *EvalCache) hash(fen string, evalContext int32) uint32 {
	// MurmurHash3 constants
	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	h := uint32(0)

	// Mix in the FEN bytes four at a time
	var k uint32
	var n uint
	for i := 0; i < len(fen); i++ {
		k |= uint32(fen[i]) << (8 * n)
		n++
		if n < 4 && i != len(fen)-1 {
			continue
		}
		n = 0

		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2

		h ^= k
		h = (h << 13) | (h >> 19)
		h = h*5 + 0xe6546b64
		k = 0
	}

	// Mix in the rating context
	k = uint32(evalContext)
	k *= c1
	k = (k << 15) | (k >> 17)
	k *= c2
	h ^= k

	// Finalization
	h ^= uint32(len(fen))
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h & c.hashMask
}

func entryMatches(e *CacheEntry, fen string, evalContext int32) bool {
	return e.FEN == fen && e.EvalContext == evalContext
}

// Lookup checks if a position is in the cache.
// On a hit it returns a copy of the cached evaluation; on a miss it
// returns nil along with the hash slot to pass to Add.
func (c *EvalCache) Lookup(fen string, evalContext int32) (*Evaluation, uint32) {
	slot := c.hash(fen, evalContext)
	c.lookups.Add(1)

	c.mu.RLock()
	defer c.mu.RUnlock()

	node := &c.entries[slot]

	if entryMatches(&node.primary, fen, evalContext) {
		c.hits.Add(1)
		return copyEval(&node.primary.Eval), slot
	}

	if entryMatches(&node.secondary, fen, evalContext) {
		c.hits.Add(1)
		return copyEval(&node.secondary.Eval), slot
	}

	return nil, slot
}

// Add adds an evaluation result to the cache.
// slot should be the value returned by a previous Lookup miss.
func (c *EvalCache) Add(fen string, evalContext int32, ev *Evaluation, slot uint32) {
	entry := CacheEntry{
		FEN:         fen,
		EvalContext: evalContext,
		Eval:        *copyEval(ev),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Move primary to secondary, add new as primary
	node := &c.entries[slot]
	node.secondary = node.primary
	node.primary = entry

	c.adds.Add(1)
}

// Stats returns cache statistics
func (c *EvalCache) Stats() (lookups, hits, adds uint64) {
	return c.lookups.Load(), c.hits.Load(), c.adds.Load()
}

// HitRate returns the cache hit rate as a percentage
func (c *EvalCache) HitRate() float64 {
	lookups := c.lookups.Load()
	if lookups == 0 {
		return 0
	}
	return float64(c.hits.Load()) / float64(lookups) * 100
}

// cacheContext packs the two rating buckets into a single int32 cache key
func cacheContext(selfBucket, oppoBucket int64) int32 {
	return int32(selfBucket)<<8 | int32(oppoBucket)
}

// copyEval returns a deep copy so cached policies cannot be mutated
// by callers.
func copyEval(ev *Evaluation) *Evaluation {
	out := &Evaluation{
		Policy:  make([]MoveProbability, len(ev.Policy)),
		WinProb: ev.WinProb,
	}
	copy(out.Policy, ev.Policy)
	return out
}
