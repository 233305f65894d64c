/*
Package cache implements the bounded, byte-accounted LRU of styled runs
(spec §2 component E, §4.E): LayoutCache maps a RunKey's semantic
fingerprint to its shaped RunValue, evicting least-recently-used entries
to stay within a configured byte budget.
*/
package cache

import (
	"sync"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tcache/shaping"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// LayoutCache is a bounded LRU of RunKey -> RunValue entries, guarded by
// a single exclusive mutex covering lookup, shape, admit and evict (spec
// §5: "shaping happens under the lock").
type LayoutCache struct {
	mu       sync.Mutex
	entries  map[shaping.RunCacheKey]*entry
	order    *list
	size     int64
	maxSize  int64
	shaper   *shaping.Shaper

	hitCount      uint64
	missCount     uint64
	nanosSaved    int64
	dumpEveryNHit uint64
}

// NewLayoutCache constructs a LayoutCache with the given byte budget,
// backed by shaper for cache misses (spec §4.E construction: "accept a
// byte budget; install an eviction callback").
func NewLayoutCache(maxSize int64, shaper *shaping.Shaper) *LayoutCache {
	return &LayoutCache{
		entries: make(map[shaping.RunCacheKey]*entry),
		order:   newList(),
		maxSize: maxSize,
		shaper:  shaper,
	}
}

// SetDumpEveryNHits configures the periodic diagnostic dump cadence
// (spec §6 dump_stats_every_n_hits); 0 disables it.
func (c *LayoutCache) SetDumpEveryNHits(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dumpEveryNHit = n
}

// Get implements spec §4.E's get operation: probe, shape on miss, admit
// subject to budget.
func (c *LayoutCache) Get(paint shaping.Paint, context []uint16, start, count, contextCount int, dirFlags shaping.DirFlags) *shaping.RunValue {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := shaping.NewRunKey(paint, context, start, count, contextCount, dirFlags)
	cacheKey := key.CacheKey()

	if e, ok := c.entries[cacheKey]; ok {
		c.order.remove(e)
		c.order.insert(e)
		c.hitCount++
		c.nanosSaved += e.value.ElapsedTime().Nanoseconds()
		if c.dumpEveryNHit != 0 && c.hitCount%c.dumpEveryNHit == 0 {
			c.logStatsLocked()
		}
		return e.value
	}

	c.missCount++
	value := c.shaper.ComputeValues(paint, context, start, count, contextCount, dirFlags)
	keySize := key.Size()
	valueSize := value.Size()
	total := keySize + valueSize

	if total > c.maxSize {
		// spec §4.E admission policy, §7: a single request larger than
		// the entire budget is served but never admitted.
		T().Debugf("layoutcache: entry of %d bytes exceeds budget %d, serving without admission", total, c.maxSize)
		return value
	}

	for c.size+total > c.maxSize {
		oldest := c.order.oldest()
		if oldest == nil {
			// spec §7: impossible eviction while mSize > 0 is fatal.
			panic("layoutcache: eviction found nothing to remove but cache is non-empty")
		}
		c.evictLocked(oldest)
	}

	if _, exists := c.entries[cacheKey]; exists {
		// spec §7: duplicate admission under a key we just probed for
		// (under the same lock) is a programming error, not a runtime
		// condition.
		panic("layoutcache: duplicate admission for a key probed moments ago")
	}

	e := &entry{key: cacheKey, value: value, keySize: keySize, valueSize: valueSize}
	c.entries[cacheKey] = e
	c.order.insert(e)
	c.size += total
	return value
}

// evictLocked removes e from both the map and the LRU list, decrementing
// mSize (spec §4.E's eviction callback).
func (c *LayoutCache) evictLocked(e *entry) {
	c.order.remove(e)
	delete(c.entries, e.key)
	c.size -= e.keySize + e.valueSize
}

// Purge implements spec §4.E's purge: clear all entries (zeroing size)
// and forward a purge to the Shaper.
func (c *LayoutCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[shaping.RunCacheKey]*entry)
	c.order = newList()
	c.size = 0
	c.shaper.Purge()
}

// Stats is a snapshot of the cache's diagnostic counters (spec §3's
// "hits, nanoseconds saved").
type Stats struct {
	Size       int64
	MaxSize    int64
	Entries    int
	HitCount   uint64
	MissCount  uint64
	NanosSaved int64
}

// Stats returns a snapshot of the cache's current state.
func (c *LayoutCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:       c.size,
		MaxSize:    c.maxSize,
		Entries:    len(c.entries),
		HitCount:   c.hitCount,
		MissCount:  c.missCount,
		NanosSaved: c.nanosSaved,
	}
}

func (c *LayoutCache) logStatsLocked() {
	total := c.hitCount + c.missCount
	var ratio float64
	if total > 0 {
		ratio = float64(c.hitCount) / float64(total)
	}
	T().Infof("layoutcache: %d hits, %d misses (%.1f%%), %d bytes / %d, %dns saved",
		c.hitCount, c.missCount, ratio*100, c.size, c.maxSize, c.nanosSaved)
}
