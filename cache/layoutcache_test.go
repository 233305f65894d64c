package cache

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tcache/core/font/fonthost"
	"github.com/npillmayer/tcache/shaping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, maxSize int64) *LayoutCache {
	t.Helper()
	shpr := shaping.NewShaper(fonthost.NewHost())
	return NewLayoutCache(maxSize, shpr)
}

func TestLayoutCacheMissThenHit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	c := newTestCache(t, 1<<20)
	ctx := u16str("Hello")
	paint := shaping.SimplePaint{Size: 12, ScaleX: 1}

	v1 := c.Get(paint, ctx, 0, len(ctx), len(ctx), shaping.LTR)
	require.NotNil(t, v1)
	stats := c.Stats()
	assert.EqualValues(t, 0, stats.HitCount)
	assert.EqualValues(t, 1, stats.MissCount)

	v2 := c.Get(paint, ctx, 0, len(ctx), len(ctx), shaping.LTR)
	require.NotNil(t, v2)
	assert.Same(t, v1, v2, "identical run key must hit the same RunValue")
	stats = c.Stats()
	assert.EqualValues(t, 1, stats.HitCount)
	assert.EqualValues(t, 1, stats.MissCount)
}

func TestLayoutCacheOversizeEntryServedWithoutAdmission(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	c := newTestCache(t, 1) // budget smaller than any real entry
	ctx := u16str("Hello")
	paint := shaping.SimplePaint{Size: 12, ScaleX: 1}

	v := c.Get(paint, ctx, 0, len(ctx), len(ctx), shaping.LTR)
	require.NotNil(t, v)
	stats := c.Stats()
	assert.EqualValues(t, 0, stats.Entries, "an entry over budget must never be admitted")
	assert.EqualValues(t, 0, stats.Size)
}

func TestLayoutCacheEvictsLeastRecentlyUsed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	paint := shaping.SimplePaint{Size: 12, ScaleX: 1}
	first := u16str("AAAA")
	c := newTestCache(t, 1<<20)
	c.Get(paint, first, 0, len(first), len(first), shaping.LTR)
	firstSize := c.Stats().Size

	// Budget just over one entry: admitting a second, different entry
	// must evict the first.
	c2 := newTestCache(t, firstSize+1)
	c2.Get(paint, first, 0, len(first), len(first), shaping.LTR)
	second := u16str("BBBB")
	c2.Get(paint, second, 0, len(second), len(second), shaping.LTR)

	stats := c2.Stats()
	assert.LessOrEqual(t, stats.Entries, 1)
}

func TestLayoutCachePurgeClearsEverything(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	c := newTestCache(t, 1<<20)
	ctx := u16str("Hello")
	paint := shaping.SimplePaint{Size: 12, ScaleX: 1}
	c.Get(paint, ctx, 0, len(ctx), len(ctx), shaping.LTR)
	require.Greater(t, c.Stats().Entries, 0)

	c.Purge()
	stats := c.Stats()
	assert.EqualValues(t, 0, stats.Entries)
	assert.EqualValues(t, 0, stats.Size)
}

func TestLayoutCacheDumpStatsEveryHitKeepsCounting(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	c := newTestCache(t, 1<<20)
	c.SetDumpEveryNHits(1)
	ctx := u16str("Hi")
	paint := shaping.SimplePaint{Size: 12, ScaleX: 1}
	c.Get(paint, ctx, 0, len(ctx), len(ctx), shaping.LTR)
	c.Get(paint, ctx, 0, len(ctx), len(ctx), shaping.LTR)
	assert.EqualValues(t, 1, c.Stats().HitCount)
}

func u16str(s string) []uint16 {
	u := make([]uint16, 0, len(s))
	for _, r := range s {
		u = append(u, uint16(r))
	}
	return u
}
