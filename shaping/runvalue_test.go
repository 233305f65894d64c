package shaping

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestRunValueAppendAndReset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	v := NewRunValue(5)
	v.appendGlyph(7, 1.5, 0)
	v.appendGlyph(8, 2.5, 0)
	v.advances[0] = 4
	v.totalAdvance = 4
	assert.Equal(t, 2, v.NumGlyphs())
	x, y := v.Position(0)
	assert.Equal(t, float32(1.5), x)
	assert.Equal(t, float32(0), y)

	v.reset()
	assert.Equal(t, 0, v.NumGlyphs())
	assert.Equal(t, float32(0), v.TotalAdvance())
	assert.Len(t, v.Advances(), 5)
	for _, a := range v.Advances() {
		assert.Equal(t, float32(0), a)
	}
}

func TestRunValueSizeTracksCapacity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	v := NewRunValue(10)
	small := v.Size()
	v.appendGlyph(1, 0, 0)
	assert.Equal(t, small, v.Size(), "Size depends on capacity, not length")
}
