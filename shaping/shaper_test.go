package shaping

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tcache/core/font/fonthost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaperComputeValuesASCIILTR(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	s := NewShaper(fonthost.NewHost())
	ctx := u16("Hello")
	paint := SimplePaint{Size: 12, ScaleX: 1}
	value := s.ComputeValues(paint, ctx, 0, len(ctx), len(ctx), LTR)
	require.NotNil(t, value)
	assert.Greater(t, value.NumGlyphs(), 0)
	assert.Greater(t, value.TotalAdvance(), float32(0))
	assert.Len(t, value.Advances(), len(ctx))
}

func TestShaperComputeValuesForcedRTLMirrorsBrackets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	s := NewShaper(fonthost.NewHost())
	ctx := u16("(abc)")
	paint := SimplePaint{Size: 12, ScaleX: 1}
	value := s.ComputeValues(paint, ctx, 0, len(ctx), len(ctx), ForceRTL)
	require.NotNil(t, value)
	assert.Greater(t, value.NumGlyphs(), 0)
}

func TestShaperComputeValuesWindowSubsetOfContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	s := NewShaper(fonthost.NewHost())
	ctx := u16("Hello, world")
	paint := SimplePaint{Size: 12, ScaleX: 1}
	value := s.ComputeValues(paint, ctx, 7, 5, len(ctx), LTR) // "world"
	require.NotNil(t, value)
	assert.Len(t, value.Advances(), len(ctx))
	// only code units outside [7,12) must stay untouched at zero.
	for i := 0; i < 7; i++ {
		assert.Equal(t, float32(0), value.Advances()[i])
	}
}

func TestShaperComputeValuesSurrogatePairAdvanceCodeUnitIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	// "\U0001F600AB" is 4 UTF-16 code units (surrogate pair, A, B) but
	// only 3 runes; iterateScriptRuns folds the whole string into one
	// script run (the emoji is Common and attaches to the Latin "AB"
	// that follows it), so this isolates the rune->code-unit translation
	// bug from the RTL script-run reversal fixed separately. Without the
	// translation fix, the advance for 'A' (rune index 1) would have
	// landed at code unit 1 — the low half of the surrogate pair, which
	// must never carry a nonzero advance (spec P4: only a cluster's first
	// code unit is assigned a value).
	s := NewShaper(fonthost.NewHost())
	ctx := u16("\U0001F600AB")
	require.Len(t, ctx, 4)
	paint := SimplePaint{Size: 12, ScaleX: 1}
	value := s.ComputeValues(paint, ctx, 0, len(ctx), len(ctx), LTR)
	require.NotNil(t, value)
	advances := value.Advances()
	require.Len(t, advances, 4)
	assert.Equal(t, float32(0), advances[1], "low surrogate code unit must never carry an advance")
	var sum float32
	for _, a := range advances {
		sum += a
	}
	assert.InDelta(t, value.TotalAdvance(), sum, 0.01, "advances must sum to the total advance")
}

func TestShaperPurgeResetsFaceCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	s := NewShaper(fonthost.NewHost())
	ctx := u16("Hi")
	paint := SimplePaint{Size: 12, ScaleX: 1}
	s.ComputeValues(paint, ctx, 0, len(ctx), len(ctx), LTR)
	assert.Greater(t, s.FaceCacheLen(), 0)
	s.Purge()
	assert.Equal(t, 0, s.FaceCacheLen())
}
