package harfbuzz

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tcache/core/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewFaceRejectsNilFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	_, err := NewFace(nil)
	assert.Error(t, err)
}

func TestNewFaceFromFallbackFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	face, err := NewFace(font.FallbackFont())
	require.NoError(t, err)
	require.NotNil(t, face)
	face.Release()
}

func TestShapeProducesGlyphsForSimpleLatinText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	face, err := NewFace(font.FallbackFont())
	require.NoError(t, err)
	face.SetMetrics(Metrics{XPpem: 12, YPpem: 12, XScale: 12 << 16, YScale: 12 << 16, Ptem: 12})

	buf := NewBuffer(8)
	props := SegmentProperties{Direction: LeftToRight, Script: language.MustParseScript("Latn")}
	result := Shape(face, []rune("Hi"), props, buf)
	assert.False(t, result.Overflow)
	assert.Greater(t, result.NumGlyphs, 0)
	assert.Len(t, buf.Glyphs, result.NumGlyphs)
}

func TestShapeReportsOverflowOnUndersizedBuffer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	face, err := NewFace(font.FallbackFont())
	require.NoError(t, err)
	face.SetMetrics(Metrics{XPpem: 12, YPpem: 12, Ptem: 12})

	buf := NewBuffer(1)
	props := SegmentProperties{Direction: LeftToRight, Script: language.MustParseScript("Latn")}
	result := Shape(face, []rune("Hello, world"), props, buf)
	assert.True(t, result.Overflow, "12 runes cannot fit a capacity-1 buffer")
	if result.Overflow {
		assert.Greater(t, result.NumGlyphs, 1)
		buf.Grow(result.NumGlyphs * 2)
		retry := Shape(face, []rune("Hello, world"), props, buf)
		assert.False(t, retry.Overflow)
	}
}

func TestScript4HBEncodesLatinAsNonZero(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	s := Script4HB(language.MustParseScript("Latn"))
	assert.NotZero(t, s)
}

func TestLang4HBIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	a := Lang4HB(language.English)
	b := Lang4HB(language.English)
	assert.Equal(t, a, b)
}
