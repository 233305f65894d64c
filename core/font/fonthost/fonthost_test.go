package fonthost

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tcache/core/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTypefaceForUnresolvableNameFallsBack(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	h := NewHost()
	tf := h.TypefaceFor("this-font-definitely-does-not-exist-anywhere")
	require.NotNil(t, tf)
}

func TestUnitsPerEmFallsBackOnNilTypeface(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	assert.Equal(t, uint16(1000), UnitsPerEm(nil))
}

func TestUnitsPerEmFromFallbackFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	tf := font.NewTypeface(font.FallbackFont())
	upm := UnitsPerEm(tf)
	assert.Greater(t, upm, uint16(0))
}

func TestIsComplexScript(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	assert.False(t, IsComplexScript(language.MustParseScript("Zyyy")))
	assert.False(t, IsComplexScript(language.MustParseScript("Cyrl")))
	assert.True(t, IsComplexScript(language.MustParseScript("Arab")))
}

func TestCreateTypefaceForScriptUnlistedScriptReturnsNil(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	h := NewHost()
	script := language.MustParseScript("Xsux") // unlisted script: no candidates
	assert.Nil(t, h.CreateTypefaceForScript(script, 0, 0))
}

func TestGlobalHostSingleton(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	a := GlobalHost()
	b := GlobalHost()
	assert.Same(t, a, b)
}
