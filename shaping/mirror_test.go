package shaping

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestMirrorRTLSubstitutesBrackets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	mirrored, changed := mirrorRTL([]rune("(abc)"))
	assert.True(t, changed)
	assert.Equal(t, ")abc(", string(mirrored))
}

func TestMirrorRTLNoOpWhenNothingMirrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	original := []rune("hello")
	mirrored, changed := mirrorRTL(original)
	assert.False(t, changed)
	assert.Equal(t, original, mirrored)
}
