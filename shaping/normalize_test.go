package shaping

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCombiningMarksPadsWithZWSP(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	// 'e' + combining acute accent (U+0301) NFC-composes to a single
	// precomposed 'é', so the normalised run must be padded back to the
	// original length with ZWSP to keep advances.length in lockstep.
	chars := []rune{'e', 0x0301}
	out, changed := normalizeCombiningMarks(chars)
	require.True(t, changed)
	require.Len(t, out, len(chars))
	assert.Equal(t, rune(zeroWidthSpace), out[1])
}

func TestNormalizeCombiningMarksNoOpWithoutMarks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	chars := []rune("plain")
	out, changed := normalizeCombiningMarks(chars)
	assert.False(t, changed)
	assert.Equal(t, chars, out)
}

func TestNormalizeCombiningMarksAbandonsLeadingMark(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	// A combining mark with nothing before it (j < 0) abandons
	// normalisation for that run, per spec step 2.
	chars := []rune{0x0301, 'x'}
	out, changed := normalizeCombiningMarks(chars)
	assert.False(t, changed)
	assert.Equal(t, chars, out)
}
