package shaping

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterateScriptRunsSingleScript(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	runs := iterateScriptRuns([]rune("Hello"))
	require.Len(t, runs, 1)
	assert.Equal(t, 0, runs[0].start)
	assert.Equal(t, 5, runs[0].length)
}

func TestIterateScriptRunsMixedScripts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	runs := iterateScriptRuns([]rune("abДЕ"))
	require.Len(t, runs, 2)
	assert.Equal(t, 0, runs[0].start)
	assert.Equal(t, 2, runs[0].length)
	assert.Equal(t, 2, runs[1].start)
	assert.Equal(t, 2, runs[1].length)
}

func TestIterateScriptRunsCommonAttachesToPredecessor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	runs := iterateScriptRuns([]rune("ab, cd"))
	// punctuation/space (Common) extends the preceding Latin run rather
	// than splitting it, so the whole string stays one run.
	require.Len(t, runs, 1)
	assert.Equal(t, 6, runs[0].length)
}

func TestIterateScriptRunsEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	assert.Nil(t, iterateScriptRuns(nil))
}

func TestOrderScriptRunsForDirectionLTRKeepsLogicalOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	runs := iterateScriptRuns([]rune("abДЕ"))
	require.Len(t, runs, 2)
	ordered := orderScriptRunsForDirection(runs, false)
	assert.Equal(t, 0, ordered[0].start) // Latin run first, as found
	assert.Equal(t, 2, ordered[1].start) // Cyrillic run second
}

func TestOrderScriptRunsForDirectionRTLReversesLogicalOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	// "abДЕ" is logically Latin-then-Cyrillic; within an RTL visual run
	// the logically last script run (Cyrillic) must be visited first so
	// it lands visually leftmost, matching spec §4.D.2 step 4's "prev for
	// RTL" traversal.
	runs := iterateScriptRuns([]rune("abДЕ"))
	require.Len(t, runs, 2)
	ordered := orderScriptRunsForDirection(runs, true)
	require.Len(t, ordered, 2)
	assert.Equal(t, 2, ordered[0].start) // Cyrillic run visited first
	assert.Equal(t, 0, ordered[1].start) // Latin run visited second
}

func TestOrderScriptRunsForDirectionSingleRunUnaffected(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tcache.shaper")
	defer teardown()
	//
	runs := iterateScriptRuns([]rune("Hello"))
	ordered := orderScriptRunsForDirection(runs, true)
	require.Len(t, ordered, 1)
	assert.Equal(t, 0, ordered[0].start)
}
