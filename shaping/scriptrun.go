package shaping

import (
	"unicode"

	"golang.org/x/text/language"
)

// scriptRun is one maximal contiguous span of a script run's source
// runes sharing a single script (spec GLOSSARY: "a script run shares one
// script" in addition to direction).
type scriptRun struct {
	start  int // rune offset into the processed run's chars slice
	length int
	script language.Script
}

// scriptTables orders the scripts scriptOf probes for, most specific
// first; unicode.Scripts (stdlib) is the classification source — the
// pack's dependencies (x/text/language, benoitkugler/textlayout) expose
// BCP-47/ISO-15924 *tags* but no per-codepoint script lookup, so this one
// piece rests on the standard library's unicode.Scripts range tables (see
// DESIGN.md).
var scriptTables = []struct {
	tag   string
	table *unicode.RangeTable
}{
	{"Latn", unicode.Latin},
	{"Grek", unicode.Greek},
	{"Cyrl", unicode.Cyrillic},
	{"Arab", unicode.Arabic},
	{"Hebr", unicode.Hebrew},
	{"Deva", unicode.Devanagari},
	{"Thai", unicode.Thai},
	{"Hani", unicode.Han},
	{"Hira", unicode.Hiragana},
	{"Kana", unicode.Katakana},
	{"Hang", unicode.Hangul},
	{"Armn", unicode.Armenian},
	{"Geor", unicode.Georgian},
}

var (
	scriptCommon    = language.MustParseScript("Zyyy")
	scriptInherited = language.MustParseScript("Zinh")
)

// scriptOf classifies a single rune's script, defaulting to Common for
// punctuation/digits/whitespace and Inherited for combining marks that
// were not folded into a base script's table.
func scriptOf(r rune) language.Script {
	if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) {
		for _, s := range scriptTables {
			if unicode.Is(s.table, r) {
				return language.MustParseScript(s.tag)
			}
		}
		return scriptInherited
	}
	for _, s := range scriptTables {
		if unicode.Is(s.table, r) {
			return language.MustParseScript(s.tag)
		}
	}
	return scriptCommon
}

// iterateScriptRuns implements spec §4.D.2 step 4's script-run
// segmentation. Boundaries are found with a single forward scan
// regardless of direction — a script boundary is a property of the text,
// not of the reading direction — so runs are always returned
// start-ascending here. Direction only governs the *order runs are
// visited in*, per the spec's "next for LTR, prev for RTL": Shaper's
// processRun reverses this slice before shaping/emitting when its
// visual run is RTL, so script runs are appended to the output in
// left-to-right screen order. Common and Inherited runes attach to the
// preceding specific script, matching standard Unicode script-run
// segmentation; leading Common/Inherited runes attach to the first
// specific script that follows them, and only a text made entirely of
// Common/Inherited runes yields a single Common run.
func iterateScriptRuns(chars []rune) []scriptRun {
	if len(chars) == 0 {
		return nil
	}
	var runs []scriptRun
	curStart := 0
	curScript := effectiveScript(chars, 0)
	for i := 1; i < len(chars); i++ {
		s := scriptOf(chars[i])
		if s == scriptCommon || s == scriptInherited {
			continue // extends the current run regardless of its script
		}
		if s == curScript {
			continue
		}
		runs = append(runs, scriptRun{start: curStart, length: i - curStart, script: curScript})
		curStart = i
		curScript = s
	}
	runs = append(runs, scriptRun{start: curStart, length: len(chars) - curStart, script: curScript})
	return runs
}

// orderScriptRunsForDirection implements spec §4.D.2 step 4's "next for
// LTR, prev for RTL" traversal order: script-run boundaries themselves
// are direction-independent (found by iterateScriptRuns via a single
// forward scan), but for an RTL visual run the runs are shaped and
// appended in reverse logical order, so the visually leftmost script
// run is emitted first and totalAdvance accumulates left-to-right
// across script-run boundaries. The input slice is reversed in place
// and also returned for convenience.
func orderScriptRunsForDirection(runs []scriptRun, isRTL bool) []scriptRun {
	if !isRTL {
		return runs
	}
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs
}

// effectiveScript finds the first non-Common/Inherited script starting
// at i, looking ahead; if the whole tail is Common/Inherited, returns
// Common so a run of pure punctuation still gets a definite script.
func effectiveScript(chars []rune, i int) language.Script {
	for ; i < len(chars); i++ {
		s := scriptOf(chars[i])
		if s != scriptCommon && s != scriptInherited {
			return s
		}
	}
	return scriptCommon
}
