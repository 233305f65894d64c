package shaping

import (
	"golang.org/x/text/unicode/bidi"
)

// visualRun is one bidi visual run over the context text: a maximal span
// sharing one resolved direction (spec's GLOSSARY: "a visual run shares
// one bidi direction").
type visualRun struct {
	start  int // code-unit offset into the context
	length int
	isRTL  bool
}

// resolveBidi implements spec §4.D.1: interpret dirFlags, run the bidi
// algorithm over the full context when required, and enumerate visual
// runs in bidi visual order. ok is false when bidi analysis could not be
// trusted (unavailable, errored, or malformed) — the caller must then
// fall back to a single-run pass (spec §4.D.1, §7 "transient shaping
// failures").
func resolveBidi(context []uint16, dirFlags DirFlags) (runs []visualRun, ok bool) {
	n := len(context)
	switch dirFlags {
	case ForceLTR:
		return []visualRun{{start: 0, length: n, isRTL: false}}, true
	case ForceRTL:
		return []visualRun{{start: 0, length: n, isRTL: true}}, true
	}

	text := string(utf16ToRunes(context))
	p := bidi.Paragraph{}
	var opts []bidi.Option
	switch dirFlags {
	case LTR:
		opts = append(opts, bidi.DefaultDirection(bidi.LeftToRight))
	case RTL:
		opts = append(opts, bidi.DefaultDirection(bidi.RightToLeft))
	case DefaultLTR:
		opts = append(opts, bidi.DefaultDirection(bidi.LeftToRight))
	case DefaultRTL:
		opts = append(opts, bidi.DefaultDirection(bidi.RightToLeft))
	}
	if _, err := p.SetString(text, opts...); err != nil {
		// Open question in spec §9: the reference's fallback used an
		// assignment-in-boolean-context bug where a comparison was
		// intended. We fall back to the direction implied by dirFlags
		// itself, defaulting to LTR, never to whatever the backend last
		// reported before failing.
		isRTL := dirFlags == RTL || dirFlags == DefaultRTL
		return []visualRun{{start: 0, length: n, isRTL: isRTL}}, false
	}
	ordering, err := p.Order()
	if err != nil {
		isRTL := dirFlags == RTL || dirFlags == DefaultRTL
		return []visualRun{{start: 0, length: n, isRTL: isRTL}}, false
	}
	if ordering.NumRuns() <= 1 {
		isRTL := ordering.Direction() == bidi.RightToLeft
		if ordering.NumRuns() == 0 {
			isRTL = dirFlags == RTL || dirFlags == DefaultRTL
		}
		return []visualRun{{start: 0, length: n, isRTL: isRTL}}, true
	}

	pos := 0
	runs = make([]visualRun, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		runeLen := len([]rune(r.String()))
		u16Len := runeLenToU16Len(context, pos, runeLen)
		if u16Len < 0 {
			return nil, false // malformed report: spec §4.D.1
		}
		runs = append(runs, visualRun{
			start:  pos,
			length: u16Len,
			isRTL:  r.Direction() == bidi.RightToLeft,
		})
		pos += u16Len
	}
	return runs, true
}

// utf16ToRunes decodes a UTF-16 code-unit slice to runes for bidi
// analysis, which operates on Unicode text, not raw code units.
func utf16ToRunes(u []uint16) []rune {
	runes := make([]rune, 0, len(u))
	for i := 0; i < len(u); i++ {
		r := rune(u[i])
		if isHighSurrogate(u[i]) && i+1 < len(u) && isLowSurrogate(u[i+1]) {
			r = decodeSurrogatePair(u[i], u[i+1])
			i++
		}
		runes = append(runes, r)
	}
	return runes
}

// utf16RuneOffsets returns, for each rune produced by utf16ToRunes(u), the
// code-unit offset within u that rune starts at; the returned slice has
// one more entry than there are runes, with the final entry equal to
// len(u). Used to translate a rune-indexed offset (as produced by a
// codepoint-based segmenter such as iterateScriptRuns, or a HarfBuzz
// cluster index) back into the code-unit space RunValue.Advances is
// indexed in — a plain "add the rune count" is only correct when u
// contains no surrogate pairs.
func utf16RuneOffsets(u []uint16) []int {
	offsets := make([]int, 0, len(u)+1)
	for i := 0; i < len(u); {
		offsets = append(offsets, i)
		if isHighSurrogate(u[i]) && i+1 < len(u) && isLowSurrogate(u[i+1]) {
			i += 2
		} else {
			i++
		}
	}
	offsets = append(offsets, len(u))
	return offsets
}

func isHighSurrogate(c uint16) bool { return c >= 0xD800 && c <= 0xDBFF }
func isLowSurrogate(c uint16) bool  { return c >= 0xDC00 && c <= 0xDFFF }

func decodeSurrogatePair(hi, lo uint16) rune {
	return rune(0x10000 + (int32(hi)-0xD800)*0x400 + (int32(lo) - 0xDC00))
}

// runeLenToU16Len converts a rune count, starting at u16 offset from, into
// the equivalent number of UTF-16 code units, accounting for surrogate
// pairs. Returns -1 if it would run past the end of context (spec
// §4.D.1's "malformed" guard).
func runeLenToU16Len(context []uint16, from, runeCount int) int {
	i := from
	for r := 0; r < runeCount; r++ {
		if i >= len(context) {
			return -1
		}
		if isHighSurrogate(context[i]) && i+1 < len(context) && isLowSurrogate(context[i+1]) {
			i += 2
		} else {
			i++
		}
	}
	return i - from
}
