package shaping

import (
	"math"
	"time"
	"unicode"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tcache/core/dimen"
	"github.com/npillmayer/tcache/core/font"
	"github.com/npillmayer/tcache/core/font/fonthost"
	"github.com/npillmayer/tcache/shaping/harfbuzz"
	xfont "golang.org/x/image/font"
	"golang.org/x/text/language"
)

// T traces to a global core-tracer; shaping-specific diagnostics go
// through tracer() below, matching the teacher's split between a
// package-wide T() and a more specific tracing.Select() key.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

func tracer() tracing.Trace {
	return tracing.Select("tcache.shaper")
}

// Shaper is the stateful shaping pipeline: bidi -> normalise -> mirror ->
// script-split -> shape -> emit (spec §4.D). It is single-threaded by
// construction (spec §5): the LayoutCache calls it while holding its
// exclusive lock, so Shaper's scratch fields (faces, buffer, default
// typeface) need no locking of their own.
type Shaper struct {
	faces           *FaceCache
	host            *fonthost.Host
	defaultTypeface *font.Typeface
	buffer          *harfbuzz.Buffer // reused scratch buffer, grown on overflow
}

// NewShaper builds a Shaper backed by host for typeface resolution. A
// nil host uses fonthost.GlobalHost().
func NewShaper(host *fonthost.Host) *Shaper {
	if host == nil {
		host = fonthost.GlobalHost()
	}
	return &Shaper{
		faces:           NewFaceCache(),
		host:            host,
		defaultTypeface: font.NewTypeface(font.FallbackFont()),
		buffer:          harfbuzz.NewBuffer(64),
	}
}

// ComputeValues implements spec §4.D's single entry point: shape the
// window [start, start+count) of context (length contextCount) under
// dirFlags, returning a freshly built RunValue.
func (s *Shaper) ComputeValues(paint Paint, context []uint16, start, count, contextCount int, dirFlags DirFlags) *RunValue {
	t0 := time.Now()
	value := NewRunValue(contextCount)

	runs, ok := resolveBidi(context, dirFlags)
	clipped, okClip := clipToWindow(runs, start, count)
	if !ok || !okClip || len(clipped) == 0 {
		value.reset()
		isRTL := dirFlags == RTL || dirFlags == DefaultRTL || dirFlags == ForceRTL
		clipped = []visualRun{{start: start, length: count, isRTL: isRTL}}
	}

	for _, run := range clipped {
		s.processRun(paint, value, context, run)
	}
	value.elapsedTime = time.Since(t0)
	return value
}

// clipToWindow implements spec §4.D.1's clip-and-skip rule, and its
// malformed-report guard (negative start/length anywhere means "discard
// and fall back", signalled by returning ok=false).
func clipToWindow(runs []visualRun, start, count int) (out []visualRun, ok bool) {
	end := start + count
	for _, r := range runs {
		if r.start < 0 || r.length < 0 {
			return nil, false
		}
		rEnd := r.start + r.length
		if rEnd <= start || r.start >= end {
			continue
		}
		cs := r.start
		if cs < start {
			cs = start
		}
		ce := rEnd
		if ce > end {
			ce = end
		}
		out = append(out, visualRun{start: cs, length: ce - cs, isRTL: r.isRTL})
	}
	return out, true
}

// processRun implements spec §4.D.2: normalise, mirror, script-split,
// then shape and emit each script run.
func (s *Shaper) processRun(paint Paint, value *RunValue, context []uint16, run visualRun) {
	if run.length == 0 {
		return
	}
	window := context[run.start : run.start+run.length]
	chars := utf16ToRunes(window)
	offsets := utf16RuneOffsets(window) // rune index -> code-unit offset, relative to run.start

	working, _ := normalizeCombiningMarks(chars)
	if run.isRTL {
		working, _ = mirrorRTL(working)
	}

	srs := orderScriptRunsForDirection(iterateScriptRuns(working), run.isRTL)
	for _, sr := range srs {
		if sr.length == 0 {
			continue
		}
		s.shapeScriptRun(paint, value, working[sr.start:sr.start+sr.length], run.start, offsets, sr.start, sr.script, run.isRTL)
	}
}

// shapeScriptRun implements spec §4.D.2 steps 5-10: font selection,
// metrics programming, the growable-array shape-and-retry loop, and
// advance/glyph/position emission for one script run. runStart is the
// enclosing visual run's code-unit offset into the context; offsets maps
// rune indices within that visual run to code-unit offsets (relative to
// runStart), and srStart is this script run's rune offset within the
// visual run — together they let assignClusterAdvances translate a
// HarfBuzz cluster (a rune-indexed offset into chars) into the
// code-unit-indexed slot RunValue.Advances actually uses.
func (s *Shaper) shapeScriptRun(paint Paint, value *RunValue, chars []rune, runStart int, offsets []int, srStart int, script language.Script, isRTL bool) {
	tf, glyphOffset := s.selectTypeface(paint, chars, script)
	if tf == nil {
		tf = s.defaultTypeface
	}

	face, err := s.faces.FaceFor(tf)
	if err != nil {
		tracer().Errorf("shaper: face lookup failed for typeface, falling back to default: %s", err)
		face, err = s.faces.FaceFor(s.defaultTypeface)
		if err != nil {
			tracer().Errorf("shaper: default typeface unavailable: %s", err)
			return
		}
	}

	scaleX := paint.TextScaleX()
	if scaleX == 0 {
		scaleX = 1
	}
	textSize := paint.TextSize()
	emScale := dimen.DUPerEm(fonthost.UnitsPerEm(tf))
	face.SetMetrics(harfbuzz.Metrics{
		XPpem:  uint16(math.Round(float64(scaleX) * float64(textSize))),
		YPpem:  uint16(textSize),
		XScale: int32(math.Round(emScale * float64(scaleX) * float64(textSize))),
		YScale: int32(math.Round(emScale * float64(textSize))),
		Ptem:   textSize,
	})

	// spec §4.D.2 step 7: initial scratch size 1.5x scriptRunLength,
	// retry at 2x required on overflow.
	initial := int(math.Ceil(1.5 * float64(len(chars))))
	if initial < 1 {
		initial = 1
	}
	if s.buffer.Cap() < initial {
		s.buffer.Grow(initial)
	}
	props := harfbuzz.SegmentProperties{
		Script:   script,
		Language: paint.Language(),
	}
	if isRTL {
		props.Direction = harfbuzz.RightToLeft
	}
	result := harfbuzz.Shape(face, chars, props, s.buffer)
	for result.Overflow {
		s.buffer.Grow(2 * result.NumGlyphs)
		result = harfbuzz.Shape(face, chars, props, s.buffer)
	}

	s.assignClusterAdvances(value, runStart, offsets, srStart, result.NumGlyphs)
	s.emitGlyphsAndPositions(value, paint, result.NumGlyphs, glyphOffset)
}

// assignClusterAdvances implements spec §4.D.2 step 8: sum glyph
// advances within each cluster and store the sum at the cluster's first
// code unit, leaving other code units in the cluster at zero (P4). A
// HarfBuzz cluster value is a rune-indexed offset into the chars slice
// passed to Shape (relative to this script run's start), not a code-unit
// offset, so it must be translated through offsets before indexing
// value.advances; a plain "runStart + srStart + cluster" undercounts by
// one per supplementary-plane rune (surrogate pair) preceding the
// cluster within the visual run.
func (s *Shaper) assignClusterAdvances(value *RunValue, runStart int, offsets []int, srStart int, numGlyphs int) {
	i := 0
	for i < numGlyphs {
		cluster := s.buffer.Clusters[i]
		var sum float32
		j := i
		for j < numGlyphs && s.buffer.Clusters[j] == cluster {
			sum += s.buffer.XAdvances[j]
			j++
		}
		runeIdx := srStart + cluster
		if runeIdx >= 0 && runeIdx < len(offsets) {
			idx := runStart + offsets[runeIdx]
			if idx >= 0 && idx < len(value.advances) {
				value.advances[idx] += sum
			}
		}
		i = j
	}
}

// emitGlyphsAndPositions implements spec §4.D.2 steps 9-10: append glyph
// ids (offset by glyphOffset so fallback-font glyphs don't collide with
// primary-font ids) and their positions, running x forward from the
// value's current totalAdvance. Real HarfBuzz (unlike the raw shapeItem
// primitive spec §4.D.2 step 9 assumes) already emits glyphs in visual
// order when shaped with an explicit RTL direction, so no separate
// reversal pass is needed here — see DESIGN.md.
func (s *Shaper) emitGlyphsAndPositions(value *RunValue, paint Paint, numGlyphs, glyphOffset int) {
	skewX := paint.TextSkewX()
	running := value.totalAdvance
	for g := 0; g < numGlyphs; g++ {
		gid := s.buffer.Glyphs[g] + uint32(glyphOffset)
		ox := s.buffer.XOffsets[g]
		oy := s.buffer.YOffsets[g]
		x := running + ox + oy*skewX
		value.appendGlyph(gid, x, oy)
		running += s.buffer.XAdvances[g]
	}
	value.totalAdvance = running
}

// selectTypeface implements spec §4.D.2 step 5's font-selection rule.
func (s *Shaper) selectTypeface(paint Paint, chars []rune, script language.Script) (tf *font.Typeface, glyphOffset int) {
	if !fonthost.IsComplexScript(script) {
		if t := paint.Typeface(); t != nil {
			return t, 0
		}
		return s.defaultTypeface, 0
	}
	first := firstNonSpace(chars)
	base := paint.BaseGlyphCount(first)
	if base == 0 {
		if t := paint.Typeface(); t != nil {
			return t, 0
		}
		return s.defaultTypeface, 0
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if t := paint.Typeface(); t != nil {
		style, weight = t.Style()
	}
	fallback := s.host.CreateTypefaceForScript(script, style, weight)
	if fallback == nil {
		return s.defaultTypeface, base
	}
	return fallback, base
}

func firstNonSpace(chars []rune) rune {
	for _, r := range chars {
		if !unicode.IsSpace(r) {
			return r
		}
	}
	if len(chars) > 0 {
		return chars[0]
	}
	return 0
}

// Purge implements spec §4.D.5: drop the face sub-cache, release the
// default typeface, and re-initialise it. Safe to call between requests;
// the caller (LayoutCache) is responsible for quiescence under its lock.
func (s *Shaper) Purge() {
	s.faces.Purge()
	s.defaultTypeface = font.NewTypeface(font.FallbackFont())
}

// FaceCacheLen reports the number of recorded face handles, for
// diagnostics (cmd/tcachestat).
func (s *Shaper) FaceCacheLen() int {
	return s.faces.Len()
}
