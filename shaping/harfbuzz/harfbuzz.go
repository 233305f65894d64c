/*
Package harfbuzz adapts github.com/benoitkugler/textlayout/harfbuzz (the
external OpenType shaper, spec §6) to the Shaper's growable-array
shape-and-retry contract (spec §4.D.2 step 7).

Grounded on the teacher's engine/glyphing/harfbuzz package (face/font
construction from a ScalableFont's SFNT binary, SegmentProperties,
feature conversion), restructured around a caller-owned Buffer that the
Shaper resizes and re-shapes on overflow, instead of a fresh hb.Buffer
allocated per call.
*/
package harfbuzz

import (
	"bytes"
	"encoding/binary"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tcache/core"
	"github.com/npillmayer/tcache/core/font"
	"golang.org/x/text/language"
)

// tracer traces with key 'tcache.shaper', mirroring the teacher's
// tracing.Select("tyse.glyphs") convention.
func tracer() tracing.Trace {
	return tracing.Select("tcache.shaper")
}

// Face wraps a HarfBuzz font handle bound to a ScalableFont's parsed
// SFNT data. FaceCache owns one Face per distinct typeface.
type Face struct {
	hbFont *hb.Font
	source *font.ScalableFont
}

// NewFace parses sf's binary as a TrueType/OpenType face and wraps it in
// a HarfBuzz font handle.
func NewFace(sf *font.ScalableFont) (*Face, error) {
	if sf == nil {
		return nil, core.Error(core.EINVALID, "harfbuzz: nil ScalableFont")
	}
	r := bytes.NewReader(sf.Binary)
	hbFace, err := hbtt.Parse(r, true)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "harfbuzz: parsing face for %s", sf.Fontname)
	}
	return &Face{hbFont: hb.NewFont(hbFace), source: sf}, nil
}

// Release drops the face's HarfBuzz font handle. FaceCache retains no
// reference count on the underlying typeface (spec §9); Release only
// forgets our own handle.
func (f *Face) Release() {
	f.hbFont = nil
}

// Metrics is the scaled-metrics record spec §4.D.2.6 programs onto the
// shaping font record before each shape call.
type Metrics struct {
	XPpem  uint16
	YPpem  uint16
	XScale int32 // 16.16 fixed, 64ths of a device pixel
	YScale int32
	Ptem   float32
}

// SetMetrics programs f's scaled metrics, per spec §4.D.2.6:
//
//	x_ppem = round(scaleX * textSize), y_ppem = textSize
//	x_scale = emScale * scaleX * textSize, y_scale = emScale * textSize
func (f *Face) SetMetrics(m Metrics) {
	f.hbFont.XPpem = m.XPpem
	f.hbFont.YPpem = m.YPpem
	f.hbFont.XScale = m.XScale
	f.hbFont.YScale = m.YScale
	f.hbFont.Ptem = m.Ptem
}

// SegmentProperties is the direction/script/language triple a shape call
// is executed under.
type SegmentProperties struct {
	Direction Direction
	Script    language.Script
	Language  language.Tag
}

// Direction mirrors the writing directions the shaper distinguishes.
type Direction uint8

const (
	LeftToRight Direction = iota
	RightToLeft
)

func direction4hb(d Direction) hb.Direction {
	if d == RightToLeft {
		return hb.RightToLeft
	}
	return hb.LeftToRight
}

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Script4HB returns a script as a HarfBuzz script.
func Script4HB(s language.Script) hblang.Script {
	b := []byte(s.String())
	if len(b) == 0 {
		return 0
	}
	b[0] = byte(unicode.ToLower(rune(b[0])))
	for len(b) < 4 {
		b = append(b, ' ')
	}
	return hblang.Script(binary.BigEndian.Uint32(b))
}

// Buffer is a caller-owned, growable result buffer: repeated Shape calls
// reuse its backing arrays, and the Shaper grows Glyphs/Clusters/Advances
// on overflow per spec §4.D.2 step 7, instead of allocating a fresh
// buffer (and a fresh hb.Buffer) on every script run.
type Buffer struct {
	hbBuf *hb.Buffer

	Glyphs    []uint32
	Clusters  []int
	XAdvances []float32
	YAdvances []float32
	XOffsets  []float32
	YOffsets  []float32
}

// NewBuffer allocates a Buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		hbBuf:     hb.NewBuffer(),
		Glyphs:    make([]uint32, 0, capacity),
		Clusters:  make([]int, 0, capacity),
		XAdvances: make([]float32, 0, capacity),
		YAdvances: make([]float32, 0, capacity),
		XOffsets:  make([]float32, 0, capacity),
		YOffsets:  make([]float32, 0, capacity),
	}
}

// Cap reports the buffer's current capacity.
func (b *Buffer) Cap() int { return cap(b.Glyphs) }

// Grow reallocates the buffer's output arrays to at least capacity,
// preserving no content (the Shaper always re-shapes after growing), per
// spec §4.D.2 step 7's "reallocate to 2x required and retry".
func (b *Buffer) Grow(capacity int) {
	b.Glyphs = make([]uint32, 0, capacity)
	b.Clusters = make([]int, 0, capacity)
	b.XAdvances = make([]float32, 0, capacity)
	b.YAdvances = make([]float32, 0, capacity)
	b.XOffsets = make([]float32, 0, capacity)
	b.YOffsets = make([]float32, 0, capacity)
}

// ShapeResult reports how many glyphs a Shape call produced, and whether
// the buffer's capacity was too small to hold them (spec §4.D.2 step 7:
// "shapeItem(shaperItem) -> bool (false iff glyph arrays were too
// small)").
type ShapeResult struct {
	NumGlyphs int
	Overflow  bool
}

// Shape runs the HarfBuzz shaper over runes under props, using face's
// scaled metrics, and copies the result into buf's output arrays. If
// len(buf.Glyphs-capacity) < the number of glyphs HarfBuzz produced, Shape
// reports Overflow=true and the required NumGlyphs; the caller must grow
// buf and call Shape again (spec §4.D.2 step 7's retry loop). HarfBuzz
// itself never fails to shape for lack of space — the retry contract is
// enforced on our own copy-out arrays, which is what the Shaper's
// cluster/advance/position bookkeeping actually walks.
func Shape(face *Face, runes []rune, props SegmentProperties, buf *Buffer) ShapeResult {
	buf.hbBuf.Clear()
	buf.hbBuf.Props.Direction = direction4hb(props.Direction)
	if props.Script != (language.Script{}) {
		buf.hbBuf.Props.Script = Script4HB(props.Script)
	}
	if props.Language != language.Und {
		buf.hbBuf.Props.Language = Lang4HB(props.Language)
	}
	buf.hbBuf.AddRunes(runes, 0, len(runes))
	buf.hbBuf.Shape(face.hbFont, nil)

	n := len(buf.hbBuf.Info)
	if n > cap(buf.Glyphs) {
		return ShapeResult{NumGlyphs: n, Overflow: true}
	}
	buf.Glyphs = buf.Glyphs[:0]
	buf.Clusters = buf.Clusters[:0]
	buf.XAdvances = buf.XAdvances[:0]
	buf.YAdvances = buf.YAdvances[:0]
	buf.XOffsets = buf.XOffsets[:0]
	buf.YOffsets = buf.YOffsets[:0]
	for i, ginfo := range buf.hbBuf.Info {
		pos := buf.hbBuf.Pos[i]
		buf.Glyphs = append(buf.Glyphs, uint32(ginfo.Glyph))
		buf.Clusters = append(buf.Clusters, ginfo.Cluster)
		buf.XAdvances = append(buf.XAdvances, float32(pos.XAdvance))
		buf.YAdvances = append(buf.YAdvances, float32(pos.YAdvance))
		buf.XOffsets = append(buf.XOffsets, float32(pos.XOffset))
		buf.YOffsets = append(buf.YOffsets, float32(pos.YOffset))
	}
	tracer().Debugf("harfbuzz: shaped %d runes into %d glyphs", len(runes), n)
	return ShapeResult{NumGlyphs: n}
}
