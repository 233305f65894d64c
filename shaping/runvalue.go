package shaping

import "time"

// Glyph is a single positioned glyph in a RunValue's visual-order glyph
// sequence (spec §3: "glyphs": visual-order glyph ids; "positions":
// pairs (x, y) in the run's local coordinate frame).
type Glyph struct {
	GID uint32
	X   float32
	Y   float32
}

// RunValue is the Shaper's output: measured glyphs, advances and
// positions for one styled run, shared read-only once built (spec §3,
// §4.B). Created by the Shaper, owned jointly by the LayoutCache entry
// and by any caller holding a handle.
type RunValue struct {
	advances []float32 // one per code unit in [0, contextCount); non-zero only at cluster starts
	glyphs   []uint32  // visual-order glyph ids, concatenated across script runs
	xs       []float32 // per-glyph x, parallel to glyphs
	ys       []float32 // per-glyph y, parallel to glyphs

	totalAdvance float32
	elapsedTime  time.Duration
}

// NewRunValue pre-reserves capacity proportional to contextCount: advances
// sized to contextCount, glyphs/positions also seeded at contextCount (one
// glyph per code unit is the common case; the Shaper grows them on demand
// for multi-glyph clusters or fallback substitutions), per spec §4.B.
func NewRunValue(contextCount int) *RunValue {
	return &RunValue{
		advances: make([]float32, contextCount),
		glyphs:   make([]uint32, 0, contextCount),
		xs:       make([]float32, 0, contextCount),
		ys:       make([]float32, 0, contextCount),
	}
}

// Advances returns the per-code-unit advance slice; advance values live
// at the first code unit of their cluster, zero elsewhere (spec §3, P4).
func (v *RunValue) Advances() []float32 { return v.advances }

// Glyphs returns the visual-order glyph id sequence.
func (v *RunValue) Glyphs() []uint32 { return v.glyphs }

// NumGlyphs returns len(Glyphs()).
func (v *RunValue) NumGlyphs() int { return len(v.glyphs) }

// Position returns glyph i's (x, y) in the run's local coordinate frame.
func (v *RunValue) Position(i int) (x, y float32) { return v.xs[i], v.ys[i] }

// TotalAdvance is the sum of all script runs' accumulated advance.
func (v *RunValue) TotalAdvance() float32 { return v.totalAdvance }

// ElapsedTime is the last measured build cost; diagnostic only (spec §3).
func (v *RunValue) ElapsedTime() time.Duration { return v.elapsedTime }

// Size returns the value's byte footprint based on slice *capacity*, not
// length — capacity governs memory residency, per spec §4.B.
func (v *RunValue) Size() int64 {
	const header = 40
	sz := int64(header)
	sz += int64(cap(v.advances)) * 4
	sz += int64(cap(v.glyphs)) * 4
	sz += int64(cap(v.xs)) * 4
	sz += int64(cap(v.ys)) * 4
	return sz
}

// appendGlyph appends one glyph id and its (x, y) position.
func (v *RunValue) appendGlyph(gid uint32, x, y float32) {
	v.glyphs = append(v.glyphs, gid)
	v.xs = append(v.xs, x)
	v.ys = append(v.ys, y)
}

// reset clears all output arrays in place, keeping their backing
// capacity; used by the Shaper to discard partial output and fall back
// to a single-run pass (spec §4.D.1: "discard all partial output").
func (v *RunValue) reset() {
	for i := range v.advances {
		v.advances[i] = 0
	}
	v.glyphs = v.glyphs[:0]
	v.xs = v.xs[:0]
	v.ys = v.ys[:0]
	v.totalAdvance = 0
}
