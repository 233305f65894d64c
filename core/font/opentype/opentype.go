/*
Package opentype handles OpenType fonts.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package opentype

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// MetricsOf reads f's header metrics, scaled 1:1 to font design units
// (ppem == UnitsPerEm) so the result is independent of any rasterised
// point size — the denominator spec §4.D.2.6's emScale computation needs,
// plus Ascent/Descent/LineGap for callers wanting full vertical metrics.
func MetricsOf(f *sfnt.Font) (FontMetricsInfo, error) {
	var buf sfnt.Buffer
	ppem := fixed.I(int(f.UnitsPerEm()))
	m, err := f.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return FontMetricsInfo{}, err
	}
	return FontMetricsInfo{
		UnitsPerEm: f.UnitsPerEm(),
		Ascent:     sfnt.Units(m.Ascent.Round()),
		Descent:    sfnt.Units(m.Descent.Round()),
		LineGap:    sfnt.Units(m.Height.Round()) - sfnt.Units(m.Ascent.Round()) - sfnt.Units(m.Descent.Round()),
	}, nil
}

// --- Font and glyph metrics ------------------------------------------------

// FontMetricsInfo contains selected metric information for a font.
type FontMetricsInfo struct {
	UnitsPerEm      sfnt.Units // ad-hoc units per em
	Ascent, Descent sfnt.Units // ascender and descender
	MaxAdvance      sfnt.Units // maximum advance width value in 'hmtx' table
	LineGap         sfnt.Units // typographic line gap
}

// GlyphMetricsInfo contains all the metric information for a glyph.
type GlyphMetricsInfo struct {
	Advance  sfnt.Units  // advance width
	LSB, RSB sfnt.Units  // side bearings
	BBox     BoundingBox // bounding box
}

// BoundingBox describes the bounding box of a glyph.
type BoundingBox struct {
	MinX, MinY sfnt.Units
	MaxX, MaxY sfnt.Units
}

// Empty is a predicate: has this box a zero area?
func (bbox BoundingBox) Empty() bool {
	return bbox.MaxX-bbox.MinX == 0 || bbox.MaxY-bbox.MinY == 0
}

// Dx is the horizontal extent of this box.
func (bbox BoundingBox) Dx() sfnt.Units {
	return bbox.MaxX - bbox.MinX
}

// Dy is the vertical extent of this box.
func (bbox BoundingBox) Dy() sfnt.Units {
	return bbox.MaxY - bbox.MinY
}
