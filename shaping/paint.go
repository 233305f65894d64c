// Package shaping implements the core text-layout pipeline: RunKey and
// RunValue (the cache's key/value types), FaceCache (the per-typeface
// shaper-face sub-cache) and Shaper (the bidi/normalise/mirror/script-split
// /shape/emit pipeline). See the LayoutCache in package cache for the
// bounded LRU built on top of these types, and package engine for the
// process-wide facade.
package shaping

import (
	"github.com/npillmayer/tcache/core/font"
	"golang.org/x/text/language"
)

// DirFlags mirrors spec §6's dirFlags enumeration: the caller's hint about
// how to resolve bidirectional text for a run.
type DirFlags uint8

const (
	LTR        DirFlags = 0
	RTL        DirFlags = 1
	DefaultLTR DirFlags = 2
	DefaultRTL DirFlags = 3
	ForceLTR   DirFlags = 4
	ForceRTL   DirFlags = 5
)

func (d DirFlags) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case DefaultLTR:
		return "DefaultLTR"
	case DefaultRTL:
		return "DefaultRTL"
	case ForceLTR:
		return "ForceLTR"
	case ForceRTL:
		return "ForceRTL"
	}
	return "?"
}

// Hinting selects a font hinting strategy, mirroring the host paint's
// hinting() accessor (spec §6).
type Hinting uint8

const (
	HintingNone Hinting = iota
	HintingSlight
	HintingNormal
	HintingFull
)

// FontVariant distinguishes variant glyph sets a font may offer for the
// same codepoints (e.g. a CJK font's simplified vs. traditional forms).
type FontVariant uint8

const (
	VariantDefault FontVariant = iota
	VariantCompact
	VariantElegant
)

// PaintFlags is the style bitset a paint carries alongside explicit
// fields (fake-bold, fake-italic, subpixel positioning, and so on); the
// shaper only ever compares it for equality, never interprets individual
// bits, so a plain bitset is enough to satisfy spec §3's key fields.
type PaintFlags uint32

// Paint is the narrow style-accessor interface the Shaper consults (spec
// §6): typeface identity, metrics, skew/scale, and a fallback-font probe.
// It corresponds to the "font/paint host" external collaborator; the core
// never constructs a Paint itself.
type Paint interface {
	Typeface() *font.Typeface
	TextSize() float32
	TextSkewX() float32
	TextScaleX() float32
	Flags() PaintFlags
	HintingLevel() Hinting
	FontVariant() FontVariant
	Language() language.Tag

	// BaseGlyphCount returns the starting glyph-id offset a fallback font
	// lookup for codepoint should use, or 0 if no fallback is needed
	// (spec §6, §4.D.2.5).
	BaseGlyphCount(codepoint rune) int
}

// SimplePaint is a minimal, value-typed Paint implementation, convenient
// for callers (and tests) that don't need a richer paint abstraction.
type SimplePaint struct {
	Face        *font.Typeface
	Size        float32
	SkewX       float32
	ScaleX      float32
	StyleFlags  PaintFlags
	Hint        Hinting
	Variant     FontVariant
	Lang        language.Tag
	GlyphBase   func(rune) int
}

var _ Paint = SimplePaint{}

func (p SimplePaint) Typeface() *font.Typeface  { return p.Face }
func (p SimplePaint) TextSize() float32         { return p.Size }
func (p SimplePaint) TextSkewX() float32        { return p.SkewX }
func (p SimplePaint) TextScaleX() float32 {
	if p.ScaleX == 0 {
		return 1
	}
	return p.ScaleX
}
func (p SimplePaint) Flags() PaintFlags         { return p.StyleFlags }
func (p SimplePaint) HintingLevel() Hinting     { return p.Hint }
func (p SimplePaint) FontVariant() FontVariant  { return p.Variant }
func (p SimplePaint) Language() language.Tag    { return p.Lang }

func (p SimplePaint) BaseGlyphCount(r rune) int {
	if p.GlyphBase == nil {
		return 0
	}
	return p.GlyphBase(r)
}
