/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

* A "typecase" is a scaled font, i.e. a font in a certain size for
a certain script and language. The name is reminiscend on the wooden
boxes of typesetters in the aera of metal type.
An example is "Helvetica regular 11pt, Latin, en_US".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

TODO: font collections (*.ttc), e.g., /System/Library/Fonts/Helvetica.ttc

Eigenen Text-Processor schreiben, nur für Latin Script, in pur Go?
Alternative zu Harfbuzz; also Latin-Harfbuzz für Arme in Go?
Siehe
https://docs.microsoft.com/en-us/typography/opentype/spec/ttochap1#text-processing-with-opentype-layout-fonts

Utility to view a character map of a font: http://torinak.com/font/lsfont.html

Website for fonts:
https://www.fontsquirrel.com/fonts/list/popular

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"errors"
	"fmt"
	"io/ioutil"
	"reflect"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container // TODO: not threadsafe???
}

type TypeCase struct {
	scalableFontParent *ScalableFont
	font               font.Face // Go uses 'face' and 'font' in an inverse manner
	size               float64
	// script
	// language
}

func NullTypeCase() *TypeCase {
	return &TypeCase{
		font: nil,
		size: 10,
	}
}

func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := ioutil.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	return ParseOpenTypeFont(bytez)
}

func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// TODO: check if language fits to script
// TODO: check if font supports script
func (sf *ScalableFont) PrepareCase(fontsize float64) (*TypeCase, error) {
	typecase := &TypeCase{}
	typecase.scalableFontParent = sf
	if fontsize < 5.0 || fontsize > 500.0 {
		fmt.Printf("*** font size must be 5pt < size < 500pt, is %g (set to 10pt)\n", fontsize)
		fontsize = 10.0
	}
	options := &opentype.FaceOptions{
		Size: fontsize,
		DPI:  600,
	}
	f, err := opentype.NewFace(sf.SFNT, options)
	if err == nil {
		typecase.font = f
		typecase.size = fontsize
	}
	return typecase, err
}

func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.scalableFontParent
}

func (tc *TypeCase) PtSize() float64 {
	return tc.size
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
// Currently we use Go Sans.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: "Go Sans",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}

// --- Typeface and identity ---------------------------------------------------

// ID is an opaque, comparable identity token for a typeface. Two typefaces
// wrapping the same *ScalableFont compare equal; two ScalableFonts parsed
// separately from the same font data do not. It is the identity component
// of a shaping run-key.
type ID uintptr

// Typeface is a thin wrapper around a ScalableFont which exposes identity
// and style/weight metadata, as needed by the shaping run-key.
type Typeface struct {
	sf     *ScalableFont
	style  xfont.Style
	weight xfont.Weight
}

// NewTypeface wraps a ScalableFont, tagging it with the style/weight guessed
// from its font name (see GuessStyleAndWeight).
func NewTypeface(sf *ScalableFont) *Typeface {
	if sf == nil {
		return nil
	}
	style, weight := GuessStyleAndWeight(sf.Fontname)
	return &Typeface{sf: sf, style: style, weight: weight}
}

// ScalableFont returns the underlying font.
func (tf *Typeface) ScalableFont() *ScalableFont {
	return tf.sf
}

// uniqueId returns an identity token suitable for cache-key comparisons.
// Typefaces sharing an underlying ScalableFont pointer compare equal.
func (tf *Typeface) uniqueId() ID {
	return ID(reflect.ValueOf(tf.sf).Pointer())
}

// UniqueID is the exported form of uniqueId.
func (tf *Typeface) UniqueID() ID {
	return tf.uniqueId()
}

// styleAndWeight returns the (style, weight) pair this typeface was tagged with.
func (tf *Typeface) styleAndWeight() (xfont.Style, xfont.Weight) {
	return tf.style, tf.weight
}

// Style is the exported form of styleAndWeight.
func (tf *Typeface) Style() (xfont.Style, xfont.Weight) {
	return tf.styleAndWeight()
}

// --- Font Registry ---------------------------------------------------------

type Registry struct {
	sync.Mutex
	fonts     map[string]*ScalableFont
	typecases map[string]*TypeCase
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

func NewRegistry() *Registry {
	fr := &Registry{
		fonts:     make(map[string]*ScalableFont),
		typecases: make(map[string]*TypeCase),
	}
	return fr
}

func (fr *Registry) StoreFont(f *ScalableFont) {
	if f == nil {
		T().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	style, weight := GuessStyleAndWeight(f.Fontname)
	fname := NormalizeFontname(f.Fontname, style, weight)
	T().Debugf("registry stores font %s as %s", f.Fontname, fname)
	fr.fonts[fname] = f
}

func (fr *Registry) TypeCase(name string, size float64) (*TypeCase, error) {
	T().Debugf("registry searches for font %s at %.2f", name, size)
	style, weight := GuessStyleAndWeight(name)
	fname := NormalizeFontname(name, style, weight)
	tname := NormalizeTypeCaseName(name, size)
	fr.Lock()
	defer fr.Unlock()
	if t, ok := fr.typecases[tname]; ok {
		T().Debugf("registry found font %s", tname)
		return t, nil
	}
	if f, ok := fr.fonts[fname]; ok {
		t, err := f.PrepareCase(size)
		T().Infof("font registry has font %s, caches at %.2f", fname, size)
		t.scalableFontParent = f
		fr.typecases[tname] = t
		return t, err
	}
	T().Infof("registry does not contain font %s", name)
	err := errors.New("font " + name + " not found in registry")
	fname = NormalizeTypeCaseName("fallback", size)
	tname = NormalizeTypeCaseName("fallback", size)
	if t, ok := fr.typecases[fname]; ok {
		return t, err
	}
	f := FallbackFont()
	t, _ := f.PrepareCase(size)
	T().Infof("font registry caches fallback font %s at %.2f", fname, size)
	fr.fonts[fname] = f
	fr.typecases[tname] = t
	return t, err
}

func (fr *Registry) DebugList() {
	T().Debugf("--- registered fonts ---")
	for k, v := range fr.fonts {
		T().Debugf("font [%s] = %v", k, v.Fontname)
	}
	for k, v := range fr.typecases {
		T().Debugf("typecase [%s] = %v", k, v.scalableFontParent.Fontname)
	}
	T().Debugf("------------------------")
}

// NormalizeFontname produces a registry key for a font name, folding in its
// style and weight so that "Clarendon Bold" and "Clarendon-700" normalize to
// the same key.
func NormalizeFontname(fname string, style xfont.Style, weight xfont.Weight) string {
	fname = baseFontname(fname)
	return fmt.Sprintf("%s/%s/%d", fname, styleTag(style), weight)
}

func baseFontname(fname string) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	return strings.ToLower(fname)
}

func styleTag(style xfont.Style) string {
	switch style {
	case xfont.StyleItalic:
		return "italic"
	case xfont.StyleOblique:
		return "oblique"
	}
	return "normal"
}

func NormalizeTypeCaseName(fname string, size float64) string {
	fname = baseFontname(fname)
	fname = fmt.Sprintf("%s-%.2f", fname, size)
	return fname
}

// ---------------------------------------------------------------------------

// GuessStyleAndWeight inspects a font or variant name and derives a
// best-effort (style, weight) pair from the naming conventions common to
// font families (e.g. "-Bold", "-Italic", "SemiBold", "100..900").
func GuessStyleAndWeight(name string) (xfont.Style, xfont.Weight) {
	lower := strings.ToLower(name)
	style := xfont.StyleNormal
	if strings.Contains(lower, "italic") {
		style = xfont.StyleItalic
	} else if strings.Contains(lower, "oblique") {
		style = xfont.StyleOblique
	}
	weight := xfont.WeightNormal
	switch {
	case strings.Contains(lower, "thin"):
		weight = xfont.WeightThin
	case strings.Contains(lower, "extralight"), strings.Contains(lower, "ultralight"):
		weight = xfont.WeightExtraLight
	case strings.Contains(lower, "light"):
		weight = xfont.WeightLight
	case strings.Contains(lower, "medium"):
		weight = xfont.WeightMedium
	case strings.Contains(lower, "semibold"), strings.Contains(lower, "demibold"):
		weight = xfont.WeightSemiBold
	case strings.Contains(lower, "extrabold"), strings.Contains(lower, "ultrabold"):
		weight = xfont.WeightExtraBold
	case strings.Contains(lower, "black"), strings.Contains(lower, "heavy"):
		weight = xfont.WeightBlack
	case strings.Contains(lower, "bold"):
		weight = xfont.WeightBold
	default:
		for tag, w := range cssWeightTags {
			if strings.Contains(lower, tag) {
				weight = w
				break
			}
		}
	}
	return style, weight
}

var cssWeightTags = map[string]xfont.Weight{
	"100": xfont.WeightThin,
	"200": xfont.WeightExtraLight,
	"300": xfont.WeightLight,
	"400": xfont.WeightNormal,
	"500": xfont.WeightMedium,
	"600": xfont.WeightSemiBold,
	"700": xfont.WeightBold,
	"800": xfont.WeightExtraBold,
	"900": xfont.WeightBlack,
}

// MatchConfidence grades how well a candidate variant matches a requested
// style or weight.
type MatchConfidence int

const (
	NoMatch MatchConfidence = iota
	WeakMatch
	StrongMatch
	ExactMatch
)

// Matches reports whether a font file path (or variant name) is consistent
// with the requested style and weight, along with a confidence grade.
func Matches(path string, style xfont.Style, weight xfont.Weight) (bool, MatchConfidence) {
	gotStyle, gotWeight := GuessStyleAndWeight(path)
	styleConf := MatchStyle(gotStyle, style)
	weightConf := MatchWeight(gotWeight, weight)
	conf := styleConf
	if weightConf < conf {
		conf = weightConf
	}
	return conf > NoMatch, conf
}

// MatchStyle grades how closely two styles agree.
func MatchStyle(got, want xfont.Style) MatchConfidence {
	if got == want {
		return ExactMatch
	}
	if (got == xfont.StyleItalic && want == xfont.StyleOblique) ||
		(got == xfont.StyleOblique && want == xfont.StyleItalic) {
		return StrongMatch
	}
	return NoMatch
}

// MatchWeight grades how closely two weights agree; a difference of at most
// one CSS weight step is a strong match, larger differences weak or none.
func MatchWeight(got, want xfont.Weight) MatchConfidence {
	diff := int(got) - int(want)
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return ExactMatch
	case diff == 1:
		return StrongMatch
	case diff <= 2:
		return WeakMatch
	}
	return NoMatch
}

// ClosestMatch picks, among candidate variant names, the one with the
// highest style/weight match confidence for the requested style and weight.
// It returns -1 if candidates is empty.
func ClosestMatch(candidates []string, style xfont.Style, weight xfont.Weight) int {
	best := -1
	bestConf := NoMatch - 1
	for i, c := range candidates {
		_, conf := Matches(c, style, weight)
		if conf > bestConf {
			bestConf = conf
			best = i
		}
	}
	return best
}
