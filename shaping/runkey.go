package shaping

import (
	"bytes"

	"github.com/npillmayer/tcache/core/font"
	"golang.org/x/text/language"
)

// RunKey is the immutable semantic fingerprint of a styled run (spec §3,
// §4.A). It owns a copy of the full context text; no caller memory is
// aliased. RunKey is a value type, safe to use as a map key once wrapped
// in an equality-preserving form (see CacheKey/Equal below) and is totally
// ordered per spec §3's "Total ordering on RunKey".
type RunKey struct {
	text         []uint16 // owned copy of the full context, UTF-16 code units
	start        int
	count        int
	contextCount int
	dirFlags     DirFlags

	typeface    font.ID
	textSize    float32
	textSkewX   float32
	textScaleX  float32
	flags       PaintFlags
	hinting     Hinting
	fontVariant FontVariant
	language    language.Tag
}

// NewRunKey copies context into an owned buffer and builds a RunKey. The
// caller's context slice may be reused or mutated afterwards.
func NewRunKey(paint Paint, context []uint16, start, count, contextCount int, dirFlags DirFlags) RunKey {
	owned := make([]uint16, contextCount)
	copy(owned, context[:contextCount])
	tf := paint.Typeface()
	var id font.ID
	if tf != nil {
		id = tf.UniqueID()
	}
	return RunKey{
		text:         owned,
		start:        start,
		count:        count,
		contextCount: contextCount,
		dirFlags:     dirFlags,
		typeface:     id,
		textSize:     paint.TextSize(),
		textSkewX:    paint.TextSkewX(),
		textScaleX:   paint.TextScaleX(),
		flags:        paint.Flags(),
		hinting:      paint.HintingLevel(),
		fontVariant:  paint.FontVariant(),
		language:     paint.Language(),
	}
}

// Text returns the owned context text window this key was built from.
func (k RunKey) Text() []uint16 { return k.text }

// Start, Count and ContextCount are the shaping window spec §3 defines.
func (k RunKey) Start() int        { return k.start }
func (k RunKey) Count() int        { return k.count }
func (k RunKey) ContextCount() int { return k.contextCount }
func (k RunKey) DirFlags() DirFlags { return k.dirFlags }

// Size returns the key's byte footprint: a fixed header plus one
// code-unit per context character (spec §3).
func (k RunKey) Size() int64 {
	const header = 64 // struct overhead: ints, float32s, interface-sized fields
	return header + int64(len(k.text))*2
}

// Equal reports semantic equality per spec §3's total ordering: every
// field compares equal, including a byte-wise comparison of the full
// context text.
func (k RunKey) Equal(o RunKey) bool {
	return k.Compare(o) == 0
}

// Compare implements spec §3's total ordering: start, count,
// contextCount, typeface id, textSize, textSkewX, textScaleX, flags,
// hinting, dirFlags, fontVariant, language, then a byte-wise compare of
// the context text. Returns <0, 0, >0.
func (k RunKey) Compare(o RunKey) int {
	if c := cmpInt(k.start, o.start); c != 0 {
		return c
	}
	if c := cmpInt(k.count, o.count); c != 0 {
		return c
	}
	if c := cmpInt(k.contextCount, o.contextCount); c != 0 {
		return c
	}
	if c := cmpUint(uint64(k.typeface), uint64(o.typeface)); c != 0 {
		return c
	}
	if c := cmpFloat(k.textSize, o.textSize); c != 0 {
		return c
	}
	if c := cmpFloat(k.textSkewX, o.textSkewX); c != 0 {
		return c
	}
	if c := cmpFloat(k.textScaleX, o.textScaleX); c != 0 {
		return c
	}
	if c := cmpUint(uint64(k.flags), uint64(o.flags)); c != 0 {
		return c
	}
	if c := cmpInt(int(k.hinting), int(o.hinting)); c != 0 {
		return c
	}
	if c := cmpInt(int(k.dirFlags), int(o.dirFlags)); c != 0 {
		return c
	}
	if c := cmpInt(int(k.fontVariant), int(o.fontVariant)); c != 0 {
		return c
	}
	if c := stringsCompare(k.language.String(), o.language.String()); c != 0 {
		return c
	}
	return bytes.Compare(u16bytes(k.text), u16bytes(o.text))
}

// CacheKey returns a hash/equality-comparable representation suitable as
// a Go map key: spec §3 allows substituting a hash+equality scheme for
// the total ordering, as long as it agrees with RunKey's equality
// relation. We encode the owned text as a string (UTF-16 code units,
// byte-for-byte), which Go maps can hash and compare natively.
func (k RunKey) CacheKey() RunCacheKey {
	return RunCacheKey{
		text:         string(u16bytes(k.text)),
		start:        k.start,
		count:        k.count,
		contextCount: k.contextCount,
		dirFlags:     k.dirFlags,
		typeface:     k.typeface,
		textSize:     k.textSize,
		textSkewX:    k.textSkewX,
		textScaleX:   k.textScaleX,
		flags:        k.flags,
		hinting:      k.hinting,
		fontVariant:  k.fontVariant,
		language:     k.language.String(),
	}
}

// RunCacheKey is the comparable, hashable projection of a RunKey used as
// the actual Go map key inside LayoutCache.
type RunCacheKey struct {
	text         string
	start        int
	count        int
	contextCount int
	dirFlags     DirFlags
	typeface     font.ID
	textSize     float32
	textSkewX    float32
	textScaleX   float32
	flags        PaintFlags
	hinting      Hinting
	fontVariant  FontVariant
	language     string
}

func u16bytes(u []uint16) []byte {
	b := make([]byte, len(u)*2)
	for i, c := range u {
		b[2*i] = byte(c >> 8)
		b[2*i+1] = byte(c)
	}
	return b
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func stringsCompare(a, b string) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
