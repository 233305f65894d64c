/*
Package fonthost implements the "font host" collaborator the shaping
pipeline consults for typeface identity, metrics and script-fallback
selection (spec §6). It is a concrete, synchronous default for an
interface the core treats as external: the Shaper never loads fonts
itself, it asks a Host.

Grounded on core/locate/resources.ResolveTypeCase's fallback chain
(embedded/registry font -> system font via go-findfont -> package
fallback), but made synchronous: the shaping pipeline runs under the
layout cache's single exclusive lock (spec §5), so there is no room
for resources' promise/channel style without risking the lock being
held across a goroutine handoff.
*/
package fonthost

import (
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tcache/core/font"
	"github.com/npillmayer/tcache/core/font/opentype"
	xfont "golang.org/x/image/font"
	"golang.org/x/text/language"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// Host resolves typefaces by name and provides the script/em-metrics
// queries the Shaper needs to pick and scale a fallback font.
type Host struct {
	registry *font.Registry
	mu       sync.Mutex
	scripts  map[scriptStyleKey]*font.Typeface
}

type scriptStyleKey struct {
	script language.Script
	style  xfont.Style
	weight xfont.Weight
}

// NewHost creates a font host backed by a fresh font registry.
func NewHost() *Host {
	return &Host{
		registry: font.NewRegistry(),
		scripts:  make(map[scriptStyleKey]*font.Typeface),
	}
}

// GlobalHost returns a process-wide default host, backed by the global
// font registry (mirrors font.GlobalRegistry()'s singleton idiom).
func GlobalHost() *Host {
	globalHostCreation.Do(func() {
		globalHost = &Host{
			registry: font.GlobalRegistry(),
			scripts:  make(map[scriptStyleKey]*font.Typeface),
		}
	})
	return globalHost
}

var globalHost *Host
var globalHostCreation sync.Once

// TypefaceFor resolves name (a font family name, file name, or path
// findable by go-findfont) to a Typeface, registering it with the host's
// font registry on first use. Falls back to font.FallbackFont() if name
// cannot be resolved anywhere.
func (h *Host) TypefaceFor(name string) *font.Typeface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.typefaceForLocked(name)
}

func (h *Host) typefaceForLocked(name string) *font.Typeface {
	if tc, err := h.registry.TypeCase(name, 12); err == nil && tc != nil {
		return font.NewTypeface(tc.ScalableFontParent())
	}
	if fpath, err := findfont.Find(name); err == nil && fpath != "" {
		if sf, err := font.LoadOpenTypeFont(fpath); err == nil {
			sf.Fontname = name
			h.registry.StoreFont(sf)
			return font.NewTypeface(sf)
		}
	}
	T().Infof("fonthost: could not resolve %q, using fallback font", name)
	return font.NewTypeface(font.FallbackFont())
}

// UnitsPerEm returns the typeface's design-space units-per-em, the
// denominator spec §4.D.2.6's emScale computation needs. Falls back to
// 1000 (a common default for CFF-flavoured OpenType) if the typeface's
// SFNT table cannot report one.
func UnitsPerEm(tf *font.Typeface) uint16 {
	if tf == nil || tf.ScalableFont() == nil || tf.ScalableFont().SFNT == nil {
		return 1000
	}
	metrics, err := opentype.MetricsOf(tf.ScalableFont().SFNT)
	if err != nil || metrics.UnitsPerEm <= 0 {
		return 1000
	}
	return uint16(metrics.UnitsPerEm)
}

// simpleScripts holds the scripts spec §4.D.2.5 explicitly calls out as
// simple enough to never require a script-specific fallback typeface.
var simpleScripts = map[language.Script]bool{
	language.MustParseScript("Zyyy"): true, // Common
	language.MustParseScript("Grek"): true, // Greek
	language.MustParseScript("Cyrl"): true, // Cyrillic
	language.MustParseScript("Hang"): true, // Hangul
	language.MustParseScript("Zinh"): true, // Inherited
}

// IsComplexScript reports whether script requires fallback-font
// consideration under spec §4.D.2.5, i.e. it is not one of
// {Common, Greek, Cyrillic, Hangul, Inherited}.
func IsComplexScript(script language.Script) bool {
	return !simpleScripts[script]
}

// CreateTypefaceForScript asks the host for a typeface that covers the
// given script at the requested style/weight, ranking candidate system
// fonts by font.Matches/font.ClosestMatch (spec's "ask the font host for
// a script-specific typeface matching the paint's style"). Returns nil if
// no candidate can be found; the Shaper then falls back to its default
// typeface (spec §4.D.2.5).
func (h *Host) CreateTypefaceForScript(script language.Script, style xfont.Style, weight xfont.Weight) *font.Typeface {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := scriptStyleKey{script: script, style: style, weight: weight}
	if tf, ok := h.scripts[key]; ok {
		return tf
	}
	candidates := systemCandidatesForScript(script)
	if len(candidates) == 0 {
		T().Debugf("fonthost: no system font candidates for script %v", script)
		return nil
	}
	i := font.ClosestMatch(candidates, style, weight)
	if i < 0 {
		return nil
	}
	fpath, err := findfont.Find(candidates[i])
	if err != nil || fpath == "" {
		return nil
	}
	sf, err := font.LoadOpenTypeFont(fpath)
	if err != nil {
		T().Errorf("fonthost: failed loading fallback font %s: %s", candidates[i], err)
		return nil
	}
	tf := font.NewTypeface(sf)
	h.scripts[key] = tf
	return tf
}

// scriptFallbackNames maps a handful of common complex scripts to
// widely-installed system font family names go-findfont is likely to
// resolve. Unlisted scripts yield no candidates, and the Shaper falls
// back to its default typeface, per spec §4.D.2.5.
var scriptFallbackNames = map[language.Script][]string{
	language.MustParseScript("Arab"): {"Noto Naskh Arabic", "Arial", "Tahoma"},
	language.MustParseScript("Hebr"): {"Noto Sans Hebrew", "Arial Hebrew"},
	language.MustParseScript("Deva"): {"Noto Sans Devanagari", "Mangal"},
	language.MustParseScript("Thai"): {"Noto Sans Thai", "Leelawadee"},
	language.MustParseScript("Hani"): {"Noto Sans CJK SC", "SimSun"},
	language.MustParseScript("Jpan"): {"Noto Sans CJK JP", "MS Gothic"},
	language.MustParseScript("Kore"): {"Noto Sans CJK KR", "Malgun Gothic"},
}

func systemCandidatesForScript(script language.Script) []string {
	return scriptFallbackNames[script]
}
