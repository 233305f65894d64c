package shaping

import "golang.org/x/text/unicode/norm"

// combiningDiacriticalMarksBlock is the Unicode block spec §4.D.2 step 2
// scans for (U+0300-U+036F). The stdlib unicode package exposes scripts
// and categories but not block ranges, so the block boundary is inlined
// here rather than pulled from a dependency that doesn't expose it either.
const (
	combiningDiacriticalMarksStart = 0x0300
	combiningDiacriticalMarksEnd   = 0x036F
)

func inCombiningDiacriticalMarks(r rune) bool {
	return r >= combiningDiacriticalMarksStart && r <= combiningDiacriticalMarksEnd
}

const zeroWidthSpace = 0x200B

// normalizeCombiningMarks implements spec §4.D.2 step 2: right-to-left
// scan for combining marks, NFC-normalise the run ending at each one, and
// pad the result back out to the original length with ZWSP so the output
// keeps one entry per input entry (spec P2).
//
// chars is the visual run's UTF-16 window decoded to runes (one entry per
// rune; a surrogate pair is a single entry). Returns the normalised runes and true if any substitution
// was made; otherwise returns chars unchanged and false.
func normalizeCombiningMarks(chars []rune) ([]rune, bool) {
	var normalised []rune // lazily materialised, per spec §4.D.2 step 2
	i := len(chars) - 1
	for i >= 0 {
		if !inCombiningDiacriticalMarks(chars[i]) {
			i--
			continue
		}
		j := i - 1
		for j >= 0 && inCombiningDiacriticalMarks(chars[j]) {
			j--
		}
		if j < 0 {
			// spec §4.D.2 step 2: "If j < 0, abandon normalisation for
			// this run."
			break
		}
		if normalised == nil {
			normalised = make([]rune, len(chars))
			copy(normalised, chars)
		}
		nfc := []rune(norm.NFC.String(string(normalised[j : i+1])))
		copy(normalised[j:j+len(nfc)], nfc)
		for k := j + len(nfc); k <= i; k++ {
			normalised[k] = zeroWidthSpace
		}
		i = j - 1
	}
	if normalised == nil {
		return chars, false
	}
	return normalised, true
}
