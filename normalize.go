package opine

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	nonAlnumRE   = regexp.MustCompile(`[^a-z0-9 ]+`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// Normalize produces a comparison key for matching: lowercased, with every
// character outside [a-z0-9 ] replaced by a space, and whitespace collapsed.
//
// The result is never used to index back into the review; offsets are always
// resolved against the original, unnormalized text.
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = nonAlnumRE.ReplaceAllString(t, " ")
	t = whitespaceRE.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// spacedPunct is the set of punctuation the segmentation pass pads with
// spaces so sentence and phrase boundaries are stable regardless of the
// reviewer's punctuation habits.
func spacedPunct(r rune) bool {
	switch r {
	case ',', '.', '!', '?', ';', ':':
		return true
	}
	return false
}

// PreprocessForSegmentation ensures consistent spacing around sentence
// punctuation without removing any characters. It does change character
// positions, so offsets taken from its output must be re-mapped to the
// original text by literal search before they are stored.
func PreprocessForSegmentation(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for i, r := range runes {
		if spacedPunct(r) {
			if i > 0 && !unicode.IsSpace(runes[i-1]) && !spacedPunct(runes[i-1]) {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
				b.WriteByte(' ')
			}
		} else {
			b.WriteRune(r)
		}
	}
	out := whitespaceRE.ReplaceAllString(b.String(), " ")
	return strings.TrimSpace(out)
}
