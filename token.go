package opine

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// A wordToken is an individual word or punctuation symbol with byte offsets
// into the text it was tokenized from.
type wordToken struct {
	Text  string
	Start int
	End   int
}

// wordTokenizer splits a sentence into words, recording byte offsets into its
// input. Leading and trailing punctuation is peeled off into separate tokens
// so that "battery)" yields ["battery", ")"].
type wordTokenizer struct {
	sanitizer *strings.Replacer
	prefixes  string
	suffixes  string
}

var curlyQuotes = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

func newWordTokenizer() *wordTokenizer {
	return &wordTokenizer{
		sanitizer: curlyQuotes,
		prefixes:  `"'([{$`,
		suffixes:  `"'.,!?;:)]}`,
	}
}

func (t *wordTokenizer) tokenize(text string) []wordToken {
	clean := t.sanitizer.Replace(text)
	if len(clean) != len(text) {
		// Replacements are byte-for-byte only when the input is ASCII; fall
		// back to the raw text so offsets stay valid.
		clean = text
	}

	var tokens []wordToken
	index := 0
	for index < len(clean) {
		r, size := utf8.DecodeRuneInString(clean[index:])
		if unicode.IsSpace(r) {
			index += size
			continue
		}
		start := index
		for index < len(clean) {
			r, size = utf8.DecodeRuneInString(clean[index:])
			if unicode.IsSpace(r) {
				break
			}
			index += size
		}
		tokens = append(tokens, t.splitSpan(clean[start:index], start)...)
	}
	return tokens
}

// splitSpan breaks one whitespace-delimited span into word and punctuation
// tokens. Contractions such as "don't" are kept whole.
func (t *wordTokenizer) splitSpan(span string, base int) []wordToken {
	var tokens []wordToken
	var suffs []wordToken

	start, end := 0, len(span)
	for start < end && strings.ContainsRune(t.prefixes, rune(span[start])) {
		// Prefix runes in the set are single-byte ASCII.
		tokens = append(tokens, wordToken{Text: span[start : start+1], Start: base + start, End: base + start + 1})
		start++
	}
	for end > start && strings.ContainsRune(t.suffixes, rune(span[end-1])) {
		if span[end-1] == '\'' && strings.HasSuffix(strings.ToLower(span[start:end]), "n't") {
			break
		}
		suffs = append([]wordToken{{Text: span[end-1 : end], Start: base + end - 1, End: base + end}}, suffs...)
		end--
	}
	if start < end {
		tokens = append(tokens, wordToken{Text: span[start:end], Start: base + start, End: base + end})
	}
	return append(tokens, suffs...)
}

// isWordLike reports whether a token carries letters or digits, as opposed to
// bare punctuation.
func isWordLike(tok wordToken) bool {
	for _, r := range tok.Text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
