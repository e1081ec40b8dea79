package opine

import "strings"

// clauseConjunctions separate contrasting clauses: sentiment must not bleed
// across them in either direction ("cheap but fragile" keeps "cheap" out of
// "fragile"'s window and vice versa).
var clauseConjunctions = map[string]bool{
	"but":      true,
	"however":  true,
	"although": true,
	"though":   true,
	"yet":      true,
	"whereas":  true,
}

// ContextWindow extracts the bounded span of words around a matched keyword
// used to scope sentiment classification to that aspect rather than the
// whole sentence.
//
// The sentence is split into whitespace tokens and the keyword located
// case-insensitively (punctuation-trimmed). The window keeps up to radius
// tokens on either side of the keyword span, truncated at the nearest
// clause-separating conjunction in each direction. When the keyword cannot
// be located the whole sentence is returned.
func ContextWindow(sentence, keyword string, radius int) string {
	tokens := strings.Fields(sentence)
	var kw []string
	for _, f := range strings.Fields(keyword) {
		if w := trimWord(f); w != "" {
			kw = append(kw, w)
		}
	}
	if len(tokens) == 0 || len(kw) == 0 {
		return sentence
	}

	kwStart := locateKeyword(tokens, kw)
	if kwStart < 0 {
		return sentence
	}
	kwEnd := kwStart + len(kw) // exclusive

	start := kwStart - radius
	if start < 0 {
		start = 0
	}
	end := kwEnd + radius
	if end > len(tokens) {
		end = len(tokens)
	}

	for j := kwEnd; j < end; j++ {
		if clauseConjunctions[trimWord(tokens[j])] {
			end = j
			break
		}
	}
	for j := kwStart - 1; j >= start; j-- {
		if clauseConjunctions[trimWord(tokens[j])] {
			start = j + 1
			break
		}
	}

	return strings.Join(tokens[start:end], " ")
}

// locateKeyword finds the first whitespace-token span equal to the keyword
// tokens, comparing case-insensitively with punctuation trimmed.
func locateKeyword(tokens []string, kw []string) int {
	for i := 0; i+len(kw) <= len(tokens); i++ {
		match := true
		for j := range kw {
			if trimWord(tokens[i+j]) != kw[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func trimWord(tok string) string {
	return strings.Trim(strings.ToLower(tok), `"'.,!?;:()[]{}`)
}
