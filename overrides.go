package opine

import "strings"

// Lexical overrides run before the classifier scores anything. They exist
// because a generic three-class model under-weights domain cues that review
// text leans on heavily: explicit "neither X nor Y" constructions, price
// complaints, and flat descriptive language. They are policy, applied
// deterministically, and report SourceOverride so callers can tell them from
// model output.

const overrideConfidence = 0.9

// priceAdjectives force NEGATIVE on their own; contextual words like "high"
// or "steep" only do so next to a price noun.
var priceAdjectives = map[string]bool{
	"expensive":  true,
	"overpriced": true,
	"costly":     true,
	"pricey":     true,
}

var priceContextAdjectives = map[string]bool{
	"high":  true,
	"steep": true,
}

var priceNouns = map[string]bool{
	"price":   true,
	"prices":  true,
	"pricing": true,
	"cost":    true,
	"costs":   true,
	"fee":     true,
	"fees":    true,
	"rate":    true,
	"rates":   true,
}

// hedges soften a price complaint enough that the override stays out of the
// model's way.
var hedges = []string{
	"a bit", "a little", "slightly", "somewhat", "kind of", "sort of", "fairly",
}

// neutralAdjectives force NEUTRAL when no strong vocabulary co-occurs.
var neutralAdjectives = map[string]bool{
	"average":    true,
	"okay":       true,
	"ok":         true,
	"standard":   true,
	"normal":     true,
	"typical":    true,
	"regular":    true,
	"ordinary":   true,
	"moderate":   true,
	"acceptable": true,
}

// strongVocabularyThreshold is the absolute lexicon score above which a word
// blocks the neutral-adjective override.
const strongVocabularyThreshold = 0.6

func (c *LexiconClassifier) lexicalOverride(text string) (Classification, bool) {
	lower := strings.ToLower(text)
	fields := strings.Fields(lower)
	words := make([]string, len(fields))
	for i, f := range fields {
		words[i] = strings.Trim(f, `"'.,!?;:()[]{}`)
	}

	// "neither X nor Y" is an explicit statement of indifference.
	if hasToken(words, "neither") && hasToken(words, "nor") {
		return Classification{Label: Neutral, Score: overrideConfidence, Source: SourceOverride}, true
	}

	if c.priceComplaint(lower, words) {
		return Classification{Label: Negative, Score: overrideConfidence, Source: SourceOverride}, true
	}

	if c.flatDescription(words) {
		return Classification{Label: Neutral, Score: overrideConfidence, Source: SourceOverride}, true
	}

	return Classification{}, false
}

// priceComplaint reports whether the text complains about price without
// negation or hedging.
func (c *LexiconClassifier) priceComplaint(lower string, words []string) bool {
	for _, h := range hedges {
		if strings.Contains(lower, h) {
			return false
		}
	}
	for i, w := range words {
		complaint := priceAdjectives[w] ||
			(priceContextAdjectives[w] && anyPriceNoun(words))
		if !complaint {
			continue
		}
		if c.negatedWord(words, i) {
			continue
		}
		return true
	}
	return false
}

func anyPriceNoun(words []string) bool {
	for _, w := range words {
		if priceNouns[w] {
			return true
		}
	}
	return false
}

// negatedWord checks the few words ahead of position i for a negation.
func (c *LexiconClassifier) negatedWord(words []string, i int) bool {
	start := i - negationWindow
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if c.lex.IsNegation(words[j]) {
			return true
		}
	}
	return false
}

// flatDescription reports whether the text uses generic neutral adjectives
// with no strong positive or negative vocabulary alongside them.
func (c *LexiconClassifier) flatDescription(words []string) bool {
	found := false
	for _, w := range words {
		if neutralAdjectives[w] {
			found = true
			continue
		}
		if s := c.lex.Sentiment(w); s >= strongVocabularyThreshold || s <= -strongVocabularyThreshold {
			return false
		}
	}
	return found
}
