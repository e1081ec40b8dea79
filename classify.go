package opine

import (
	"context"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// A Classifier labels a span of text with a polarity and a confidence score
// in [0,1]. It must be safe to call with short (single-word) and long
// (multi-sentence) input, and safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// FallbackClassification is the deterministic result used when the
// classifier is unavailable or fails at runtime. Ingestion persists it
// rather than aborting the review save; Source tells it apart from a genuine
// low-confidence positive.
func FallbackClassification() Classification {
	return Classification{Label: Positive, Score: 0.0, Source: SourceFallback}
}

// LexiconClassifier is the built-in sentiment model: lexicon scoring with
// negation windows and intensity modifiers, reduced to three polarity scores
// and a single reported label.
//
// Decision policy: the positive and negative scores compete directly, and a
// margin between them below the configured neutral gap reports NEUTRAL,
// since near-tied polarity means the model is not confident in either
// direction. The neutral score is the complement of the total polarity mass
// and serves as the NEUTRAL confidence, never as a competing vote; a mild
// but one-sided signal therefore still reports its polarity. A set of
// lexical overrides (see overrides.go) runs before scoring at all.
type LexiconClassifier struct {
	lex *Lexicon
	cfg *Config
	log *zap.Logger

	once    sync.Once
	initErr error
	words   *wordTokenizer
}

// negationWindow is the number of preceding words checked for a negation.
const negationWindow = 3

// NewLexiconClassifier creates the built-in classifier. A nil lexicon uses
// DefaultLexicon (or the external lexicon named by cfg.LexiconPath), a nil
// config uses DefaultConfig. The word tokenizer is initialized lazily and
// exactly once.
func NewLexiconClassifier(lex *Lexicon, cfg *Config, log *zap.Logger) *LexiconClassifier {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LexiconClassifier{lex: lex, cfg: cfg, log: log}
}

func (c *LexiconClassifier) ensureInit() error {
	c.once.Do(func() {
		c.words = newWordTokenizer()
		if c.lex == nil {
			lex, err := LoadLexicon(c.cfg.LexiconPath)
			if err != nil {
				c.initErr = err
				return
			}
			c.lex = lex
		}
	})
	return c.initErr
}

// Classify labels text. Lexical overrides are applied first; otherwise the
// three polarity scores decide per the neutral-gap policy.
func (c *LexiconClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	if err := c.ensureInit(); err != nil {
		return Classification{}, err
	}
	if err := ctx.Err(); err != nil {
		return Classification{}, err
	}

	if cls, ok := c.lexicalOverride(text); ok {
		return cls, nil
	}

	pos, neg, neu := c.polarityScores(text)
	return decide(pos, neg, neu, c.cfg.NeutralGap), nil
}

// polarityScores reduces the text to three scores in [0,1], one per polarity.
func (c *LexiconClassifier) polarityScores(text string) (pos, neg, neu float64) {
	tokens := c.words.tokenize(text)

	var posSum, negSum float64
	contributors := 0
	for i, tok := range tokens {
		if !isWordLike(tok) {
			continue
		}
		sentiment := c.lex.Sentiment(tok.Text)
		if sentiment == 0 {
			continue
		}
		sentiment = c.applyModifiers(sentiment, tokens, i)
		if c.negated(tokens, i) {
			// Negation reverses but weakens.
			sentiment = -sentiment * 0.5
		}
		if sentiment > 0 {
			posSum += sentiment
		} else {
			negSum += math.Abs(sentiment)
		}
		contributors++
	}

	if contributors == 0 {
		return 0, 0, 1
	}
	pos = math.Min(1, posSum/float64(contributors)*1.5)
	neg = math.Min(1, negSum/float64(contributors)*1.5)
	neu = math.Max(0, 1-(pos+neg))
	return pos, neg, neu
}

// negated reports whether a negation precedes position i within the window,
// with no clause boundary in between.
func (c *LexiconClassifier) negated(tokens []wordToken, i int) bool {
	start := i - negationWindow
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if !c.lex.IsNegation(tokens[j].Text) {
			continue
		}
		blocked := false
		for k := j + 1; k < i; k++ {
			if isClauseBoundary(tokens[k].Text) {
				blocked = true
				break
			}
		}
		if !blocked {
			return true
		}
	}
	return false
}

// applyModifiers scales a word's score by any intensifier or diminisher in
// the two preceding tokens.
func (c *LexiconClassifier) applyModifiers(base float64, tokens []wordToken, i int) float64 {
	if i == 0 || base == 0 {
		return base
	}
	start := i - 2
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if m := c.lex.ModifierStrength(tokens[j].Text); m != 0 {
			return base * (1 + m)
		}
	}
	return base
}

// decide picks the reported label from three polarity scores. Positive and
// negative compete on their margin; a margin below the neutral gap reports
// NEUTRAL with the neutral score as confidence. Spans with no lexicon
// contributors score (0, 0, 1) and land in the NEUTRAL branch. The score is the
// confidence of the reported label, not a distribution.
func decide(pos, neg, neu, neutralGap float64) Classification {
	if math.Abs(pos-neg) < neutralGap {
		return Classification{Label: Neutral, Score: neu, Source: SourceModel}
	}
	if pos > neg {
		return Classification{Label: Positive, Score: pos, Source: SourceModel}
	}
	return Classification{Label: Negative, Score: neg, Source: SourceModel}
}

// isClauseBoundary reports whether a token separates clauses for the purpose
// of negation scoping.
func isClauseBoundary(text string) bool {
	switch strings.ToLower(text) {
	case ",", ";", ":", ".", "!", "?", "but", "however", "although":
		return true
	}
	return false
}
