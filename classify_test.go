package opine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(t *testing.T, text string) Classification {
	t.Helper()
	c := NewLexiconClassifier(nil, nil, nil)
	cls, err := c.Classify(context.Background(), text)
	require.NoError(t, err)
	return cls
}

func TestClassifyPolarity(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Label
	}{
		{"strong positive", "The camera is excellent", Positive},
		{"moderate positive", "great sound and nice build", Positive},
		{"strong negative", "terrible battery", Negative},
		{"single negative cue", "the battery drains constantly", Negative},
		{"mild mixed leaning negative", "the battery drains fast", Negative},
		{"no opinion words", "the box contains a charger and a manual", Neutral},
		{"empty", "", Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := classify(t, tt.text)
			assert.Equal(t, tt.want, cls.Label, "text: %q", tt.text)
			assert.Equal(t, SourceModel, cls.Source)
			assert.GreaterOrEqual(t, cls.Score, 0.0)
			assert.LessOrEqual(t, cls.Score, 1.0)
		})
	}
}

func TestClassifyNegation(t *testing.T) {
	// A negation reverses and weakens the following sentiment word.
	cls := classify(t, "not bad at all, actually quite good")
	assert.Equal(t, Positive, cls.Label)

	// A clause boundary between negation and word blocks the reversal.
	cls = classify(t, "not, bad")
	assert.Equal(t, Negative, cls.Label)

	// The negation window is three words; farther back it has no effect.
	cls = classify(t, "never have I seen worse")
	assert.Equal(t, Negative, cls.Label)
}

func TestClassifyModifiers(t *testing.T) {
	plain := classify(t, "good camera")
	boosted := classify(t, "very good camera")
	dimmed := classify(t, "slightly good camera")

	require.Equal(t, Positive, plain.Label)
	require.Equal(t, Positive, boosted.Label)
	require.Equal(t, Positive, dimmed.Label)
	assert.GreaterOrEqual(t, boosted.Score, plain.Score)
	assert.Less(t, dimmed.Score, plain.Score)
}

func TestClassifyOverrides(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Label
	}{
		{"neither nor", "neither good nor bad", Neutral},
		{"price adjective", "way too expensive for what you get", Negative},
		{"contextual price word", "the price is quite high", Negative},
		{"flat description", "it was okay overall", Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := classify(t, tt.text)
			assert.Equal(t, tt.want, cls.Label)
			assert.Equal(t, SourceOverride, cls.Source)
			assert.InDelta(t, overrideConfidence, cls.Score, 1e-9)
		})
	}
}

func TestClassifyOverrideSuppression(t *testing.T) {
	// Hedged price complaints stay with the model.
	cls := classify(t, "a bit expensive but fine")
	assert.NotEqual(t, SourceOverride, cls.Source)

	// Negated price complaints stay with the model.
	cls = classify(t, "not expensive at all")
	assert.NotEqual(t, SourceOverride, cls.Source)

	// "high" without a price noun is not a complaint.
	cls = classify(t, "high quality materials")
	assert.NotEqual(t, SourceOverride, cls.Source)

	// Strong vocabulary blocks the flat-description override.
	cls = classify(t, "okay case but the camera is excellent")
	assert.Equal(t, Positive, cls.Label)
	assert.Equal(t, SourceModel, cls.Source)
}

func TestDecideNeutralGap(t *testing.T) {
	cls := decide(0.50, 0.45, 0.42, 0.1)
	assert.Equal(t, Neutral, cls.Label)
	assert.InDelta(t, 0.42, cls.Score, 1e-9)

	cls = decide(0.50, 0.30, 0.42, 0.1)
	assert.Equal(t, Positive, cls.Label)
	assert.InDelta(t, 0.50, cls.Score, 1e-9)

	cls = decide(0.20, 0.60, 0.10, 0.1)
	assert.Equal(t, Negative, cls.Label)
	assert.InDelta(t, 0.60, cls.Score, 1e-9)

	// A weak but one-sided signal keeps its polarity.
	cls = decide(0.225, 0.375, 0.40, 0.1)
	assert.Equal(t, Negative, cls.Label)
	assert.InDelta(t, 0.375, cls.Score, 1e-9)

	// No contributors at all lands on NEUTRAL with full confidence.
	cls = decide(0, 0, 1, 0.1)
	assert.Equal(t, Neutral, cls.Label)
	assert.InDelta(t, 1.0, cls.Score, 1e-9)
}

func TestClassifyCanceledContext(t *testing.T) {
	c := NewLexiconClassifier(nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, "great")
	assert.Error(t, err)
}

func TestFallbackClassification(t *testing.T) {
	cls := FallbackClassification()
	assert.Equal(t, Positive, cls.Label)
	assert.Zero(t, cls.Score)
	assert.Equal(t, SourceFallback, cls.Source)
}

func TestLexiconLookups(t *testing.T) {
	lex := DefaultLexicon()

	assert.InDelta(t, 0.9, lex.Sentiment("Excellent"), 1e-9)
	assert.InDelta(t, -0.7, lex.Sentiment("broken"), 1e-9)
	assert.Zero(t, lex.Sentiment("charger"))

	// Plural fallback through the lemma.
	assert.InDelta(t, -0.4, lex.Sentiment("problems"), 1e-9)

	assert.InDelta(t, 0.3, lex.ModifierStrength("very"), 1e-9)
	assert.InDelta(t, -0.5, lex.ModifierStrength("hardly"), 1e-9)
	assert.Zero(t, lex.ModifierStrength("camera"))

	assert.True(t, lex.IsNegation("not"))
	assert.True(t, lex.IsNegation("doesn't"))
	assert.True(t, lex.IsNegation("shouldn't"))
	assert.False(t, lex.IsNegation("note"))
}

func TestLemma(t *testing.T) {
	tests := []struct{ in, want string }{
		{"cameras", "camera"},
		{"batteries", "battery"},
		{"boxes", "box"},
		{"glasses", "glass"},
		{"watches", "watch"},
		{"glass", "glass"},
		{"bus", "bu"},
		{"is", "is"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lemma(tt.in), "lemma(%q)", tt.in)
	}
}

func TestLoadLexiconMergesExternal(t *testing.T) {
	path := writeTempFile(t, "lexicon.json", `{
		"words": [
			{"word": "Stellar", "sentiment": 0.9, "confidence": 0.9},
			{"word": "good", "sentiment": -0.2, "confidence": 0.5}
		],
		"modifiers": [{"word": "mega", "factor": 0.6}],
		"negations": ["nope"]
	}`)

	lex, err := LoadLexicon(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.9, lex.Sentiment("stellar"), 1e-9)
	// External entries win over built-ins.
	assert.InDelta(t, -0.2, lex.Sentiment("good"), 1e-9)
	assert.InDelta(t, 0.6, lex.ModifierStrength("mega"), 1e-9)
	assert.True(t, lex.IsNegation("nope"))
	// Untouched built-ins survive the merge.
	assert.InDelta(t, -0.9, lex.Sentiment("terrible"), 1e-9)
}

func TestLoadLexiconErrors(t *testing.T) {
	_, err := LoadLexicon("/does/not/exist.json")
	assert.Error(t, err)

	path := writeTempFile(t, "lexicon.json", "{not json")
	_, err = LoadLexicon(path)
	assert.Error(t, err)
}
