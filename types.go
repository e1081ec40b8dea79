package opine

import (
	"strings"

	"github.com/google/uuid"
)

// A Label is the polarity reported for a span of text.
type Label string

const (
	Positive Label = "POSITIVE"
	Negative Label = "NEGATIVE"
	Neutral  Label = "NEUTRAL"
)

// Display returns the capitalized reporting form of a label, e.g. "Positive".
func (l Label) Display() string {
	s := strings.ToLower(string(l))
	if s == "" {
		return "N/A"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// A Source records how a classification was produced, so that callers can
// tell a genuine model result from an override or an unavailable-model
// fallback.
type Source string

const (
	SourceModel    Source = "model"
	SourceOverride Source = "override"
	SourceFallback Source = "fallback"
)

// A Classification is the result of labelling one span of text. Score is the
// confidence of the reported label, in [0,1].
type Classification struct {
	Label  Label
	Score  float64
	Source Source
}

// A Mention is one occurrence of an aspect (or an unmatched phrase) found in
// one review.
//
// StartChar and EndChar are byte offsets into the original, unmodified review
// content. They satisfy 0 <= StartChar < EndChar <= len(content) and slice out
// KeywordFound (case-insensitively). A mention whose offsets could not be
// resolved is never emitted by the pipeline.
type Mention struct {
	AspectID     *uuid.UUID // nil when the phrase matched no taxonomy entry
	RawAspect    string     // normalized candidate text
	KeywordFound string     // matched surface text as it appears in the review
	Sentence     string     // containing sentence
	Context      string     // text the sentiment was scoped to
	Label        Label
	Score        float64
	Source       Source
	StartChar    int
	EndChar      int
}

// A MentionRecord is one persisted mention joined to its taxonomy names, as
// read back for aggregation. HasAspect is false for uncategorized mentions,
// which carry no aspect or category name.
type MentionRecord struct {
	RawAspect    string
	AspectName   string
	CategoryName string
	HasAspect    bool
	Label        Label
	Score        float64
}

// A Summary is the aggregate of all mentions sharing one group key. It is
// recomputed on every query and never stored.
type Summary struct {
	Key           string
	Positive      int
	Negative      int
	Neutral       int
	TotalMentions int
	PositivePct   float64
	NegativePct   float64
	NeutralPct    float64
	AvgConfidence float64
	AvgStrength   float64 // mean effective strength, in [-1,1]
	Dominant      string  // "Positive", "Negative", "Neutral" or "N/A"
}
