package opine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveStrength(t *testing.T) {
	tests := []struct {
		label Label
		score float64
		want  float64
	}{
		{Positive, 1.0, 1.0},
		{Positive, 0.0, 0.5},
		{Positive, 0.6, 0.8},
		{Negative, 1.0, -1.0},
		{Negative, 0.0, -0.5},
		{Negative, 0.6, -0.8},
		{Neutral, 0.9, 0.0},
		{Neutral, 0.0, 0.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, EffectiveStrength(tt.label, tt.score), 1e-9,
			"EffectiveStrength(%s, %v)", tt.label, tt.score)
	}
}

func rec(aspect, category string, label Label, score float64) MentionRecord {
	return MentionRecord{
		RawAspect:    "raw " + aspect,
		AspectName:   aspect,
		CategoryName: category,
		HasAspect:    aspect != "",
		Label:        label,
		Score:        score,
	}
}

func TestSummarizeByAspect(t *testing.T) {
	records := []MentionRecord{
		rec("Battery", "Electronics", Negative, 0.8),
		rec("Battery", "Electronics", Negative, 0.6),
		rec("Battery", "Electronics", Positive, 0.9),
		rec("Camera", "Electronics", Positive, 1.0),
		{RawAspect: "delivery", Label: Negative, Score: 0.5}, // uncategorized
	}

	summaries := Summarize(records, AspectKey)
	require.Len(t, summaries, 2)

	battery := summaries[0]
	assert.Equal(t, "Battery", battery.Key)
	assert.Equal(t, 1, battery.Positive)
	assert.Equal(t, 2, battery.Negative)
	assert.Equal(t, 0, battery.Neutral)
	assert.Equal(t, 3, battery.TotalMentions)
	assert.InDelta(t, 33.33, battery.PositivePct, 0.01)
	assert.InDelta(t, 66.67, battery.NegativePct, 0.01)
	assert.InDelta(t, 100.0, battery.PositivePct+battery.NegativePct+battery.NeutralPct, 0.02)
	// strengths: -0.9, -0.8, +0.95 -> mean -0.25
	assert.InDelta(t, -0.25, battery.AvgStrength, 1e-9)
	assert.InDelta(t, 0.77, battery.AvgConfidence, 0.01)
	assert.Equal(t, "Negative", battery.Dominant)

	camera := summaries[1]
	assert.Equal(t, "Camera", camera.Key)
	assert.Equal(t, 1, camera.TotalMentions)
	assert.InDelta(t, 1.0, camera.AvgStrength, 1e-9)
	assert.Equal(t, "Positive", camera.Dominant)
}

func TestSummarizeUncategorized(t *testing.T) {
	records := []MentionRecord{
		rec("Battery", "Electronics", Positive, 0.9),
		{RawAspect: "delivery", Label: Negative, Score: 0.5},
		{RawAspect: "delivery", Label: Negative, Score: 0.7},
		{Label: Neutral, Score: 0.4},
	}

	summaries := Summarize(records, UncategorizedKey)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Unknown Aspect", summaries[0].Key)
	assert.Equal(t, "delivery", summaries[1].Key)
	assert.Equal(t, 2, summaries[1].Negative)
}

func TestSummarizeByCategory(t *testing.T) {
	records := []MentionRecord{
		rec("Battery", "Electronics", Negative, 0.8),
		rec("Camera", "Electronics", Positive, 0.9),
		rec("Shipping", "Service", Neutral, 0.5),
		{RawAspect: "misc", Label: Positive, Score: 0.5},
	}

	summaries := Summarize(records, CategoryKey)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Electronics", summaries[0].Key)
	assert.Equal(t, 2, summaries[0].TotalMentions)
	assert.Equal(t, "Service", summaries[1].Key)
	// A neutral-only group sits exactly at zero strength.
	assert.Zero(t, summaries[1].AvgStrength)
	assert.Equal(t, "Neutral", summaries[1].Dominant)
}

func TestSummarizeEmpty(t *testing.T) {
	summaries := Summarize(nil, AspectKey)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestDominantTieBreaks(t *testing.T) {
	tests := []struct {
		pos, neg, neu int
		want          string
	}{
		{2, 2, 1, "Positive"},
		{0, 2, 2, "Negative"},
		{1, 1, 1, "Positive"},
		{0, 0, 3, "Neutral"},
		{0, 0, 0, "N/A"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dominant(tt.pos, tt.neg, tt.neu),
			"dominant(%d, %d, %d)", tt.pos, tt.neg, tt.neu)
	}
}

func TestLabelDisplay(t *testing.T) {
	assert.Equal(t, "Positive", Positive.Display())
	assert.Equal(t, "Negative", Negative.Display())
	assert.Equal(t, "Neutral", Neutral.Display())
	assert.Equal(t, "N/A", Label("").Display())
}
