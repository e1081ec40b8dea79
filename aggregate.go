package opine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// EffectiveStrength maps a one-sided confidence onto a signed [-1,1] axis:
// POSITIVE => 0.5 + 0.5*score, NEGATIVE => -0.5 - 0.5*score, NEUTRAL => 0.
// The coefficients are policy constants kept for compatibility with the
// diverging charts downstream; raw confidences cannot simply be averaged
// across mixed polarities.
func EffectiveStrength(label Label, score float64) float64 {
	switch label {
	case Positive:
		return 0.5 + 0.5*score
	case Negative:
		return -0.5 - 0.5*score
	default:
		return 0
	}
}

// A GroupKeyFunc assigns a mention record to a summary group. Returning
// ok=false excludes the record from the grouping entirely.
type GroupKeyFunc func(MentionRecord) (key string, ok bool)

// AspectKey groups categorized mentions by matched aspect name; uncategorized
// mentions are excluded.
func AspectKey(r MentionRecord) (string, bool) {
	if !r.HasAspect {
		return "", false
	}
	return r.AspectName, true
}

// UncategorizedKey groups unmatched mentions by their raw extracted phrase;
// categorized mentions are excluded.
func UncategorizedKey(r MentionRecord) (string, bool) {
	if r.HasAspect {
		return "", false
	}
	if r.RawAspect == "" {
		return "Unknown Aspect", true
	}
	return r.RawAspect, true
}

// CategoryKey rolls categorized mentions up to their category; mentions with
// no aspect have no category and are excluded.
func CategoryKey(r MentionRecord) (string, bool) {
	if !r.HasAspect {
		return "", false
	}
	return r.CategoryName, true
}

type accumulator struct {
	positive    int
	negative    int
	neutral     int
	strengths   []float64
	confidences []float64
}

// Summarize aggregates mention records into per-group summaries. Input order
// is irrelevant; output is sorted by group key so results are stable. An
// empty input yields an empty (non-nil) slice, not an error.
func Summarize(records []MentionRecord, key GroupKeyFunc) []Summary {
	groups := make(map[string]*accumulator)
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		acc := groups[k]
		if acc == nil {
			acc = &accumulator{}
			groups[k] = acc
		}
		switch r.Label {
		case Positive:
			acc.positive++
		case Negative:
			acc.negative++
		default:
			acc.neutral++
		}
		acc.strengths = append(acc.strengths, EffectiveStrength(r.Label, r.Score))
		acc.confidences = append(acc.confidences, r.Score)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Summary, 0, len(keys))
	for _, k := range keys {
		out = append(out, finalize(k, groups[k]))
	}
	return out
}

func finalize(key string, acc *accumulator) Summary {
	total := acc.positive + acc.negative + acc.neutral
	s := Summary{
		Key:           key,
		Positive:      acc.positive,
		Negative:      acc.negative,
		Neutral:       acc.neutral,
		TotalMentions: total,
		Dominant:      dominant(acc.positive, acc.negative, acc.neutral),
	}
	if total > 0 {
		s.PositivePct = round2(100 * float64(acc.positive) / float64(total))
		s.NegativePct = round2(100 * float64(acc.negative) / float64(total))
		s.NeutralPct = round2(100 * float64(acc.neutral) / float64(total))
		s.AvgStrength = round2(stat.Mean(acc.strengths, nil))
		s.AvgConfidence = round2(stat.Mean(acc.confidences, nil))
	}
	return s
}

// dominant picks the polarity with the highest count; ties break in fixed
// priority order Positive > Negative > Neutral.
func dominant(pos, neg, neu int) string {
	total := pos + neg + neu
	if total == 0 {
		return "N/A"
	}
	max := pos
	if neg > max {
		max = neg
	}
	if neu > max {
		max = neu
	}
	switch {
	case pos == max:
		return Positive.Display()
	case neg == max:
		return Negative.Display()
	default:
		return Neutral.Display()
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
