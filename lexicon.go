package opine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// A LexiconEntry is one word's sentiment information.
type LexiconEntry struct {
	Word       string
	Sentiment  float64 // -1 to 1
	Confidence float64 // 0 to 1
}

// A Lexicon holds the word lists the built-in classifier scores with:
// polarity words, intensity modifiers and negations. Lexicons are built once
// and read-only afterwards.
type Lexicon struct {
	words     map[string]LexiconEntry
	modifiers map[string]float64
	negations map[string]bool
}

// externalLexicon is the JSON schema for user-supplied lexicon files, merged
// over the built-in lists.
type externalLexicon struct {
	Words []struct {
		Word       string  `json:"word"`
		Sentiment  float64 `json:"sentiment"`
		Confidence float64 `json:"confidence"`
	} `json:"words"`
	Modifiers []struct {
		Word   string  `json:"word"`
		Factor float64 `json:"factor"`
	} `json:"modifiers"`
	Negations []string `json:"negations"`
}

// DefaultLexicon returns the built-in English lexicon.
func DefaultLexicon() *Lexicon {
	lex := &Lexicon{
		modifiers: englishModifiers(),
		negations: englishNegations(),
	}
	lex.words = englishWords()
	return lex
}

// LoadLexicon returns the built-in lexicon with the entries of an external
// JSON file merged over it. An empty path returns the defaults unchanged.
func LoadLexicon(path string) (*Lexicon, error) {
	lex := DefaultLexicon()
	if path == "" {
		return lex, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon file: %w", err)
	}
	var ext externalLexicon
	if err := json.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("parsing lexicon JSON: %w", err)
	}
	for _, w := range ext.Words {
		lex.words[strings.ToLower(w.Word)] = LexiconEntry{
			Word:       w.Word,
			Sentiment:  w.Sentiment,
			Confidence: w.Confidence,
		}
	}
	for _, m := range ext.Modifiers {
		lex.modifiers[strings.ToLower(m.Word)] = m.Factor
	}
	for _, n := range ext.Negations {
		lex.negations[strings.ToLower(n)] = true
	}
	return lex, nil
}

// Sentiment returns the polarity score for a word, or 0 when the word is not
// in the lexicon. Lookup is case-insensitive and tolerates simple plurals.
func (lex *Lexicon) Sentiment(word string) float64 {
	w := strings.ToLower(word)
	if e, ok := lex.words[w]; ok {
		return e.Sentiment
	}
	if l := lemma(w); l != w {
		if e, ok := lex.words[l]; ok {
			return e.Sentiment
		}
	}
	return 0
}

// Confidence returns the lexicon's confidence in a word's score, or 0 for
// unknown words.
func (lex *Lexicon) Confidence(word string) float64 {
	w := strings.ToLower(word)
	if e, ok := lex.words[w]; ok {
		return e.Confidence
	}
	if l := lemma(w); l != w {
		if e, ok := lex.words[l]; ok {
			return e.Confidence
		}
	}
	return 0
}

// ModifierStrength returns the intensifier (positive) or diminisher
// (negative) factor for a word, or 0 when the word is not a modifier.
func (lex *Lexicon) ModifierStrength(word string) float64 {
	return lex.modifiers[strings.ToLower(word)]
}

// IsNegation reports whether a word is a negation.
func (lex *Lexicon) IsNegation(word string) bool {
	w := strings.ToLower(word)
	return lex.negations[w] || w == "n't" || strings.HasSuffix(w, "n't")
}

// lemma applies light plural stripping so "cameras" hits the "camera" entry.
// It is intentionally crude: only regular noun plurals, no verb morphology.
func lemma(w string) string {
	switch {
	case len(w) > 3 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 3 && (strings.HasSuffix(w, "ses") || strings.HasSuffix(w, "xes") ||
		strings.HasSuffix(w, "zes") || strings.HasSuffix(w, "ches") || strings.HasSuffix(w, "shes")):
		return w[:len(w)-2]
	case len(w) > 2 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	}
	return w
}

func englishWords() map[string]LexiconEntry {
	return map[string]LexiconEntry{
		// Strong positive
		"excellent":   {Word: "excellent", Sentiment: 0.9, Confidence: 0.95},
		"amazing":     {Word: "amazing", Sentiment: 0.85, Confidence: 0.95},
		"wonderful":   {Word: "wonderful", Sentiment: 0.85, Confidence: 0.95},
		"fantastic":   {Word: "fantastic", Sentiment: 0.85, Confidence: 0.95},
		"outstanding": {Word: "outstanding", Sentiment: 0.9, Confidence: 0.95},
		"exceptional": {Word: "exceptional", Sentiment: 0.9, Confidence: 0.95},
		"perfect":     {Word: "perfect", Sentiment: 0.95, Confidence: 0.95},
		"brilliant":   {Word: "brilliant", Sentiment: 0.85, Confidence: 0.95},
		"superb":      {Word: "superb", Sentiment: 0.85, Confidence: 0.95},
		"flawless":    {Word: "flawless", Sentiment: 0.9, Confidence: 0.95},

		// Moderate positive
		"good":        {Word: "good", Sentiment: 0.6, Confidence: 0.9},
		"great":       {Word: "great", Sentiment: 0.75, Confidence: 0.9},
		"nice":        {Word: "nice", Sentiment: 0.5, Confidence: 0.85},
		"love":        {Word: "love", Sentiment: 0.8, Confidence: 0.9},
		"happy":       {Word: "happy", Sentiment: 0.7, Confidence: 0.9},
		"beautiful":   {Word: "beautiful", Sentiment: 0.75, Confidence: 0.9},
		"enjoy":       {Word: "enjoy", Sentiment: 0.65, Confidence: 0.9},
		"pleasant":    {Word: "pleasant", Sentiment: 0.6, Confidence: 0.9},
		"best":        {Word: "best", Sentiment: 0.85, Confidence: 0.95},
		"better":      {Word: "better", Sentiment: 0.5, Confidence: 0.85},
		"awesome":     {Word: "awesome", Sentiment: 0.8, Confidence: 0.9},
		"impressed":   {Word: "impressed", Sentiment: 0.7, Confidence: 0.9},
		"impressive":  {Word: "impressive", Sentiment: 0.7, Confidence: 0.9},
		"premium":     {Word: "premium", Sentiment: 0.5, Confidence: 0.8},
		"intuitive":   {Word: "intuitive", Sentiment: 0.6, Confidence: 0.85},
		"helpful":     {Word: "helpful", Sentiment: 0.6, Confidence: 0.9},
		"recommended": {Word: "recommended", Sentiment: 0.65, Confidence: 0.9},
		"recommend":   {Word: "recommend", Sentiment: 0.6, Confidence: 0.85},
		"reliable":    {Word: "reliable", Sentiment: 0.65, Confidence: 0.9},
		"sturdy":      {Word: "sturdy", Sentiment: 0.55, Confidence: 0.85},
		"responsive":  {Word: "responsive", Sentiment: 0.55, Confidence: 0.85},
		"durable":     {Word: "durable", Sentiment: 0.6, Confidence: 0.85},
		"works":       {Word: "works", Sentiment: 0.3, Confidence: 0.6},
		"cheap":       {Word: "cheap", Sentiment: 0.3, Confidence: 0.5},
		"affordable":  {Word: "affordable", Sentiment: 0.5, Confidence: 0.8},

		// Mild positive
		"fine":   {Word: "fine", Sentiment: 0.3, Confidence: 0.75},
		"decent": {Word: "decent", Sentiment: 0.4, Confidence: 0.8},
		"fast":   {Word: "fast", Sentiment: 0.3, Confidence: 0.6},
		"easy":   {Word: "easy", Sentiment: 0.3, Confidence: 0.6},

		// Strong negative
		"terrible":   {Word: "terrible", Sentiment: -0.9, Confidence: 0.95},
		"awful":      {Word: "awful", Sentiment: -0.85, Confidence: 0.95},
		"horrible":   {Word: "horrible", Sentiment: -0.85, Confidence: 0.95},
		"disgusting": {Word: "disgusting", Sentiment: -0.9, Confidence: 0.95},
		"appalling":  {Word: "appalling", Sentiment: -0.9, Confidence: 0.95},
		"dreadful":   {Word: "dreadful", Sentiment: -0.85, Confidence: 0.95},
		"abysmal":    {Word: "abysmal", Sentiment: -0.95, Confidence: 0.95},
		"useless":    {Word: "useless", Sentiment: -0.8, Confidence: 0.9},
		"unusable":   {Word: "unusable", Sentiment: -0.85, Confidence: 0.9},

		// Moderate negative
		"bad":           {Word: "bad", Sentiment: -0.6, Confidence: 0.9},
		"hate":          {Word: "hate", Sentiment: -0.8, Confidence: 0.9},
		"sad":           {Word: "sad", Sentiment: -0.7, Confidence: 0.9},
		"disappointing": {Word: "disappointing", Sentiment: -0.7, Confidence: 0.9},
		"disappointed":  {Word: "disappointed", Sentiment: -0.7, Confidence: 0.9},
		"poor":          {Word: "poor", Sentiment: -0.65, Confidence: 0.9},
		"wrong":         {Word: "wrong", Sentiment: -0.6, Confidence: 0.85},
		"worst":         {Word: "worst", Sentiment: -0.85, Confidence: 0.95},
		"worse":         {Word: "worse", Sentiment: -0.5, Confidence: 0.85},
		"annoying":      {Word: "annoying", Sentiment: -0.65, Confidence: 0.9},
		"fail":          {Word: "fail", Sentiment: -0.7, Confidence: 0.9},
		"failure":       {Word: "failure", Sentiment: -0.75, Confidence: 0.9},
		"broken":        {Word: "broken", Sentiment: -0.7, Confidence: 0.9},
		"broke":         {Word: "broke", Sentiment: -0.65, Confidence: 0.85},
		"damaged":       {Word: "damaged", Sentiment: -0.7, Confidence: 0.9},
		"defective":     {Word: "defective", Sentiment: -0.75, Confidence: 0.9},
		"fragile":       {Word: "fragile", Sentiment: -0.55, Confidence: 0.85},
		"flimsy":        {Word: "flimsy", Sentiment: -0.6, Confidence: 0.85},
		"buggy":         {Word: "buggy", Sentiment: -0.65, Confidence: 0.9},
		"bugs":          {Word: "bugs", Sentiment: -0.55, Confidence: 0.8},
		"crash":         {Word: "crash", Sentiment: -0.65, Confidence: 0.85},
		"crashes":       {Word: "crashes", Sentiment: -0.65, Confidence: 0.85},
		"drain":         {Word: "drain", Sentiment: -0.5, Confidence: 0.8},
		"drains":        {Word: "drains", Sentiment: -0.5, Confidence: 0.8},
		"slow":          {Word: "slow", Sentiment: -0.3, Confidence: 0.6},
		"laggy":         {Word: "laggy", Sentiment: -0.55, Confidence: 0.85},
		"rude":          {Word: "rude", Sentiment: -0.7, Confidence: 0.9},
		"unhelpful":     {Word: "unhelpful", Sentiment: -0.6, Confidence: 0.85},
		"waste":         {Word: "waste", Sentiment: -0.7, Confidence: 0.9},
		"joke":          {Word: "joke", Sentiment: -0.4, Confidence: 0.6},
		"drops":         {Word: "drops", Sentiment: -0.4, Confidence: 0.6},
		"issue":         {Word: "issue", Sentiment: -0.35, Confidence: 0.6},
		"problem":       {Word: "problem", Sentiment: -0.4, Confidence: 0.65},
	}
}

func englishModifiers() map[string]float64 {
	return map[string]float64{
		// Intensifiers
		"very":       0.3,
		"extremely":  0.5,
		"absolutely": 0.5,
		"totally":    0.4,
		"really":     0.3,
		"so":         0.3,
		"quite":      0.2,
		"incredibly": 0.5,
		"super":      0.4,
		"completely": 0.4,

		// Diminishers
		"slightly": -0.3,
		"somewhat": -0.3,
		"rather":   -0.2,
		"fairly":   -0.1,
		"barely":   -0.5,
		"hardly":   -0.5,
	}
}

func englishNegations() map[string]bool {
	return map[string]bool{
		"not":     true,
		"no":      true,
		"never":   true,
		"neither": true,
		"nor":     true,
		"nothing": true,
		"nobody":  true,
		"without": true,
		"lacks":   true,
		"lacking": true,
		"isn't":   true,
		"wasn't":  true,
		"doesn't": true,
		"don't":   true,
		"didn't":  true,
		"can't":   true,
		"won't":   true,
		"cannot":  true,
	}
}
