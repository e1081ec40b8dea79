package opine

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/bbalet/stopwords"
	"go.uber.org/zap"
	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// A Sentence is a segmented portion of text with byte offsets into the input
// it was segmented from.
type Sentence struct {
	Text  string
	Start int
	End   int
}

// A Candidate is one noun-phrase-like span extracted from a sentence,
// carrying both its surface form and the normalized key the matcher
// compares against.
//
// Start and End are offsets into the segmenter's (preprocessed) input, not
// the original review; final mention offsets are re-established by literal
// search against the original text.
type Candidate struct {
	Phrase        string
	MatchKey      string
	Sentence      string
	SentenceStart int
	Start         int
	End           int
	Snippet       string
}

// A Segmenter splits review text into sentences and candidate aspect spans.
// The underlying sentence model is expensive to build, so it is initialized
// lazily, exactly once, and shared read-only afterwards.
type Segmenter struct {
	lex *Lexicon
	cfg *Config
	log *zap.Logger

	once    sync.Once
	initErr error
	sent    *sentences.DefaultSentenceTokenizer
	words   *wordTokenizer
}

// NewSegmenter creates a segmenter. The lexicon, when present, keeps opinion
// words out of match keys; nil disables that filtering. A nil config uses
// DefaultConfig.
func NewSegmenter(lex *Lexicon, cfg *Config, log *zap.Logger) *Segmenter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Segmenter{lex: lex, cfg: cfg, log: log}
}

func (s *Segmenter) ensureInit() error {
	s.once.Do(func() {
		tok, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			s.initErr = fmt.Errorf("loading sentence model: %w", err)
			return
		}
		s.sent = tok
		s.words = newWordTokenizer()
	})
	return s.initErr
}

// Sentences splits text into sentences with offsets recovered by a forward
// cursor scan, so each sentence maps back onto the input even when the
// tokenizer trims whitespace.
func (s *Segmenter) Sentences(text string) ([]Sentence, error) {
	if err := s.ensureInit(); err != nil {
		return nil, err
	}
	raw := s.sent.Tokenize(text)
	out := make([]Sentence, 0, len(raw))
	cursor := 0
	for _, r := range raw {
		trimmed := strings.TrimSpace(r.Text)
		if trimmed == "" {
			continue
		}
		idx := strings.Index(text[cursor:], trimmed)
		if idx < 0 {
			s.log.Debug("sentence not found at cursor, skipping offsets", zap.String("sentence", trimmed))
			continue
		}
		start := cursor + idx
		out = append(out, Sentence{Text: trimmed, Start: start, End: start + len(trimmed)})
		cursor = start + len(trimmed)
	}
	return out, nil
}

// Candidates extracts noun-phrase-like spans from one sentence: maximal runs
// of content words, with stopwords and bare punctuation as separators. Spans
// of two characters or fewer, pronoun-headed spans, and pure opinion spans
// are discarded.
func (s *Segmenter) Candidates(sent Sentence) []Candidate {
	if err := s.ensureInit(); err != nil {
		return nil
	}
	tokens := s.words.tokenize(sent.Text)

	var out []Candidate
	var run []wordToken
	flush := func() {
		if len(run) > 0 {
			if c, ok := s.candidateFromRun(sent, run); ok {
				out = append(out, c)
			}
			run = run[:0]
		}
	}
	for _, tok := range tokens {
		if s.isContent(tok) {
			run = append(run, tok)
			continue
		}
		flush()
	}
	flush()
	return out
}

// isContent reports whether a token can participate in a candidate span:
// word-like, not a stopword, not a clause conjunction.
func (s *Segmenter) isContent(tok wordToken) bool {
	if !isWordLike(tok) {
		return false
	}
	w := strings.ToLower(tok.Text)
	if clauseConjunctions[w] {
		return false
	}
	// CleanString strips recognized stopwords; an empty result means the
	// token was one.
	return strings.TrimSpace(stopwords.CleanString(w, "en", false)) != ""
}

func (s *Segmenter) candidateFromRun(sent Sentence, run []wordToken) (Candidate, bool) {
	first, last := run[0], run[len(run)-1]
	phrase := sent.Text[first.Start:last.End]
	if len(strings.TrimSpace(phrase)) <= 2 {
		return Candidate{}, false
	}
	if isPronoun(last.Text) {
		return Candidate{}, false
	}

	key, ok := s.matchKey(run, phrase)
	if !ok {
		return Candidate{}, false
	}

	c := Candidate{
		Phrase:        strings.TrimSpace(phrase),
		MatchKey:      key,
		Sentence:      sent.Text,
		SentenceStart: sent.Start,
		Start:         sent.Start + first.Start,
		End:           sent.Start + last.End,
		Snippet:       s.snippet(sent.Text, first.Start, last.End, len(phrase)),
	}
	return c, true
}

// matchKey builds the normalized comparison key for a span: the lemma-joined
// nominal tokens, which in practice are the span's words that carry no
// opinion score and are not bare numbers. A span made entirely of opinion
// words is not an aspect target and is discarded; a span with no usable head
// falls back to its lowercased surface form.
func (s *Segmenter) matchKey(run []wordToken, phrase string) (string, bool) {
	var parts []string
	opinionOnly := s.lex != nil
	for _, tok := range run {
		w := strings.ToLower(tok.Text)
		if s.lex != nil && s.lex.Sentiment(w) != 0 {
			continue
		}
		opinionOnly = false
		if isNumeric(w) {
			continue
		}
		parts = append(parts, lemma(Normalize(w)))
	}
	if opinionOnly {
		return "", false
	}
	if len(parts) == 0 {
		return Normalize(phrase), true
	}
	return strings.Join(parts, " "), true
}

// snippet is the ±SnippetRadius character window around the span within its
// sentence, widened to the whole sentence when degenerate.
func (s *Segmenter) snippet(sentence string, start, end, phraseLen int) string {
	lo := start - s.cfg.SnippetRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + s.cfg.SnippetRadius
	if hi > len(sentence) {
		hi = len(sentence)
	}
	snip := strings.TrimSpace(sentence[lo:hi])
	if snip == "" || len(snip) <= phraseLen+5 {
		return sentence
	}
	return snip
}

var pronouns = map[string]bool{
	"i": true, "you": true, "he": true, "she": true, "it": true,
	"we": true, "they": true, "me": true, "him": true, "her": true,
	"us": true, "them": true, "this": true, "that": true,
	"these": true, "those": true, "myself": true, "yourself": true,
	"itself": true, "themselves": true, "someone": true, "anyone": true,
	"everyone": true, "something": true, "anything": true, "everything": true,
}

func isPronoun(word string) bool {
	return pronouns[strings.ToLower(word)]
}

func isNumeric(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
