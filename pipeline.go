package opine

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// An Option represents a setting that changes how a Pipeline is assembled.
//
// For example, it might substitute a deterministic stub classifier:
//
//	p := opine.NewPipeline(index, opine.WithClassifier(stub))
type Option func(*Pipeline)

// WithClassifier substitutes the sentiment classifier.
func WithClassifier(c Classifier) Option {
	return func(p *Pipeline) { p.classifier = c }
}

// WithLexicon substitutes the lexicon shared by the default classifier and
// the chunk extractor.
func WithLexicon(lex *Lexicon) Option {
	return func(p *Pipeline) { p.lex = lex }
}

// WithConfig substitutes the pipeline configuration.
func WithConfig(cfg *Config) Option {
	return func(p *Pipeline) { p.cfg = cfg }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithSegmenter substitutes the sentence segmenter and chunk extractor.
func WithSegmenter(s *Segmenter) Option {
	return func(p *Pipeline) { p.segmenter = s }
}

// A Pipeline turns a raw review string into an overall sentiment and a set
// of aspect mentions: segmentation, taxonomy matching, per-sentence
// deduplication, context scoping and per-mention classification.
//
// A pipeline is safe for concurrent use once constructed. Failures along the
// way degrade the affected candidate or fall back to a deterministic
// classification; Process never returns an error, because a caller-visible
// failure here would abort an entire batch ingestion over one bad review.
type Pipeline struct {
	taxonomy   *TaxonomyIndex
	classifier Classifier
	segmenter  *Segmenter
	lex        *Lexicon
	cfg        *Config
	log        *zap.Logger
}

// NewPipeline creates a pipeline over the given taxonomy index according to
// the user-specified options.
func NewPipeline(taxonomy *TaxonomyIndex, opts ...Option) *Pipeline {
	p := &Pipeline{taxonomy: taxonomy}
	for _, applyOpt := range opts {
		applyOpt(p)
	}
	if p.cfg == nil {
		p.cfg = DefaultConfig()
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.lex == nil {
		lex, err := LoadLexicon(p.cfg.LexiconPath)
		if err != nil {
			p.log.Warn("external lexicon unavailable, using built-in", zap.Error(err))
			lex = DefaultLexicon()
		}
		p.lex = lex
	}
	if p.classifier == nil {
		p.classifier = NewLexiconClassifier(p.lex, p.cfg, p.log)
	}
	if p.segmenter == nil {
		p.segmenter = NewSegmenter(p.lex, p.cfg, p.log)
	}
	return p
}

// Process analyzes one review. It returns the overall sentiment of the full
// text and one mention per surviving, deduplicated candidate: at most one
// mention per matched aspect per review. A review with zero extractable
// aspects is valid and yields an empty mention list.
func (p *Pipeline) Process(ctx context.Context, content string) (Classification, []Mention) {
	overall := p.classify(ctx, content)

	if strings.TrimSpace(content) == "" {
		return overall, nil
	}

	pre := PreprocessForSegmentation(content)
	sents, err := p.segmenter.Sentences(pre)
	if err != nil {
		// Overall sentiment is independent of segmentation and already done.
		p.log.Warn("segmentation failed, review yields no aspects", zap.Error(err))
		return overall, nil
	}

	snap := p.taxonomy.Snapshot()
	lowerContent := strings.ToLower(content)

	// One mention per matched aspect per review (raw key when unmatched);
	// repeats in later sentences are suppressed.
	seen := map[string]bool{}

	var mentions []Mention
	for _, sent := range sents {
		for _, cand := range p.segmenter.Candidates(sent) {
			aspectID, surface := snap.Match(cand.MatchKey)
			if aspectID == nil {
				surface = cand.Phrase
			}

			dedupKey := "raw:" + cand.MatchKey
			if aspectID != nil {
				dedupKey = aspectID.String()
			}
			if seen[dedupKey] {
				continue
			}
			seen[dedupKey] = true

			// Re-establish offsets against the original, unmodified text;
			// preprocessing shifted every position after the first respaced
			// punctuation mark.
			idx := strings.Index(lowerContent, strings.ToLower(surface))
			if idx < 0 {
				p.log.Debug("matched surface not present in original text, dropping candidate",
					zap.String("surface", surface), zap.String("candidate", cand.MatchKey))
				continue
			}
			start, end := idx, idx+len(surface)

			ctxText := ContextWindow(cand.Sentence, surface, p.cfg.ContextRadius)
			if strings.TrimSpace(ctxText) == "" {
				ctxText = cand.Snippet
			}
			cls := p.classify(ctx, ctxText)

			mentions = append(mentions, Mention{
				AspectID:     aspectID,
				RawAspect:    cand.MatchKey,
				KeywordFound: content[start:end],
				Sentence:     cand.Sentence,
				Context:      ctxText,
				Label:        cls.Label,
				Score:        cls.Score,
				Source:       cls.Source,
				StartChar:    start,
				EndChar:      end,
			})
		}
	}
	return overall, mentions
}

// classify labels one span, falling back to the deterministic default when
// the classifier is unavailable or fails. Ingestion continues either way.
func (p *Pipeline) classify(ctx context.Context, text string) Classification {
	if p.classifier == nil {
		return FallbackClassification()
	}
	cls, err := p.classifier.Classify(ctx, text)
	if err != nil {
		p.log.Warn("classification failed, using fallback", zap.Error(err))
		return FallbackClassification()
	}
	return cls
}
