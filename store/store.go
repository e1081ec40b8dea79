// Package store persists taxonomies, reviews and per-aspect sentiment
// mentions behind the analysis pipeline, and implements opine.Loader so a
// TaxonomyIndex can be rebuilt straight from the database.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tsawler/opine"
)

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// Migrate creates or updates the schema for all store models.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Category{}, &Aspect{}, &Keyword{}, &Review{}, &AspectSentiment{}); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, name, description string) (*Category, error) {
	cat := &Category{Name: strings.TrimSpace(name), Description: description}
	if cat.Name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if err := s.db.WithContext(ctx).Create(cat).Error; err != nil {
		return nil, fmt.Errorf("creating category %q: %w", name, err)
	}
	return cat, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var aspectIDs []uuid.UUID
		if err := tx.Model(&Aspect{}).Where("category_id = ?", id).Pluck("id", &aspectIDs).Error; err != nil {
			return fmt.Errorf("listing aspects for category %s: %w", id, err)
		}
		if len(aspectIDs) > 0 {
			// Mentions survive taxonomy deletion as uncategorized rows.
			if err := tx.Model(&AspectSentiment{}).
				Where("aspect_id IN ?", aspectIDs).
				Update("aspect_id", nil).Error; err != nil {
				return fmt.Errorf("detaching mentions: %w", err)
			}
			if err := tx.Where("aspect_id IN ?", aspectIDs).Delete(&Keyword{}).Error; err != nil {
				return fmt.Errorf("deleting keywords: %w", err)
			}
			if err := tx.Where("category_id = ?", id).Delete(&Aspect{}).Error; err != nil {
				return fmt.Errorf("deleting aspects: %w", err)
			}
		}
		if err := tx.Delete(&Category{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting category %s: %w", id, err)
		}
		return nil
	})
}

func (s *Store) CreateAspect(ctx context.Context, categoryID uuid.UUID, name, description string, weightage float64) (*Aspect, error) {
	asp := &Aspect{
		Name:        strings.TrimSpace(name),
		Description: description,
		Weightage:   weightage,
		CategoryID:  categoryID,
	}
	if asp.Name == "" {
		return nil, fmt.Errorf("aspect name is required")
	}
	if err := s.db.WithContext(ctx).Create(asp).Error; err != nil {
		return nil, fmt.Errorf("creating aspect %q: %w", name, err)
	}
	return asp, nil
}

// DeleteAspect removes an aspect and its keywords. Mentions referencing the
// aspect are kept and become uncategorized.
func (s *Store) DeleteAspect(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&AspectSentiment{}).
			Where("aspect_id = ?", id).
			Update("aspect_id", nil).Error; err != nil {
			return fmt.Errorf("detaching mentions: %w", err)
		}
		if err := tx.Where("aspect_id = ?", id).Delete(&Keyword{}).Error; err != nil {
			return fmt.Errorf("deleting keywords: %w", err)
		}
		if err := tx.Delete(&Aspect{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting aspect %s: %w", id, err)
		}
		return nil
	})
}

func (s *Store) AddKeyword(ctx context.Context, aspectID uuid.UUID, keyword string) (*Keyword, error) {
	kw := &Keyword{AspectID: aspectID, Keyword: keyword}
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("keyword is required")
	}
	if err := s.db.WithContext(ctx).Create(kw).Error; err != nil {
		return nil, fmt.Errorf("adding keyword %q: %w", keyword, err)
	}
	return kw, nil
}

// LoadTaxonomy flattens the stored taxonomy into matcher entries. It
// implements opine.Loader.
func (s *Store) LoadTaxonomy(ctx context.Context) ([]opine.AspectEntry, error) {
	var aspects []Aspect
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Keywords").
		Find(&aspects).Error
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy: %w", err)
	}

	entries := make([]opine.AspectEntry, 0, len(aspects))
	for _, a := range aspects {
		entry := opine.AspectEntry{
			ID:        a.ID,
			Name:      a.Name,
			Weightage: a.Weightage,
		}
		if a.Category != nil {
			entry.CategoryID = a.Category.ID
			entry.CategoryName = a.Category.Name
		}
		for _, k := range a.Keywords {
			entry.Keywords = append(entry.Keywords, k.Keyword)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SaveAnalysis stores one review together with all of its mentions in a
// single transaction. Mention offsets are persisted only when the pipeline
// resolved them against the original content.
func (s *Store) SaveAnalysis(ctx context.Context, userID uuid.UUID, content string, overall opine.Classification, mentions []opine.Mention) (*Review, error) {
	review := &Review{
		Content:   content,
		UserID:    userID,
		Sentiment: string(overall.Label),
		Score:     overall.Score,
		Source:    string(overall.Source),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("creating review: %w", err)
		}
		if len(mentions) == 0 {
			return nil
		}
		rows := make([]AspectSentiment, 0, len(mentions))
		for _, m := range mentions {
			row := AspectSentiment{
				ReviewID:     review.ID,
				RawAspect:    m.RawAspect,
				AspectID:     m.AspectID,
				KeywordFound: m.KeywordFound,
				Sentence:     m.Sentence,
				Sentiment:    string(m.Label),
				Score:        m.Score,
				Source:       string(m.Source),
			}
			if m.StartChar >= 0 && m.EndChar > m.StartChar {
				start, end := m.StartChar, m.EndChar
				row.StartChar = &start
				row.EndChar = &end
			}
			rows = append(rows, row)
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("creating mentions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("saved analysis",
		zap.String("review_id", review.ID.String()),
		zap.Int("mentions", len(mentions)))
	return review, nil
}

// ListMentions returns a user's mentions joined to the current taxonomy,
// ready for aggregation. Either time bound may be nil.
func (s *Store) ListMentions(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]opine.MentionRecord, error) {
	type row struct {
		RawAspect    string
		AspectName   *string
		CategoryName *string
		Sentiment    string
		Score        float64
	}

	q := s.db.WithContext(ctx).
		Table("aspect_sentiment").
		Select(`aspect_sentiment.raw_extracted_aspect AS raw_aspect,
			aspect.name AS aspect_name,
			category.name AS category_name,
			aspect_sentiment.sentiment,
			aspect_sentiment.score`).
		Joins("JOIN review ON review.id = aspect_sentiment.review_id").
		Joins("LEFT JOIN aspect ON aspect.id = aspect_sentiment.aspect_id").
		Joins("LEFT JOIN category ON category.id = aspect.category_id").
		Where("review.user_id = ?", userID).
		Order("aspect_sentiment.created_at")
	if from != nil {
		q = q.Where("review.timestamp >= ?", *from)
	}
	if to != nil {
		q = q.Where("review.timestamp <= ?", *to)
	}

	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing mentions for user %s: %w", userID, err)
	}

	records := make([]opine.MentionRecord, 0, len(rows))
	for _, r := range rows {
		rec := opine.MentionRecord{
			RawAspect: r.RawAspect,
			Label:     opine.Label(r.Sentiment),
			Score:     r.Score,
		}
		if r.AspectName != nil {
			rec.AspectName = *r.AspectName
			rec.HasAspect = true
		}
		if r.CategoryName != nil {
			rec.CategoryName = *r.CategoryName
		}
		records = append(records, rec)
	}
	return records, nil
}

// ListReviews returns a user's reviews newest first, mentions preloaded.
func (s *Store) ListReviews(ctx context.Context, userID uuid.UUID, limit int) ([]Review, error) {
	q := s.db.WithContext(ctx).
		Preload("Mentions").
		Where("user_id = ?", userID).
		Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var reviews []Review
	if err := q.Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("listing reviews for user %s: %w", userID, err)
	}
	return reviews, nil
}

func (s *Store) GetReview(ctx context.Context, id uuid.UUID) (*Review, error) {
	var review Review
	err := s.db.WithContext(ctx).
		Preload("Mentions").
		First(&review, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("fetching review %s: %w", id, err)
	}
	return &review, nil
}
