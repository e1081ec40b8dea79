package store

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a top-level taxonomy grouping (e.g. Electronics). Deleting a
// category cascades to its aspects.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`

	Aspects []Aspect `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryID;references:ID" json:"aspects,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "category" }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Aspect is a taxonomy leaf (e.g. Battery) owned by a category. Weightage is
// reserved for weighted scoring and currently unused by aggregation.
type Aspect struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	Weightage   float64   `gorm:"not null;default:1" json:"weightage"`

	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`

	Keywords []Keyword `gorm:"constraint:OnDelete:CASCADE;foreignKey:AspectID;references:ID" json:"keywords,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Aspect) TableName() string { return "aspect" }

func (a *Aspect) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Weightage == 0 {
		a.Weightage = 1.0
	}
	return nil
}

// Keyword is pure lookup data for the matcher. Keywords are stored
// lowercased.
type Keyword struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Keyword string    `gorm:"size:100;not null;index" json:"keyword"`

	AspectID uuid.UUID `gorm:"type:uuid;not null;index" json:"aspect_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (Keyword) TableName() string { return "aspect_keyword" }

func (k *Keyword) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	k.Keyword = strings.ToLower(strings.TrimSpace(k.Keyword))
	return nil
}

// Review is one raw text unit with its overall sentiment, computed once at
// ingestion. Deleting a review cascades to its mentions.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	Sentiment string  `gorm:"size:20" json:"sentiment"`
	Score     float64 `json:"score"`
	Source    string  `gorm:"size:20" json:"source"`

	Mentions []AspectSentiment `gorm:"constraint:OnDelete:CASCADE;foreignKey:ReviewID;references:ID" json:"mentions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Review) TableName() string { return "review" }

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	return nil
}

// AspectSentiment is one mention of an aspect within one review. AspectID is
// null for uncategorized mentions and is nulled, not deleted, when the
// aspect is removed from the taxonomy. StartChar/EndChar are byte offsets
// into the owning review's content; null means the offsets could not be
// resolved and the mention must not be used for highlighting.
type AspectSentiment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReviewID uuid.UUID `gorm:"type:uuid;not null;index" json:"review_id"`

	RawAspect string     `gorm:"column:raw_extracted_aspect;size:500" json:"raw_extracted_aspect"`
	AspectID  *uuid.UUID `gorm:"type:uuid;index" json:"aspect_id"`
	Aspect    *Aspect    `gorm:"foreignKey:AspectID;references:ID;constraint:OnDelete:SET NULL" json:"aspect,omitempty"`

	KeywordFound string  `gorm:"size:1000;not null" json:"keyword_found"`
	Sentence     string  `gorm:"type:text;not null" json:"sentence"`
	Sentiment    string  `gorm:"size:20;not null" json:"sentiment"`
	Score        float64 `gorm:"not null" json:"score"`
	Source       string  `gorm:"size:20" json:"source"`
	StartChar    *int    `json:"start_char"`
	EndChar      *int    `json:"end_char"`

	CreatedAt time.Time `json:"created_at"`
}

func (AspectSentiment) TableName() string { return "aspect_sentiment" }

func (m *AspectSentiment) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
