package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SiteContent is a CMS text blob keyed by a human-readable slug
// (e.g. "author-bio", "process-intro"). Writes upsert on the slug.
type SiteContent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	Slug      string    `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *SiteContent) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
