package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is one anonymous 1-5 star vote for a painting. There is no
// per-visitor uniqueness: repeated votes from the same viewer are accepted.
type Rating struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PaintingID uuid.UUID `gorm:"type:uuid;not null;index" json:"painting_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	// IPHash is informational only; it is never used for deduplication.
	IPHash    string    `gorm:"size:64" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
