package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a visitor comment, attached to a painting or general when
// PaintingID is nil. Reply holds at most one admin-authored answer.
type Comment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PaintingID *uuid.UUID `gorm:"type:uuid;index" json:"painting_id"`
	UserName   string     `gorm:"size:128;not null" json:"user_name"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	Reply      *string    `gorm:"type:text" json:"reply,omitempty"`
	IsApproved bool       `gorm:"default:true" json:"is_approved"`
	CreatedAt  time.Time  `json:"created_at"`

	Painting *Painting `gorm:"foreignKey:PaintingID" json:"painting,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
