package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Categories is the fixed set a painting may belong to.
var Categories = []string{
	"Paisagem",
	"Retrato",
	"Natureza Morta",
	"Abstrato",
	"Marinha",
	"Flores",
	"Outro",
}

// IsValidCategory reports whether c is one of the known categories.
// The empty string is allowed (uncategorized).
func IsValidCategory(c string) bool {
	if c == "" {
		return true
	}
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Painting is a gallery artwork with its metadata and optional AI-derived tags.
// The ai_* columns are written together by one analysis call and are either all
// set or all absent.
type Painting struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Year        *int      `json:"year"`
	Dimensions  string    `gorm:"size:64" json:"dimensions"`
	Technique   string    `gorm:"size:128" json:"technique"`
	Category    string    `gorm:"size:64;index" json:"category"`
	IsSold      bool      `gorm:"default:false" json:"is_sold"`
	Price       *float64  `json:"price"`

	ImageURL string `gorm:"not null" json:"image_url"`
	// ImageKey is the object key inside the media bucket. Deletion uses it so
	// it never has to be parsed back out of the public URL.
	ImageKey string `gorm:"size:512" json:"-"`

	AIDescription *string                     `gorm:"type:text" json:"ai_description"`
	AIKeywords    datatypes.JSONSlice[string] `json:"ai_keywords"`
	AIMood        *string                     `gorm:"size:64" json:"ai_mood"`
	AIColors      datatypes.JSONSlice[string] `json:"ai_colors"`

	DisplayOrder int `gorm:"index" json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	GalleryImages []GalleryImage `gorm:"foreignKey:PaintingID" json:"gallery_images,omitempty"`
}

func (p *Painting) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HasAnalysis reports whether the AI fields have been populated.
func (p *Painting) HasAnalysis() bool {
	return p.AIDescription != nil
}

// SortYear returns the year used for ordering; missing years sort as 0.
func (p *Painting) SortYear() int {
	if p.Year == nil {
		return 0
	}
	return *p.Year
}

// HasKeyword reports whether the painting carries the given AI keyword.
func (p *Painting) HasKeyword(keyword string) bool {
	for _, k := range p.AIKeywords {
		if k == keyword {
			return true
		}
	}
	return false
}

// GalleryImage is a secondary image owned by exactly one painting,
// displayed in creation order.
type GalleryImage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PaintingID uuid.UUID `gorm:"type:uuid;not null;index" json:"painting_id"`
	ImageURL   string    `gorm:"not null" json:"image_url"`
	ImageKey   string    `gorm:"size:512" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (g *GalleryImage) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
