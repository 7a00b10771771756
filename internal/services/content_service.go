package services

import (
	"errors"
	"strings"

	"github.com/aquarela/backend/internal/models"
	"github.com/aquarela/backend/pkg/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentService stores the editable site texts (about, contact intro and
// similar) keyed by slug.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// Get returns the content block for a slug.
func (s *ContentService) Get(slug string) (*models.SiteContent, error) {
	if !validation.ValidateSlug(slug) {
		return nil, errors.New("invalid slug")
	}
	var content models.SiteContent
	if err := s.db.First(&content, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// List returns every content block, for the admin editor.
func (s *ContentService) List() ([]models.SiteContent, error) {
	var contents []models.SiteContent
	err := s.db.Order("slug ASC").Find(&contents).Error
	return contents, err
}

// Upsert creates or replaces the block for a slug in one statement.
func (s *ContentService) Upsert(slug, content string) (*models.SiteContent, error) {
	slug = strings.TrimSpace(slug)
	if !validation.ValidateSlug(slug) {
		return nil, errors.New("invalid slug")
	}

	block := &models.SiteContent{Slug: slug, Content: content}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(block).Error
	if err != nil {
		return nil, err
	}
	return s.Get(slug)
}
