package services

import (
	"errors"
	"strings"

	"github.com/aquarela/backend/internal/models"
	"github.com/aquarela/backend/pkg/validation"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const maxCommentLength = 2000

type CommentService struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		db:        db,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Create stores a visitor comment. A nil paintingID means a general guestbook
// comment not attached to any painting. Content is sanitized to plain text.
func (s *CommentService) Create(paintingID *uuid.UUID, userName, content string) (*models.Comment, error) {
	userName = strings.TrimSpace(s.sanitizer.Sanitize(validation.SanitizeString(userName)))
	content = strings.TrimSpace(s.sanitizer.Sanitize(validation.SanitizeString(content)))

	if userName == "" {
		return nil, errors.New("name is required")
	}
	if content == "" {
		return nil, errors.New("comment is required")
	}
	if len(content) > maxCommentLength {
		return nil, errors.New("comment is too long")
	}

	if paintingID != nil {
		var count int64
		if err := s.db.Model(&models.Painting{}).Where("id = ?", *paintingID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}

	comment := &models.Comment{
		PaintingID: paintingID,
		UserName:   userName,
		Content:    content,
		IsApproved: true,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// ListForPainting returns the approved comments of one painting, newest first.
func (s *CommentService) ListForPainting(paintingID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.
		Where("painting_id = ? AND is_approved = ?", paintingID, true).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// ListGeneral returns the approved comments not attached to any painting.
func (s *CommentService) ListGeneral() ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.
		Where("painting_id IS NULL AND is_approved = ?", true).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// ListAll returns every comment for moderation, newest first, with the
// painting preloaded so the admin sees what each comment refers to.
func (s *CommentService) ListAll(limit, offset int) ([]models.Comment, int64, error) {
	var total int64
	if err := s.db.Model(&models.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	query := s.db.Preload("Painting").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// SetReply stores the single admin reply shown under the comment. An empty
// reply clears it.
func (s *CommentService) SetReply(id uuid.UUID, reply string) (*models.Comment, error) {
	reply = strings.TrimSpace(s.sanitizer.Sanitize(validation.SanitizeString(reply)))

	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if reply == "" {
		comment.Reply = nil
	} else {
		comment.Reply = &reply
	}
	if err := s.db.Model(&comment).Select("reply").Updates(map[string]interface{}{"reply": comment.Reply}).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// SetApproved toggles visibility without deleting the comment.
func (s *CommentService) SetApproved(id uuid.UUID, approved bool) error {
	result := s.db.Model(&models.Comment{}).Where("id = ?", id).Update("is_approved", approved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a comment permanently.
func (s *CommentService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Comment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
