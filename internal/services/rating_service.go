package services

import (
	"fmt"
	"math"

	"github.com/aquarela/backend/internal/models"
	"github.com/aquarela/backend/pkg/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingAggregate is the public view of a painting's ratings.
type RatingAggregate struct {
	PaintingID uuid.UUID `json:"painting_id"`
	Average    *float64  `json:"average"`
	Count      int       `json:"count"`
}

type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// SubmitRating records one vote. The IP hash is stored for abuse review
// only; repeat votes from the same visitor are accepted.
func (s *RatingService) SubmitRating(paintingID uuid.UUID, value int, ipHash string) (*models.Rating, error) {
	if !validation.ValidateRating(value) {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", value)
	}

	var count int64
	if err := s.db.Model(&models.Painting{}).Where("id = ?", paintingID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	rating := &models.Rating{
		PaintingID: paintingID,
		Rating:     value,
		IPHash:     ipHash,
	}
	if err := s.db.Create(rating).Error; err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}
	return rating, nil
}

// GetAggregate reads every vote for the painting and reduces it to a mean
// rounded to one decimal. No votes yields a nil average with count zero.
func (s *RatingService) GetAggregate(paintingID uuid.UUID) (*RatingAggregate, error) {
	var ratings []models.Rating
	if err := s.db.Where("painting_id = ?", paintingID).Find(&ratings).Error; err != nil {
		return nil, err
	}

	agg := &RatingAggregate{PaintingID: paintingID, Count: len(ratings)}
	if len(ratings) == 0 {
		return agg, nil
	}

	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	avg := math.Round(float64(sum)/float64(len(ratings))*10) / 10
	agg.Average = &avg
	return agg, nil
}
