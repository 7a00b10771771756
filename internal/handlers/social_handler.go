package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/aquarela/backend/internal/models"
	"github.com/aquarela/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SocialHandler serves the visitor-facing ratings and comments endpoints.
type SocialHandler struct {
	ratingService  *services.RatingService
	commentService *services.CommentService
}

func NewSocialHandler(ratingService *services.RatingService, commentService *services.CommentService) *SocialHandler {
	return &SocialHandler{
		ratingService:  ratingService,
		commentService: commentService,
	}
}

// hashIP stores only a digest of the caller address, for abuse review.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

func commentJSON(cm *models.Comment) gin.H {
	return gin.H{
		"id":          cm.ID,
		"painting_id": cm.PaintingID,
		"user_name":   cm.UserName,
		"content":     cm.Content,
		"reply":       cm.Reply,
		"created_at":  cm.CreatedAt,
	}
}

// GetRatings returns the aggregate for one painting.
// GET /public/paintings/:id/ratings
func (h *SocialHandler) GetRatings(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid painting ID"})
		return
	}

	aggregate, err := h.ratingService.GetAggregate(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ratings"})
		return
	}
	c.JSON(http.StatusOK, aggregate)
}

// SubmitRating records one vote and returns the fresh aggregate.
// POST /public/paintings/:id/ratings {"rating": 4}
func (h *SocialHandler) SubmitRating(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid painting ID"})
		return
	}

	var req struct {
		Rating int `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating is required"})
		return
	}

	if _, err := h.ratingService.SubmitRating(id, req.Rating, hashIP(c.ClientIP())); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Painting not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	aggregate, err := h.ratingService.GetAggregate(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ratings"})
		return
	}
	c.JSON(http.StatusCreated, aggregate)
}

// GetComments lists the approved comments of one painting, newest first.
// GET /public/paintings/:id/comments
func (h *SocialHandler) GetComments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid painting ID"})
		return
	}

	comments, err := h.commentService.ListForPainting(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	list := make([]gin.H, len(comments))
	for i := range comments {
		list[i] = commentJSON(&comments[i])
	}
	c.JSON(http.StatusOK, gin.H{"comments": list, "total": len(list)})
}

// CreateComment attaches a visitor comment to a painting.
// POST /public/paintings/:id/comments {"user_name": "...", "content": "..."}
func (h *SocialHandler) CreateComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid painting ID"})
		return
	}

	var req struct {
		UserName string `json:"user_name" binding:"required"`
		Content  string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_name and content are required"})
		return
	}

	comment, err := h.commentService.Create(&id, req.UserName, req.Content)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Painting not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, commentJSON(comment))
}

// GetGeneralComments lists guestbook comments not tied to any painting.
// GET /public/comments
func (h *SocialHandler) GetGeneralComments(c *gin.Context) {
	comments, err := h.commentService.ListGeneral()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	list := make([]gin.H, len(comments))
	for i := range comments {
		list[i] = commentJSON(&comments[i])
	}
	c.JSON(http.StatusOK, gin.H{"comments": list, "total": len(list)})
}

// CreateGeneralComment stores a guestbook comment.
// POST /public/comments {"user_name": "...", "content": "..."}
func (h *SocialHandler) CreateGeneralComment(c *gin.Context) {
	var req struct {
		UserName string `json:"user_name" binding:"required"`
		Content  string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_name and content are required"})
		return
	}

	comment, err := h.commentService.Create(nil, req.UserName, req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, commentJSON(comment))
}
