package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aquarela/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminHandler covers painting CRUD, comment moderation and site content
// editing behind the admin token.
type AdminHandler struct {
	paintingService *services.PaintingService
	commentService  *services.CommentService
	contentService  *services.ContentService
}

func NewAdminHandler(paintingService *services.PaintingService, commentService *services.CommentService, contentService *services.ContentService) *AdminHandler {
	return &AdminHandler{
		paintingService: paintingService,
		commentService:  commentService,
		contentService:  contentService,
	}
}

// ListPaintings returns all paintings in display order, including sold and
// AI fields, for the admin grid.
// GET /admin/paintings
func (h *AdminHandler) ListPaintings(c *gin.Context) {
	paintings, err := h.paintingService.ListPaintings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve paintings"})
		return
	}

	list := make([]gin.H, len(paintings))
	for i := range paintings {
		list[i] = paintingJSON(&paintings[i])
	}
	c.JSON(http.StatusOK, gin.H{"paintings": list, "total": len(list)})
}

// UpdatePainting edits painting metadata.
// PUT /admin/paintings/:id
func (h *AdminHandler) UpdatePainting(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid painting ID"})
		return
	}

	var form services.PaintingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	painting, err := h.paintingService.UpdatePainting(id, form)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Painting not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, paintingJSON(painting))
}

// DeletePainting removes the painting and its stored images.
// DELETE /admin/paintings/:id
func (h *AdminHandler) DeletePainting(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid painting ID"})
		return
	}

	if err := h.paintingService.DeletePainting(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Painting deleted"})
}

// ReorderPaintings rewrites the manual display order.
// PUT /admin/paintings/reorder {"ids": ["...", "..."]}
func (h *AdminHandler) ReorderPaintings(c *gin.Context) {
	var req struct {
		IDs []uuid.UUID `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids are required"})
		return
	}

	if err := h.paintingService.Reorder(req.IDs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated"})
}

// AnalyzePainting re-runs the vision analysis for one painting.
// POST /admin/paintings/:id/analyze
func (h *AdminHandler) AnalyzePainting(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid painting ID"})
		return
	}

	painting, err := h.paintingService.RetryAnalysis(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Painting not found"})
			return
		}
		if errors.Is(err, services.ErrVisionNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Vision analysis is not configured"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Vision analysis failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, paintingJSON(painting))
}

// ListComments returns every comment for moderation.
// GET /admin/comments?page=1&limit=50
func (h *AdminHandler) ListComments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	comments, total, err := h.commentService.ListAll(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	list := make([]gin.H, len(comments))
	for i := range comments {
		cm := &comments[i]
		entry := commentJSON(cm)
		entry["is_approved"] = cm.IsApproved
		if cm.Painting != nil {
			entry["painting_title"] = cm.Painting.Title
		}
		list[i] = entry
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": list,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// ReplyComment sets or clears the single admin reply.
// PUT /admin/comments/:id/reply {"reply": "..."}
func (h *AdminHandler) ReplyComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var req struct {
		Reply string `json:"reply"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.commentService.SetReply(id, req.Reply)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	c.JSON(http.StatusOK, commentJSON(comment))
}

// ApproveComment toggles comment visibility.
// PUT /admin/comments/:id/approve {"is_approved": false}
func (h *AdminHandler) ApproveComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var req struct {
		IsApproved *bool `json:"is_approved" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_approved is required"})
		return
	}

	if err := h.commentService.SetApproved(id, *req.IsApproved); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment updated"})
}

// DeleteComment removes a comment permanently.
// DELETE /admin/comments/:id
func (h *AdminHandler) DeleteComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	if err := h.commentService.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// ListContent returns every site-content block for the editor.
// GET /admin/content
func (h *AdminHandler) ListContent(c *gin.Context) {
	contents, err := h.contentService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve content"})
		return
	}

	list := make([]gin.H, len(contents))
	for i, block := range contents {
		list[i] = gin.H{
			"slug":       block.Slug,
			"content":    block.Content,
			"updated_at": block.UpdatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"content": list})
}

// UpsertContent creates or replaces one content block.
// PUT /admin/content/:slug {"content": "..."}
func (h *AdminHandler) UpsertContent(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	block, err := h.contentService.Upsert(c.Param("slug"), req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"slug":       block.Slug,
		"content":    block.Content,
		"updated_at": block.UpdatedAt,
	})
}
