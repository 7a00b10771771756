package handlers

import (
	"net/http"
	"strings"

	"github.com/aquarela/backend/internal/gallery"
	"github.com/aquarela/backend/internal/models"
	"github.com/aquarela/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PublicHandler struct {
	paintingService *services.PaintingService
	ratingService   *services.RatingService
	contentService  *services.ContentService
}

func NewPublicHandler(paintingService *services.PaintingService, ratingService *services.RatingService, contentService *services.ContentService) *PublicHandler {
	return &PublicHandler{
		paintingService: paintingService,
		ratingService:   ratingService,
		contentService:  contentService,
	}
}

// buildEngine reads the full painting list and applies the filter/sort
// parameters shared by the list and detail endpoints.
func (h *PublicHandler) buildEngine(c *gin.Context) (*gallery.Engine, error) {
	paintings, err := h.paintingService.ListPaintings()
	if err != nil {
		return nil, err
	}

	engine := gallery.NewEngine(paintings)
	engine.SetCategory(c.Query("category"))
	if raw := c.Query("keywords"); raw != "" {
		var keywords []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		engine.SetKeywords(keywords)
	}
	engine.SetSort(gallery.ParseSortMode(c.Query("sort")))
	return engine, nil
}

func paintingJSON(p *models.Painting) gin.H {
	galleryImages := make([]gin.H, len(p.GalleryImages))
	for i, g := range p.GalleryImages {
		galleryImages[i] = gin.H{
			"id":        g.ID,
			"image_url": g.ImageURL,
		}
	}
	return gin.H{
		"id":             p.ID,
		"title":          p.Title,
		"description":    p.Description,
		"year":           p.Year,
		"dimensions":     p.Dimensions,
		"technique":      p.Technique,
		"category":       p.Category,
		"is_sold":        p.IsSold,
		"price":          p.Price,
		"image_url":      p.ImageURL,
		"ai_description": p.AIDescription,
		"ai_keywords":    p.AIKeywords,
		"ai_mood":        p.AIMood,
		"ai_colors":      p.AIColors,
		"display_order":  p.DisplayOrder,
		"created_at":     p.CreatedAt,
		"gallery_images": galleryImages,
	}
}

// ListPaintings returns the filtered, sorted gallery view together with the
// keyword vocabulary for the filter bar.
// GET /public/paintings?category=&keywords=a,b&sort=year-desc
func (h *PublicHandler) ListPaintings(c *gin.Context) {
	engine, err := h.buildEngine(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve paintings"})
		return
	}

	view := engine.View()
	list := make([]gin.H, len(view))
	for i := range view {
		list[i] = paintingJSON(&view[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"paintings": list,
		"total":     len(list),
		"keywords":  engine.Keywords(),
	})
}

// GetPainting returns one painting plus its neighbors inside the same
// filtered view, so the client viewer can page without re-fetching the list.
// GET /public/paintings/:id?category=&keywords=&sort=
func (h *PublicHandler) GetPainting(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid painting ID"})
		return
	}

	painting, err := h.paintingService.GetPainting(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Painting not found"})
		return
	}

	engine, err := h.buildEngine(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve paintings"})
		return
	}

	var prevID, nextID *uuid.UUID
	prev, next := engine.Neighbors(id)
	if prev != nil {
		prevID = &prev.ID
	}
	if next != nil {
		nextID = &next.ID
	}

	aggregate, err := h.ratingService.GetAggregate(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ratings"})
		return
	}

	body := paintingJSON(painting)
	body["prev_id"] = prevID
	body["next_id"] = nextID
	body["rating"] = aggregate
	c.JSON(http.StatusOK, body)
}

// GetKeywords returns the AI-keyword vocabulary of the whole collection.
// GET /public/keywords
func (h *PublicHandler) GetKeywords(c *gin.Context) {
	paintings, err := h.paintingService.ListPaintings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve paintings"})
		return
	}

	engine := gallery.NewEngine(paintings)
	c.JSON(http.StatusOK, gin.H{"keywords": engine.Keywords()})
}

// GetContent returns one editable site-content block.
// GET /public/content/:slug
func (h *PublicHandler) GetContent(c *gin.Context) {
	content, err := h.contentService.Get(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"slug":       content.Slug,
		"content":    content.Content,
		"updated_at": content.UpdatedAt,
	})
}
