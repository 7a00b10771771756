package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/aquarela/backend/internal/config"
	"github.com/aquarela/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MediaHandler owns painting uploads and image file serving.
type MediaHandler struct {
	paintingService *services.PaintingService
	cfg             *config.Config
}

func NewMediaHandler(paintingService *services.PaintingService, cfg *config.Config) *MediaHandler {
	return &MediaHandler{paintingService: paintingService, cfg: cfg}
}

func parsePaintingForm(c *gin.Context) services.PaintingForm {
	form := services.PaintingForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Dimensions:  c.PostForm("dimensions"),
		Technique:   c.PostForm("technique"),
		Category:    c.PostForm("category"),
	}
	if y := c.PostForm("year"); y != "" {
		if year, err := strconv.Atoi(y); err == nil {
			form.Year = &year
		}
	}
	if s := c.PostForm("is_sold"); s != "" {
		form.IsSold, _ = strconv.ParseBool(s)
	}
	if p := c.PostForm("price"); p != "" {
		if price, err := strconv.ParseFloat(p, 64); err == nil {
			form.Price = &price
		}
	}
	return form
}

// UploadPainting creates one painting from a multipart form.
// POST /admin/paintings (multipart: file + metadata fields)
func (h *MediaHandler) UploadPainting(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.UploadMaxImageSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	form := parsePaintingForm(c)
	if form.Title == "" {
		form.Title = h.paintingService.TitleFromFilename(fileHeader.Filename)
	}

	painting, err := h.paintingService.UploadPainting(c.Request.Context(), fileHeader.Filename, data, form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, paintingJSON(painting))
}

// UploadPaintings handles a batch upload. Titles are derived from the file
// names; metadata fields apply to every painting in the batch.
// POST /admin/paintings/batch (multipart: files[] + optional shared fields)
func (h *MediaHandler) UploadPaintings(c *gin.Context) {
	maxMemory := int64(50 * 1024 * 1024)
	if err := c.Request.ParseMultipartForm(maxMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse multipart form"})
		return
	}

	files, ok := c.Request.MultipartForm.File["files[]"]
	if !ok || len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "files[] is required"})
		return
	}
	if len(files) > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "maximum 10 files per batch"})
		return
	}

	sharedForm := parsePaintingForm(c)

	type uploadResult struct {
		ID       uuid.UUID `json:"id"`
		Filename string    `json:"filename"`
		Status   string    `json:"status"`
		Error    string    `json:"error,omitempty"`
	}
	results := make([]uploadResult, len(files))

	// Bounded concurrency so a batch cannot exhaust memory.
	sem := make(chan struct{}, h.cfg.UploadMaxConcurrent)
	done := make(chan int, len(files))

	for i, fileHeader := range files {
		go func(idx int, fh *multipart.FileHeader) {
			sem <- struct{}{}
			defer func() { <-sem; done <- idx }()

			results[idx].Filename = fh.Filename

			file, err := fh.Open()
			if err != nil {
				results[idx].Status = "error"
				results[idx].Error = "failed to open file"
				return
			}
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				results[idx].Status = "error"
				results[idx].Error = "failed to read file"
				return
			}

			form := sharedForm
			form.Title = h.paintingService.TitleFromFilename(fh.Filename)

			painting, err := h.paintingService.UploadPainting(c.Request.Context(), fh.Filename, data, form)
			if err != nil {
				results[idx].Status = "error"
				results[idx].Error = err.Error()
				return
			}
			results[idx].ID = painting.ID
			results[idx].Status = "success"
		}(i, fileHeader)
	}

	for range files {
		<-done
	}

	success := 0
	for _, r := range results {
		if r.Status == "success" {
			success++
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "batch upload complete",
		"total":   len(files),
		"success": success,
		"failed":  len(files) - success,
		"results": results,
	})
}

// UploadGalleryImage attaches a secondary image to a painting.
// POST /admin/paintings/:id/gallery-images (multipart: file)
func (h *MediaHandler) UploadGalleryImage(c *gin.Context) {
	paintingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid painting ID"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.UploadMaxImageSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	image, err := h.paintingService.AddGalleryImage(c.Request.Context(), paintingID, fileHeader.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          image.ID,
		"painting_id": image.PaintingID,
		"image_url":   image.ImageURL,
	})
}

// DeleteGalleryImage removes one secondary image.
// DELETE /admin/gallery-images/:id
func (h *MediaHandler) DeleteGalleryImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gallery image ID"})
		return
	}

	if err := h.paintingService.DeleteGalleryImage(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "gallery image deleted"})
}

// ServePaintingFile serves the primary image through the local cache,
// refilling from S3 when the cached copy is missing.
// GET /public/paintings/:id/file
func (h *MediaHandler) ServePaintingFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid painting ID"})
		return
	}

	painting, err := h.paintingService.GetPainting(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "painting not found"})
		return
	}

	h.serveCachedFile(c, painting.ImageKey)
}

// ServeGalleryImageFile serves a secondary image the same way.
// GET /public/gallery-images/:id/file
func (h *MediaHandler) ServeGalleryImageFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gallery image ID"})
		return
	}

	image, err := h.paintingService.GetGalleryImage(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "gallery image not found"})
		return
	}

	h.serveCachedFile(c, image.ImageKey)
}

// serveCachedFile serves an object through the local cache. When the cache
// cannot produce a copy it redirects to a short-lived presigned bucket link.
func (h *MediaHandler) serveCachedFile(c *gin.Context, key string) {
	localPath, err := h.paintingService.GetLocalImagePath(c.Request.Context(), key)
	if err != nil {
		if url, perr := h.paintingService.PresignImageURL(c.Request.Context(), key); perr == nil {
			c.Redirect(http.StatusFound, url)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve image"})
		return
	}

	c.Header("Content-Type", services.GetImageContentType(localPath))
	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(localPath)
}
