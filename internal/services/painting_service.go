package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aquarela/backend/internal/config"
	"github.com/aquarela/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaintingForm carries the editable painting metadata.
type PaintingForm struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Year        *int     `json:"year"`
	Dimensions  string   `json:"dimensions"`
	Technique   string   `json:"technique"`
	Category    string   `json:"category"`
	IsSold      bool     `json:"is_sold"`
	Price       *float64 `json:"price"`
}

// PaintingService owns the painting lifecycle: storage upload, best-effort
// vision enrichment, record CRUD and the secondary gallery images.
type PaintingService struct {
	db      *gorm.DB
	cfg     *config.Config
	s3      *S3Service
	storage *StorageService
	vision  *VisionService

	titleCaser cases.Caser

	// Serializes display_order assignment across concurrent uploads.
	orderMu sync.Mutex
}

func NewPaintingService(db *gorm.DB, cfg *config.Config, s3 *S3Service, storage *StorageService, vision *VisionService) *PaintingService {
	return &PaintingService{
		db:         db,
		cfg:        cfg,
		s3:         s3,
		storage:    storage,
		vision:     vision,
		titleCaser: cases.Title(language.Portuguese),
	}
}

func (s *PaintingService) GetDB() *gorm.DB { return s.db }

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// validateImage checks MIME (by content), extension and size.
func (s *PaintingService) validateImage(filename string, data []byte) (string, string, error) {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", "", fmt.Errorf("invalid content type: expected image, got %s", mimeType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return "", "", fmt.Errorf("unsupported image extension: %s", ext)
	}

	if int64(len(data)) > s.cfg.UploadMaxImageSize {
		return "", "", fmt.Errorf("image too large: %d bytes (max: %d)", len(data), s.cfg.UploadMaxImageSize)
	}
	return mimeType, ext, nil
}

// TitleFromFilename derives a presentable title from an uploaded file name,
// used by batch uploads where no title was typed in.
func (s *PaintingService) TitleFromFilename(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "Sem título"
	}
	return s.titleCaser.String(name)
}

// UploadPainting stores the image, runs the best-effort vision analysis and
// inserts the painting record appended at the end of the display order.
// A vision failure is logged and the upload continues without AI fields.
func (s *PaintingService) UploadPainting(ctx context.Context, filename string, data []byte, form PaintingForm) (*models.Painting, error) {
	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" {
		return nil, errors.New("title is required")
	}
	if !models.IsValidCategory(form.Category) {
		return nil, fmt.Errorf("unknown category: %s", form.Category)
	}

	mimeType, _, err := s.validateImage(filename, data)
	if err != nil {
		return nil, err
	}

	key := s.storage.BuildObjectKey("paintings", filename)
	if err := s.s3.UploadMedia(ctx, key, bytes.NewReader(data), mimeType); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	// Warm the local serving cache; S3 stays the source of truth.
	if s.storage != nil {
		if _, _, _, err := s.storage.SaveStream(ctx, key, bytes.NewReader(data)); err != nil {
			log.Printf("Warning: failed to cache image locally: %v", err)
		}
	}

	publicURL := s.s3.PublicURL(key)

	painting := &models.Painting{
		Title:       form.Title,
		Description: form.Description,
		Year:        form.Year,
		Dimensions:  form.Dimensions,
		Technique:   form.Technique,
		Category:    form.Category,
		IsSold:      form.IsSold,
		Price:       form.Price,
		ImageURL:    publicURL,
		ImageKey:    key,
	}

	// Best-effort enrichment; never blocks the upload.
	if s.vision != nil && s.vision.IsConfigured() {
		if analysis, err := s.vision.AnalyzePainting(ctx, publicURL); err != nil {
			log.Printf("Vision analysis failed for %s: %v", filename, err)
		} else {
			applyAnalysis(painting, analysis)
		}
	}

	// Count and insert under one lock so two concurrent uploads cannot read
	// the same count and land on the same display_order.
	s.orderMu.Lock()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Painting{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count paintings: %w", err)
		}
		painting.DisplayOrder = int(count)
		return tx.Create(painting).Error
	})
	s.orderMu.Unlock()
	if err != nil {
		// Best-effort storage cleanup when the record insert fails.
		_ = s.s3.DeleteMedia(ctx, key)
		return nil, fmt.Errorf("failed to create painting record: %w", err)
	}

	return painting, nil
}

func applyAnalysis(p *models.Painting, a *PaintingAnalysis) {
	p.AIDescription = &a.Description
	p.AIKeywords = datatypes.JSONSlice[string](a.Keywords)
	p.AIMood = &a.Mood
	p.AIColors = datatypes.JSONSlice[string](a.Colors)
}

// ListPaintings returns every painting in display order with its gallery
// images preloaded creation-time ascending.
func (s *PaintingService) ListPaintings() ([]models.Painting, error) {
	var paintings []models.Painting
	err := s.db.
		Preload("GalleryImages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("display_order ASC").
		Find(&paintings).Error
	return paintings, err
}

// GetPainting returns one painting with gallery images.
func (s *PaintingService) GetPainting(id uuid.UUID) (*models.Painting, error) {
	var painting models.Painting
	err := s.db.
		Preload("GalleryImages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&painting, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &painting, nil
}

// CountPaintings is the keep-alive ping query.
func (s *PaintingService) CountPaintings() (int64, error) {
	var count int64
	err := s.db.Model(&models.Painting{}).Count(&count).Error
	return count, err
}

// UpdatePainting applies a metadata edit.
func (s *PaintingService) UpdatePainting(id uuid.UUID, form PaintingForm) (*models.Painting, error) {
	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" {
		return nil, errors.New("title is required")
	}
	if !models.IsValidCategory(form.Category) {
		return nil, fmt.Errorf("unknown category: %s", form.Category)
	}

	updates := map[string]interface{}{
		"title":       form.Title,
		"description": form.Description,
		"year":        form.Year,
		"dimensions":  form.Dimensions,
		"technique":   form.Technique,
		"category":    form.Category,
		"is_sold":     form.IsSold,
		"price":       form.Price,
	}
	result := s.db.Model(&models.Painting{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return s.GetPainting(id)
}

// RetryAnalysis re-runs the vision call for an existing painting and
// overwrites the ai_* fields on success. Unlike upload-time enrichment this
// is user-triggered, so failures surface to the caller.
func (s *PaintingService) RetryAnalysis(ctx context.Context, id uuid.UUID) (*models.Painting, error) {
	painting, err := s.GetPainting(id)
	if err != nil {
		return nil, err
	}

	analysis, err := s.vision.AnalyzePainting(ctx, painting.ImageURL)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"ai_description": analysis.Description,
		"ai_keywords":    datatypes.JSONSlice[string](analysis.Keywords),
		"ai_mood":        analysis.Mood,
		"ai_colors":      datatypes.JSONSlice[string](analysis.Colors),
	}
	if err := s.db.Model(&models.Painting{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetPainting(id)
}

// DeletePainting removes the record, its gallery images and, best-effort,
// the stored objects. An object that fails to delete is logged and accepted
// as a possible orphan.
func (s *PaintingService) DeletePainting(ctx context.Context, id uuid.UUID) error {
	painting, err := s.GetPainting(id)
	if err != nil {
		return fmt.Errorf("painting not found: %w", err)
	}

	if painting.ImageKey != "" {
		if err := s.s3.DeleteMedia(ctx, painting.ImageKey); err != nil {
			log.Printf("Warning: failed to delete object %s: %v", painting.ImageKey, err)
		}
		if s.storage != nil {
			_ = s.storage.Remove(painting.ImageKey)
		}
	}
	for _, g := range painting.GalleryImages {
		if g.ImageKey == "" {
			continue
		}
		if err := s.s3.DeleteMedia(ctx, g.ImageKey); err != nil {
			log.Printf("Warning: failed to delete object %s: %v", g.ImageKey, err)
		}
		if s.storage != nil {
			_ = s.storage.Remove(g.ImageKey)
		}
	}

	if err := s.db.Where("painting_id = ?", id).Delete(&models.GalleryImage{}).Error; err != nil {
		return fmt.Errorf("failed to delete gallery images: %w", err)
	}
	if err := s.db.Delete(&models.Painting{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete painting record: %w", err)
	}
	return nil
}

// Reorder rewrites display_order following the given id sequence.
func (s *PaintingService) Reorder(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return errors.New("ids are required")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			result := tx.Model(&models.Painting{}).Where("id = ?", id).Update("display_order", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("painting %s not found", id)
			}
		}
		return nil
	})
}

// AddGalleryImage attaches a secondary image to a painting.
func (s *PaintingService) AddGalleryImage(ctx context.Context, paintingID uuid.UUID, filename string, data []byte) (*models.GalleryImage, error) {
	if _, err := s.GetPainting(paintingID); err != nil {
		return nil, fmt.Errorf("painting not found: %w", err)
	}

	mimeType, _, err := s.validateImage(filename, data)
	if err != nil {
		return nil, err
	}

	key := s.storage.BuildObjectKey("paintings/gallery", filename)
	if err := s.s3.UploadMedia(ctx, key, bytes.NewReader(data), mimeType); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}
	if s.storage != nil {
		if _, _, _, err := s.storage.SaveStream(ctx, key, bytes.NewReader(data)); err != nil {
			log.Printf("Warning: failed to cache image locally: %v", err)
		}
	}

	image := &models.GalleryImage{
		PaintingID: paintingID,
		ImageURL:   s.s3.PublicURL(key),
		ImageKey:   key,
	}
	if err := s.db.Create(image).Error; err != nil {
		_ = s.s3.DeleteMedia(ctx, key)
		return nil, fmt.Errorf("failed to create gallery image record: %w", err)
	}
	return image, nil
}

// DeleteGalleryImage removes one secondary image independently of its painting.
func (s *PaintingService) DeleteGalleryImage(ctx context.Context, id uuid.UUID) error {
	var image models.GalleryImage
	if err := s.db.First(&image, "id = ?", id).Error; err != nil {
		return fmt.Errorf("gallery image not found: %w", err)
	}

	if image.ImageKey != "" {
		if err := s.s3.DeleteMedia(ctx, image.ImageKey); err != nil {
			log.Printf("Warning: failed to delete object %s: %v", image.ImageKey, err)
		}
		if s.storage != nil {
			_ = s.storage.Remove(image.ImageKey)
		}
	}
	return s.db.Delete(&image).Error
}

// GetGalleryImage returns one secondary image.
func (s *PaintingService) GetGalleryImage(id uuid.UUID) (*models.GalleryImage, error) {
	var image models.GalleryImage
	if err := s.db.First(&image, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// GetLocalImagePath returns the local cache path for an object key,
// refilling the cache from S3 when missing.
func (s *PaintingService) GetLocalImagePath(ctx context.Context, key string) (string, error) {
	localPath := s.storage.LocalPath(key)
	if _, err := os.Stat(localPath); err == nil {
		return localPath, nil
	}

	data, err := s.s3.DownloadMedia(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to download from S3: %w", err)
	}
	absPath, _, _, err := s.storage.SaveStream(ctx, key, bytes.NewReader(data.Bytes()))
	if err != nil {
		return "", fmt.Errorf("failed to cache image locally: %w", err)
	}
	return absPath, nil
}

// PresignImageURL returns a short-lived direct bucket link, the fallback when
// the local cache cannot produce a copy.
func (s *PaintingService) PresignImageURL(ctx context.Context, key string) (string, error) {
	return s.s3.PresignMediaGet(ctx, key, 15*time.Minute)
}

// GetImageContentType returns the content type based on file extension
func GetImageContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".webp":
		return "image/webp"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
