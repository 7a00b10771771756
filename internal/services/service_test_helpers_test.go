package services

import (
	"testing"

	"github.com/aquarela/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func seedPainting(t *testing.T, db *gorm.DB, title string) *models.Painting {
	t.Helper()
	p := &models.Painting{
		Title:    title,
		Category: models.Categories[0],
		ImageURL: "https://cdn.example/" + title + ".jpg",
		ImageKey: "paintings/" + title + ".jpg",
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to seed painting: %v", err)
	}
	return p
}
