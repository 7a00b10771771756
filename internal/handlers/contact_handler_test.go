package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aquarela/backend/internal/config"
	"github.com/aquarela/backend/internal/models"
	"github.com/aquarela/backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func contactTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
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

	cfg := &config.Config{CronSecret: "segredo-cron"}
	paintingService := services.NewPaintingService(db, cfg, nil, nil, nil)
	h := NewContactHandler(nil, paintingService, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/contact", h.Contact)
	router.GET("/api/v1/keep-alive", h.KeepAlive)
	return router, db
}

func TestKeepAliveReportsCountAndTimestamp(t *testing.T) {
	router, db := contactTestRouter(t)
	for _, title := range []string{"Mar Alto", "Ria ao Sol"} {
		painting := models.Painting{Title: title, Category: models.Categories[0]}
		if err := db.Create(&painting).Error; err != nil {
			t.Fatalf("failed to seed painting: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/keep-alive", nil)
	req.Header.Set("Authorization", "Bearer segredo-cron")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success        bool   `json:"success"`
		PaintingsCount int64  `json:"paintings_count"`
		Timestamp      string `json:"timestamp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success true")
	}
	if resp.PaintingsCount != 2 {
		t.Errorf("paintings_count = %d, want 2", resp.PaintingsCount)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC 3339: %v", resp.Timestamp, err)
	}
}

func TestKeepAliveRejectsBadSecret(t *testing.T) {
	router, _ := contactTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/keep-alive", nil)
	req.Header.Set("Authorization", "Bearer errado")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rec.Code)
	}
}

func TestContactRequiresAllFields(t *testing.T) {
	router, _ := contactTestRouter(t)

	bodies := []string{
		`{"name":"Maria","email":"maria@example.com"}`,
		`{"name":"   ","email":"maria@example.com","message":"Olá"}`,
		`{"name":"Maria","email":"não-é-email","message":"Olá"}`,
	}
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: got status %d, want 400", body, rec.Code)
		}
	}
}
