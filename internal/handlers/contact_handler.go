package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aquarela/backend/internal/config"
	"github.com/aquarela/backend/internal/services"
	"github.com/aquarela/backend/pkg/validation"
	"github.com/gin-gonic/gin"
)

// ContactHandler serves the contact form relay and the keep-alive ping used
// by the external cron to keep the database from idling out.
type ContactHandler struct {
	emailService    *services.EmailService
	paintingService *services.PaintingService
	cfg             *config.Config
}

func NewContactHandler(emailService *services.EmailService, paintingService *services.PaintingService, cfg *config.Config) *ContactHandler {
	return &ContactHandler{
		emailService:    emailService,
		paintingService: paintingService,
		cfg:             cfg,
	}
}

// Contact relays a visitor message to the site owner by email.
// POST /contact {"name": "...", "email": "...", "message": "..."}
func (h *ContactHandler) Contact(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
		return
	}

	req.Name = strings.TrimSpace(validation.SanitizeString(req.Name))
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(validation.SanitizeString(req.Message))

	if req.Name == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
		return
	}
	if !validation.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}

	if err := h.emailService.SendContactMessage(req.Name, req.Email, req.Message); err != nil {
		log.Printf("Failed to send contact email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email enviado com sucesso!"})
}

// KeepAlive runs a trivial query so the hosted database is not suspended for
// inactivity. Guarded by the cron bearer secret.
// GET /keep-alive
func (h *ContactHandler) KeepAlive(c *gin.Context) {
	header := c.GetHeader("Authorization")
	expected := "Bearer " + h.cfg.CronSecret
	if header != expected {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	count, err := h.paintingService.CountPaintings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Database unreachable",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Database is alive",
		"paintings_count": count,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}
