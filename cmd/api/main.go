package main

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aquarela/backend/internal/config"
	"github.com/aquarela/backend/internal/handlers"
	"github.com/aquarela/backend/internal/middleware"
	"github.com/aquarela/backend/internal/models"
	"github.com/aquarela/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize services
	emailService := services.NewEmailService(cfg)
	adminService := services.NewAdminService(cfg)
	storageService := services.NewStorageService(cfg)
	s3Service, err := services.NewS3Service(cfg)
	if err != nil {
		log.Fatalf("Failed to init S3 service: %v", err)
	}
	visionService := services.NewVisionService(cfg)
	if !visionService.IsConfigured() {
		log.Println("Vision API key not set: uploads will skip AI analysis")
	}
	paintingService := services.NewPaintingService(db, cfg, s3Service, storageService, visionService)
	ratingService := services.NewRatingService(db)
	commentService := services.NewCommentService(db)
	contentService := services.NewContentService(db)

	// Optional: warm the local image cache on start
	if cfg.MediaSyncOnStart {
		go func() {
			log.Println("MediaSyncOnStart enabled: syncing missing images...")
			keys, err := s3Service.ListMediaKeys(context.Background(), "paintings/", 1000)
			if err != nil {
				log.Printf("Image sync list error: %v", err)
				return
			}
			for _, k := range keys {
				abs := filepath.Join(cfg.LocalAssetsPath, filepath.FromSlash(k))
				if _, err := os.Stat(abs); err == nil {
					continue
				}
				buf, derr := s3Service.DownloadMedia(context.Background(), k)
				if derr != nil {
					continue
				}
				if _, _, _, err := storageService.SaveStream(context.Background(), k, bytes.NewReader(buf.Bytes())); err != nil {
					continue
				}
			}
			log.Println("MediaSyncOnStart: image sync complete")
		}()
	}

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(adminService)
	publicHandler := handlers.NewPublicHandler(paintingService, ratingService, contentService)
	socialHandler := handlers.NewSocialHandler(ratingService, commentService)
	mediaHandler := handlers.NewMediaHandler(paintingService, cfg)
	adminHandler := handlers.NewAdminHandler(paintingService, commentService, contentService)
	contactHandler := handlers.NewContactHandler(emailService, paintingService, cfg)

	// Health check outside API group
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		api.POST("/contact", contactHandler.Contact)
		api.GET("/keep-alive", contactHandler.KeepAlive)

		// Public routes
		public := api.Group("/public")
		{
			public.GET("/paintings", publicHandler.ListPaintings)
			public.GET("/paintings/:id", publicHandler.GetPainting)
			public.GET("/paintings/:id/file", mediaHandler.ServePaintingFile)
			public.GET("/gallery-images/:id/file", mediaHandler.ServeGalleryImageFile)
			public.GET("/keywords", publicHandler.GetKeywords)
			public.GET("/content/:slug", publicHandler.GetContent)

			public.GET("/paintings/:id/ratings", socialHandler.GetRatings)
			public.POST("/paintings/:id/ratings", socialHandler.SubmitRating)
			public.GET("/paintings/:id/comments", socialHandler.GetComments)
			public.POST("/paintings/:id/comments", socialHandler.CreateComment)
			public.GET("/comments", socialHandler.GetGeneralComments)
			public.POST("/comments", socialHandler.CreateGeneralComment)
		}

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/admin/login", authHandler.Login)
			auth.GET("/admin/validate", authHandler.Validate)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin(cfg))
		{
			admin.GET("/paintings", adminHandler.ListPaintings)
			// Specific routes BEFORE generic :id route to avoid conflicts
			admin.PUT("/paintings/reorder", adminHandler.ReorderPaintings)
			admin.PUT("/paintings/:id", adminHandler.UpdatePainting)
			admin.DELETE("/paintings/:id", adminHandler.DeletePainting)
			admin.POST("/paintings/:id/analyze", adminHandler.AnalyzePainting)
			admin.DELETE("/gallery-images/:id", mediaHandler.DeleteGalleryImage)

			// Comment moderation
			admin.GET("/comments", adminHandler.ListComments)
			admin.PUT("/comments/:id/reply", adminHandler.ReplyComment)
			admin.PUT("/comments/:id/approve", adminHandler.ApproveComment)
			admin.DELETE("/comments/:id", adminHandler.DeleteComment)

			// Site content
			admin.GET("/content", adminHandler.ListContent)
			admin.PUT("/content/:slug", adminHandler.UpsertContent)

			// Upload routes with rate limiting
			uploadGroup := admin.Group("")
			uploadGroup.Use(middleware.UploadRateLimit(redisClient, cfg))
			{
				uploadGroup.POST("/paintings", mediaHandler.UploadPainting)
				uploadGroup.POST("/paintings/batch", mediaHandler.UploadPaintings)
				uploadGroup.POST("/paintings/:id/gallery-images", mediaHandler.UploadGalleryImage)
			}
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  120 * time.Second, // 2 min for batch uploads
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
