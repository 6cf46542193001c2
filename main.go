package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"pasteleria-backend/internal/auth"
	"pasteleria-backend/internal/gallery"
	"pasteleria-backend/internal/middleware"
	"pasteleria-backend/internal/providers/cloudinary"
	"pasteleria-backend/internal/providers/docstore"
	"pasteleria-backend/internal/site"
	"pasteleria-backend/internal/thumbnail"
	"pasteleria-backend/internal/upload"
)

func main() {
	// Load .env file for local development (ignored in Docker)
	if os.Getenv("DOCKER_ENV") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	e := echo.New()
	if err := initialize(e); err != nil {
		log.Fatal(err)
	}

	// Start server
	log.Println("Starting gallery server on :8080")
	log.Fatal(http.ListenAndServe(":8080", e))
}

func initialize(e *echo.Echo) error {
	// Initialize provider services
	mediaService := cloudinary.NewService()
	docService := docstore.NewService()

	// Initialize auth service
	authService := auth.NewService()
	authHandler := auth.NewHandler(authService)
	authHandler.RegisterRoutes(e)

	// Initialize gallery service and load the initial snapshot. A failed
	// load is not fatal; POST /gallery/refresh retries it.
	galleryService := gallery.NewService(docService, mediaService)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := galleryService.Load(ctx); err != nil {
		log.Printf("initial gallery load failed: %v", err)
	}
	cancel()
	galleryHandler := gallery.NewHandler(galleryService, authService)
	galleryHandler.RegisterRoutes(e)

	// Initialize upload service with its staging area
	staging, err := upload.NewStaging(os.Getenv("STAGING_DIR"))
	if err != nil {
		return err
	}
	uploadService := upload.NewService(mediaService, galleryService, staging)
	uploadHandler := upload.NewHandler(uploadService, authService)
	uploadHandler.RegisterRoutes(e)

	// Initialize thumbnail proxy handler
	thumbnailHandler := thumbnail.NewHandler(galleryService, mediaService)
	thumbnailHandler.RegisterRoutes(e)

	// Initialize site service from its yaml config
	siteConfigPath := os.Getenv("SITE_CONFIG")
	if siteConfigPath == "" {
		siteConfigPath = "site.yaml"
	}
	siteConfig, err := site.LoadConfig(siteConfigPath)
	if err != nil {
		return err
	}
	siteService := site.NewService(siteConfig, mediaService, galleryService)
	siteHandler := site.NewHandler(siteService)
	siteHandler.RegisterRoutes(e)

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.CORSConfig())

	return nil
}
