package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/foxxcyber/receipt-feed/internal/config"
	"github.com/foxxcyber/receipt-feed/internal/database"
	"github.com/foxxcyber/receipt-feed/internal/handlers"
	"github.com/foxxcyber/receipt-feed/internal/logger"
	"github.com/foxxcyber/receipt-feed/internal/metrics"
	"github.com/foxxcyber/receipt-feed/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()

	// Connect to database
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(ctx, db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Receipt archive (S3/Garage), optional
	var archive services.Archiver
	storage, err := services.NewStorageServiceFromConfig(ctx, cfg)
	switch {
	case err != nil:
		logger.Warn("Receipt archive disabled", "error", err)
	case storage == nil:
		logger.Info("Receipt archive not configured")
	default:
		archive = storage
		logger.Info("Receipt archive enabled", "bucket", storage.GetBucketName())
	}

	// OCR for receipt photos, optional
	var ocr services.TextExtractor
	if cfg.OCREnabled {
		ocrService, err := services.NewOCRService()
		if err != nil {
			logger.Warn("Receipt scanning disabled", "error", err)
		} else {
			defer ocrService.Close()
			ocr = ocrService
			logger.Info("Receipt scanning enabled")
		}
	}

	matcher := services.NewItemMatcher(db)
	receipts := services.NewReceiptService(db, archive, matcher, ocr)

	h := handlers.New(db, cfg, receipts, storage)
	if cfg.MetricsEnabled {
		m := metrics.New()
		receipts.WithObserver(m)
		h.WithMetrics(m)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    cfg.MaxReceiptBytes,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	h.Mount(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
	}()

	logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("Server stopped", "error", err)
	}
}
