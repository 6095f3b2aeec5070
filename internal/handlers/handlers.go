package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/receipt-feed/internal/config"
	"github.com/foxxcyber/receipt-feed/internal/database"
	"github.com/foxxcyber/receipt-feed/internal/logger"
	"github.com/foxxcyber/receipt-feed/internal/metrics"
	"github.com/foxxcyber/receipt-feed/internal/services"
)

// Handler holds all handler dependencies
type Handler struct {
	db       *database.DB
	cfg      *config.Config
	receipts *services.ReceiptService
	totals   *services.TotalsCalculator
	storage  *services.StorageService
	metrics  *metrics.Metrics
}

// New creates a new Handler instance. storage may be nil.
func New(db *database.DB, cfg *config.Config, receipts *services.ReceiptService, storage *services.StorageService) *Handler {
	return &Handler{
		db:       db,
		cfg:      cfg,
		receipts: receipts,
		totals:   services.NewTotalsCalculator(cfg.TaxRate),
		storage:  storage,
	}
}

// WithMetrics exposes m on /metrics
func (h *Handler) WithMetrics(m *metrics.Metrics) *Handler {
	h.metrics = m
	return h
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	if code >= fiber.StatusInternalServerError {
		logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return Error(c, code, message)
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Created returns a 201 with the standard envelope
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// serverError logs the cause and hides it from the client
func serverError(c *fiber.Ctx, message string, err error) error {
	logger.Error(message, "method", c.Method(), "path", c.Path(), "error", err)
	return Error(c, fiber.StatusInternalServerError, message)
}

// parseID reads a positive integer route parameter
func parseID(c *fiber.Ctx, name string) (int, bool) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
