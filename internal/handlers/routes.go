package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/foxxcyber/receipt-feed/internal/middleware"
)

// Mount registers every API route on app
func (h *Handler) Mount(app *fiber.App) {
	app.Get("/health", h.Health)
	if h.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))
	}

	api := app.Group("/api")
	authRequired := middleware.AuthRequired(h.cfg)

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", authRequired, h.GetCurrentUser)

	// Parsing
	api.Post("/parse/preview", h.PreviewReceipt)
	api.Post("/parse", authRequired, h.ParseReceipt)

	// Receipt routes (authenticated)
	receipts := api.Group("/receipts", authRequired)
	receipts.Post("/scan", h.ScanReceipt)
	receipts.Get("/", h.ListReceipts)
	receipts.Get("/:id", h.GetReceipt)
	receipts.Get("/:id/raw", h.GetReceiptRaw)
	receipts.Delete("/:id", h.DeleteReceipt)

	// Category routes (authenticated)
	categories := api.Group("/categories", authRequired)
	categories.Get("/", h.ListCategories)
	categories.Post("/", h.CreateCategory)
	categories.Delete("/:id", h.DeleteCategory)

	// Item routes (authenticated)
	items := api.Group("/items", authRequired)
	items.Get("/", h.ListItems)
	items.Put("/categorize", h.CategorizeItem)
	items.Post("/categorize", h.BulkCategorizeItems)
	items.Post("/uncategorize", h.UncategorizeItems)
	items.Post("/taxable", h.SetItemTaxable)
}

// Health reports whether the database answers
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
