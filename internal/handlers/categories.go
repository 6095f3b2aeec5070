package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/receipt-feed/internal/database"
	"github.com/foxxcyber/receipt-feed/internal/middleware"
	"github.com/foxxcyber/receipt-feed/internal/models"
)

// ListCategories returns the current user's categories
func (h *Handler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.db.ListCategories(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return serverError(c, "failed to list categories", err)
	}

	return Success(c, categories)
}

// CreateCategory adds a category for the current user
func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	var req models.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(&req); err != nil {
		if _, tag := firstInvalid(err); tag == "required" {
			return Error(c, fiber.StatusBadRequest, "name is required")
		}
		return Error(c, fiber.StatusBadRequest, "name is too long")
	}

	category, err := h.db.CreateCategory(c.Context(), middleware.GetUserID(c), req.Name)
	if err != nil {
		if errors.Is(err, database.ErrCategoryExists) {
			return Error(c, fiber.StatusConflict, "category already exists")
		}
		return serverError(c, "failed to create category", err)
	}

	return Created(c, category)
}

// DeleteCategory removes a category no item references
func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return Error(c, fiber.StatusBadRequest, "invalid category ID")
	}

	err := h.db.DeleteCategory(c.Context(), middleware.GetUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrCategoryInUse):
			return Error(c, fiber.StatusConflict, "category has items assigned")
		case errors.Is(err, database.ErrCategoryNotFound):
			return Error(c, fiber.StatusNotFound, "category not found")
		}
		return serverError(c, "failed to delete category", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
