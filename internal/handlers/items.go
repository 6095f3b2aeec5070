package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/receipt-feed/internal/database"
	"github.com/foxxcyber/receipt-feed/internal/middleware"
	"github.com/foxxcyber/receipt-feed/internal/models"
)

// ListItems returns the current user's catalog items
func (h *Handler) ListItems(c *fiber.Ctx) error {
	params := &models.ItemListParams{
		UserID:        middleware.GetUserID(c),
		Search:        c.Query("search"),
		Uncategorized: c.QueryBool("uncategorized", false),
		Limit:         c.QueryInt("limit", 0),
		Offset:        c.QueryInt("offset", 0),
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	items, err := h.db.ListItems(c.Context(), params)
	if err != nil {
		return serverError(c, "failed to list items", err)
	}

	return Success(c, items)
}

// CategorizeItem assigns a single item to a category
func (h *Handler) CategorizeItem(c *fiber.Ctx) error {
	var req models.CategorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "item_id and category_id are required")
	}

	userID := middleware.GetUserID(c)
	if ok, err := h.requireCategory(c, userID, req.CategoryID); !ok {
		return err
	}

	if err := h.db.SetItemCategory(c.Context(), userID, req.ItemID, &req.CategoryID); err != nil {
		if errors.Is(err, database.ErrItemNotFound) {
			return Error(c, fiber.StatusNotFound, "item not found")
		}
		return serverError(c, "failed to categorize item", err)
	}

	return Success(c, fiber.Map{"item_id": req.ItemID, "category_id": req.CategoryID})
}

// BulkCategorizeItems assigns many items to the same category
func (h *Handler) BulkCategorizeItems(c *fiber.Ctx) error {
	var req models.BulkCategorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "item_ids (1 to 500) and category_id are required")
	}

	userID := middleware.GetUserID(c)
	if ok, err := h.requireCategory(c, userID, req.CategoryID); !ok {
		return err
	}

	updated, err := h.db.SetItemsCategory(c.Context(), userID, req.ItemIDs, &req.CategoryID)
	if err != nil {
		return serverError(c, "failed to categorize items", err)
	}

	return Success(c, fiber.Map{"updated": updated})
}

// UncategorizeItems clears the category of the listed items
func (h *Handler) UncategorizeItems(c *fiber.Ctx) error {
	var req models.UncategorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "item_ids are required")
	}

	updated, err := h.db.SetItemsCategory(c.Context(), middleware.GetUserID(c), req.ItemIDs, nil)
	if err != nil {
		return serverError(c, "failed to uncategorize items", err)
	}

	return Success(c, fiber.Map{"updated": updated})
}

// SetItemTaxable changes whether an item is taxed on every receipt it appears on
func (h *Handler) SetItemTaxable(c *fiber.Ctx) error {
	var req models.TaxableRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "item_id is required")
	}

	if err := h.db.SetItemTaxable(c.Context(), middleware.GetUserID(c), req.ItemID, req.Taxable); err != nil {
		if errors.Is(err, database.ErrItemNotFound) {
			return Error(c, fiber.StatusNotFound, "item not found")
		}
		return serverError(c, "failed to update item", err)
	}

	return Success(c, fiber.Map{"item_id": req.ItemID, "taxable": req.Taxable})
}

// requireCategory writes a 404 when the category is not the user's
func (h *Handler) requireCategory(c *fiber.Ctx, userID, categoryID int) (bool, error) {
	exists, err := h.db.CategoryExists(c.Context(), userID, categoryID)
	if err != nil {
		return false, serverError(c, "failed to check category", err)
	}
	if !exists {
		return false, Error(c, fiber.StatusNotFound, "category not found")
	}
	return true, nil
}
