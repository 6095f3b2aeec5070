package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/receipt-feed/internal/database"
	"github.com/foxxcyber/receipt-feed/internal/logger"
	"github.com/foxxcyber/receipt-feed/internal/middleware"
)

const rawURLExpiry = 15 * time.Minute

// ListReceipts returns the current user's receipts
func (h *Handler) ListReceipts(c *fiber.Ctx) error {
	receipts, err := h.db.ListReceipts(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return serverError(c, "failed to list receipts", err)
	}

	return Success(c, receipts)
}

// GetReceipt returns a receipt with its lines and per-category totals
func (h *Handler) GetReceipt(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return Error(c, fiber.StatusBadRequest, "invalid receipt ID")
	}

	receipt, err := h.db.GetReceiptByID(c.Context(), middleware.GetUserID(c), id)
	if err != nil {
		if errors.Is(err, database.ErrReceiptNotFound) {
			return Error(c, fiber.StatusNotFound, "receipt not found")
		}
		return serverError(c, "failed to get receipt", err)
	}

	receipt.Totals = h.totals.Compute(receipt.Items)

	return Success(c, receipt)
}

// GetReceiptRaw returns the text the receipt was parsed from, with links to
// the archived text and the scanned photo when storage holds them
func (h *Handler) GetReceiptRaw(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return Error(c, fiber.StatusBadRequest, "invalid receipt ID")
	}

	raw, err := h.db.GetReceiptRaw(c.Context(), middleware.GetUserID(c), id)
	if err != nil {
		if errors.Is(err, database.ErrReceiptNotFound) {
			return Error(c, fiber.StatusNotFound, "receipt not found")
		}
		return serverError(c, "failed to get receipt", err)
	}

	response := fiber.Map{"text": ""}
	if raw.Text != nil {
		response["text"] = *raw.Text
	}

	if h.storage != nil {
		if url, ok := h.presign(c, id, raw.S3Key); ok {
			response["url"] = url
		}
		if url, ok := h.presign(c, id, raw.ImageKey); ok {
			response["image_url"] = url
		}
	}

	return Success(c, response)
}

func (h *Handler) presign(c *fiber.Ctx, receiptID int, key *string) (string, bool) {
	if key == nil || *key == "" {
		return "", false
	}
	url, err := h.storage.GetPresignedURL(c.Context(), *key, rawURLExpiry)
	if err != nil {
		logger.Warn("Failed to presign receipt archive", "receipt_id", receiptID, "key", *key, "error", err)
		return "", false
	}
	return url, true
}

// DeleteReceipt removes a receipt and its archived text and photo. Catalog items are kept.
func (h *Handler) DeleteReceipt(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return Error(c, fiber.StatusBadRequest, "invalid receipt ID")
	}

	keys, err := h.db.DeleteReceipt(c.Context(), middleware.GetUserID(c), id)
	if err != nil {
		if errors.Is(err, database.ErrReceiptNotFound) {
			return Error(c, fiber.StatusNotFound, "receipt not found")
		}
		return serverError(c, "failed to delete receipt", err)
	}

	if h.storage != nil {
		for _, key := range keys {
			if err := h.storage.Delete(c.Context(), key); err != nil {
				logger.Warn("Failed to delete receipt archive", "receipt_id", id, "key", key, "error", err)
			}
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}
