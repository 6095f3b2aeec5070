package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/receipt-feed/internal/models"
)

var (
	ErrReceiptNotFound = errors.New("receipt not found")
)

// ImportReceipt stores a parsed receipt in one transaction. Each parsed item
// is linked to the catalog item with the same name, creating it when missing.
func (db *DB) ImportReceipt(ctx context.Context, req *models.ImportReceiptRequest) (*models.ImportResult, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var receiptID int
	err = tx.QueryRow(ctx, `
		INSERT INTO receipts (user_id, source, raw_text, date)
		VALUES ($1, $2, $3, NOW())
		RETURNING id
	`, req.UserID, req.Source, req.RawText).Scan(&receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to create receipt: %w", err)
	}

	result := &models.ImportResult{
		ReceiptID: receiptID,
		Items:     make([]models.ImportedItem, 0, len(req.Items)),
	}

	for position, parsed := range req.Items {
		imported := models.ImportedItem{Name: parsed.Name, Price: parsed.Price}

		var existingTaxable bool
		err := tx.QueryRow(ctx, `
			SELECT id, taxable, category_id FROM items WHERE user_id = $1 AND name = $2
		`, req.UserID, parsed.Name).Scan(&imported.ItemID, &existingTaxable, &imported.CategoryID)

		switch {
		case errors.Is(err, pgx.ErrNoRows):
			imported.IsNew = true
			imported.Taxable = parsed.IsTaxable(false)
			err = tx.QueryRow(ctx, `
				INSERT INTO items (user_id, name, price, source, taxable)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, req.UserID, parsed.Name, parsed.Price, req.Source, imported.Taxable).Scan(&imported.ItemID)
			if err != nil {
				return nil, fmt.Errorf("failed to create item %q: %w", parsed.Name, err)
			}

		case err != nil:
			return nil, fmt.Errorf("failed to look up item %q: %w", parsed.Name, err)

		default:
			imported.Taxable = parsed.IsTaxable(existingTaxable)
			_, err = tx.Exec(ctx, `
				UPDATE items SET price = $1, source = $2, updated_at = NOW() WHERE id = $3
			`, parsed.Price, req.Source, imported.ItemID)
			if err != nil {
				return nil, fmt.Errorf("failed to update item %q: %w", parsed.Name, err)
			}
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO receipt_items (receipt_id, item_id, position, price, taxable)
			VALUES ($1, $2, $3, $4, $5)
		`, receiptID, imported.ItemID, position+1, parsed.Price, imported.Taxable)
		if err != nil {
			return nil, fmt.Errorf("failed to create receipt line: %w", err)
		}

		result.Items = append(result.Items, imported)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// SetReceiptArchiveKey records where the raw receipt was archived
func (db *DB) SetReceiptArchiveKey(ctx context.Context, receiptID int, key string) error {
	_, err := db.Pool.Exec(ctx, `UPDATE receipts SET s3_key = $1 WHERE id = $2`, key, receiptID)
	return err
}

// SetReceiptImageKey records where the scanned photo of a receipt was archived
func (db *DB) SetReceiptImageKey(ctx context.Context, receiptID int, key string) error {
	_, err := db.Pool.Exec(ctx, `UPDATE receipts SET image_key = $1 WHERE id = $2`, key, receiptID)
	return err
}

// ListReceipts returns the user's receipts, newest first, with line count and total
func (db *DB) ListReceipts(ctx context.Context, userID int) ([]models.ReceiptSummary, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT r.id, r.user_id, r.source, r.s3_key, r.date, r.created_at,
		       COUNT(ri.id) AS item_count,
		       COALESCE(SUM(ri.price), 0) AS total
		FROM receipts r
		LEFT JOIN receipt_items ri ON ri.receipt_id = r.id
		WHERE r.user_id = $1
		GROUP BY r.id
		ORDER BY r.date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := []models.ReceiptSummary{}
	for rows.Next() {
		var r models.ReceiptSummary
		err := rows.Scan(
			&r.ID, &r.UserID, &r.Source, &r.S3Key, &r.Date, &r.CreatedAt,
			&r.ItemCount, &r.Total,
		)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}

	return receipts, rows.Err()
}

// GetReceiptByID retrieves a receipt and its lines in original order
func (db *DB) GetReceiptByID(ctx context.Context, userID, id int) (*models.ReceiptDetail, error) {
	receipt := &models.ReceiptDetail{}

	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, source, s3_key, date, created_at
		FROM receipts
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&receipt.ID, &receipt.UserID, &receipt.Source, &receipt.S3Key, &receipt.Date, &receipt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}

	items, err := db.GetReceiptLines(ctx, id)
	if err != nil {
		return nil, err
	}
	receipt.Items = items

	return receipt, nil
}

// GetReceiptLines returns the lines of a receipt with item and category names
func (db *DB) GetReceiptLines(ctx context.Context, receiptID int) ([]models.ReceiptLine, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT ri.id, ri.receipt_id, ri.item_id, ri.position, i.name, ri.price, ri.taxable,
		       i.category_id, c.name AS category_name
		FROM receipt_items ri
		JOIN items i ON ri.item_id = i.id
		LEFT JOIN categories c ON i.category_id = c.id
		WHERE ri.receipt_id = $1
		ORDER BY ri.position ASC
	`, receiptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.ReceiptLine{}
	for rows.Next() {
		var line models.ReceiptLine
		err := rows.Scan(
			&line.ID, &line.ReceiptID, &line.ItemID, &line.Position, &line.Name, &line.Price, &line.Taxable,
			&line.CategoryID, &line.CategoryName,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// GetReceiptRaw returns the stored receipt text and its archive keys
func (db *DB) GetReceiptRaw(ctx context.Context, userID, id int) (*models.ReceiptRaw, error) {
	raw := &models.ReceiptRaw{}
	err := db.Pool.QueryRow(ctx, `
		SELECT raw_text, s3_key, image_key FROM receipts WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&raw.Text, &raw.S3Key, &raw.ImageKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}
	return raw, nil
}

// DeleteReceipt removes a receipt and its lines, returning every archive key
// that was set on it
func (db *DB) DeleteReceipt(ctx context.Context, userID, id int) ([]string, error) {
	var s3Key, imageKey *string
	err := db.Pool.QueryRow(ctx, `
		DELETE FROM receipts WHERE id = $1 AND user_id = $2 RETURNING s3_key, image_key
	`, id, userID).Scan(&s3Key, &imageKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}

	keys := []string{}
	for _, key := range []*string{s3Key, imageKey} {
		if key != nil && *key != "" {
			keys = append(keys, *key)
		}
	}
	return keys, nil
}
