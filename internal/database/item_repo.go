package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/foxxcyber/receipt-feed/internal/models"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

const (
	defaultItemsPage = 500
	maxItemsPage     = 1000
)

// ListItems returns the user's catalog items with their category names
func (db *DB) ListItems(ctx context.Context, params *models.ItemListParams) ([]models.Item, error) {
	limit := params.Limit
	if limit <= 0 || limit > maxItemsPage {
		limit = defaultItemsPage
	}
	offset := max(params.Offset, 0)

	builder := squirrel.
		Select(
			"i.id", "i.user_id", "i.name", "i.price", "i.source",
			"i.category_id", "c.name AS category_name",
			"i.taxable", "i.created_at", "i.updated_at",
		).
		From("items i").
		LeftJoin("categories c ON i.category_id = c.id").
		Where(squirrel.Eq{"i.user_id": params.UserID}).
		OrderBy("i.name ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		builder = builder.Where("LOWER(i.name) LIKE LOWER(?)", "%"+params.Search+"%")
	}
	if params.Uncategorized {
		builder = builder.Where(squirrel.Eq{"i.category_id": nil})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item query: %w", err)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		err := rows.Scan(
			&item.ID, &item.UserID, &item.Name, &item.Price, &item.Source,
			&item.CategoryID, &item.CategoryName,
			&item.Taxable, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// SetItemCategory assigns (or with nil clears) the category of one item
func (db *DB) SetItemCategory(ctx context.Context, userID, itemID int, categoryID *int) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE items SET category_id = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, categoryID, itemID, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// SetItemsCategory assigns (or with nil clears) the category of many items and
// returns how many rows changed
func (db *DB) SetItemsCategory(ctx context.Context, userID int, itemIDs []int, categoryID *int) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}

	result, err := db.Pool.Exec(ctx, `
		UPDATE items SET category_id = $1, updated_at = NOW()
		WHERE user_id = $2 AND id = ANY($3)
	`, categoryID, userID, itemIDs)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}

// SetItemTaxable updates the item's flag and every receipt line that references it
func (db *DB) SetItemTaxable(ctx context.Context, userID, itemID int, taxable bool) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE items SET taxable = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, taxable, itemID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	_, err = tx.Exec(ctx, `UPDATE receipt_items SET taxable = $1 WHERE item_id = $2`, taxable, itemID)
	if err != nil {
		return fmt.Errorf("failed to update receipt lines: %w", err)
	}

	return tx.Commit(ctx)
}

// FindSimilarItems finds the user's categorized items similar to name using trigram similarity
func (db *DB) FindSimilarItems(ctx context.Context, userID int, name string, limit int) ([]models.MatchResult, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT i.id, i.name, i.category_id, c.name, similarity(LOWER(i.name), LOWER($2)) AS confidence
		FROM items i
		JOIN categories c ON i.category_id = c.id
		WHERE i.user_id = $1 AND similarity(LOWER(i.name), LOWER($2)) > 0.2
		ORDER BY confidence DESC
		LIMIT $3
	`, userID, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.MatchResult
	for rows.Next() {
		var result models.MatchResult
		err := rows.Scan(&result.ItemID, &result.Name, &result.CategoryID, &result.CategoryName, &result.Confidence)
		if err != nil {
			return nil, err
		}
		result.MatchType = "fuzzy"
		results = append(results, result)
	}

	return results, rows.Err()
}
