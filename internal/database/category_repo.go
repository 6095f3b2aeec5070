package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/foxxcyber/receipt-feed/internal/models"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryInUse    = errors.New("category is in use")
)

// ListCategories returns the user's categories with their item counts
func (db *DB) ListCategories(ctx context.Context, userID int) ([]models.Category, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT c.id, c.user_id, c.name, c.created_at,
		       (SELECT COUNT(*) FROM items i WHERE i.category_id = c.id) AS item_count
		FROM categories c
		WHERE c.user_id = $1
		ORDER BY c.name ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.ItemCount); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// CreateCategory adds a category; names are unique per user
func (db *DB) CreateCategory(ctx context.Context, userID int, name string) (*models.Category, error) {
	c := &models.Category{}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO categories (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name, created_at
	`, userID, name).Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "categories_user_name_key") {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	return c, nil
}

// CategoryExists checks that the category belongs to the user
func (db *DB) CategoryExists(ctx context.Context, userID, categoryID int) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND user_id = $2)",
		categoryID, userID,
	).Scan(&exists)
	return exists, err
}

// DeleteCategory removes a category that no item references
func (db *DB) DeleteCategory(ctx context.Context, userID, categoryID int) error {
	var inUse int
	err := db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM items WHERE category_id = $1 AND user_id = $2",
		categoryID, userID,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if inUse > 0 {
		return ErrCategoryInUse
	}

	result, err := db.Pool.Exec(ctx,
		"DELETE FROM categories WHERE id = $1 AND user_id = $2",
		categoryID, userID,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
