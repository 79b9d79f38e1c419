package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/pay-the-piper/internal/common"
	"github.com/Veraticus/pay-the-piper/internal/model"
)

// GetBillCategories returns all bill categories ordered by name.
func (s *SQLiteStorage) GetBillCategories(ctx context.Context) ([]model.BillCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, icon, color, description, created_at
		FROM bill_categories
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query categories: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var categories []model.BillCategory
	for rows.Next() {
		var cat model.BillCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.Color, &cat.Description, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan category: %v", common.ErrStorage, err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating categories: %v", common.ErrStorage, err)
	}

	slog.Debug("retrieved bill categories", "count", len(categories))
	return categories, nil
}

// GetBillCategoryByID returns a category by its id.
func (s *SQLiteStorage) GetBillCategoryByID(ctx context.Context, id string) (*model.BillCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, icon, color, description, created_at
		FROM bill_categories
		WHERE id = ?`

	var cat model.BillCategory
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&cat.ID, &cat.Name, &cat.Icon, &cat.Color, &cat.Description, &cat.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query category: %v", common.ErrStorage, err)
	}
	return &cat, nil
}

// CreateBillCategory appends a user-created category. Defaults are seeded
// separately and are never removed automatically.
func (s *SQLiteStorage) CreateBillCategory(ctx context.Context, category *model.BillCategory) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	if category.ID == "" {
		category.ID = model.NewID()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO bill_categories (id, name, icon, color, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query,
		category.ID, category.Name, category.Icon, category.Color,
		category.Description, category.CreatedAt); err != nil {
		return fmt.Errorf("%w: failed to create category: %v", common.ErrStorage, err)
	}

	slog.Info("created bill category", "id", category.ID, "name", category.Name)
	return nil
}

// SeedDefaultCategories persists the fixed default category set if no
// categories exist yet. Idempotent: a second call is a no-op, and user
// deletions of defaults are not re-applied once any category exists.
func (s *SQLiteStorage) SeedDefaultCategories(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bill_categories`).Scan(&count); err != nil {
		return fmt.Errorf("%w: failed to count categories: %v", common.ErrStorage, err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", common.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for _, cat := range model.DefaultBillCategories() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bill_categories (id, name, icon, color, description, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			cat.ID, cat.Name, cat.Icon, cat.Color, cat.Description, now); err != nil {
			return fmt.Errorf("%w: failed to seed category %s: %v", common.ErrStorage, cat.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit seed: %v", common.ErrStorage, err)
	}

	slog.Info("seeded default bill categories", "count", len(model.DefaultBillCategories()))
	return nil
}
