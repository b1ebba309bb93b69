// Package cartitems provides the PostgreSQL-backed repository for pending
// purchase lines. Lines are consumed (deleted) when a checkout succeeds.
package cartitems

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/oullim/market/internal/common"
	"github.com/oullim/market/internal/dbx"
	"github.com/oullim/market/internal/server/models"
)

// PostgresRepository implements cart storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	query := `
		INSERT INTO cart_items (id, user_id, product_id, amount)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, item.ID, item.UserID, item.ProductID, item.Amount); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.CartItem, error) {
	query := `SELECT id, user_id, product_id, amount FROM cart_items WHERE id = $1`
	item := &models.CartItem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.UserID, &item.ProductID, &item.Amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.CartItem, error) {
	query := `SELECT id, user_id, product_id, amount FROM cart_items WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.CartItem
	for rows.Next() {
		item := &models.CartItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Amount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateAmount(ctx context.Context, id string, amount int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE cart_items SET amount = $2 WHERE id = $1`, id, amount)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

// DeleteByUser clears the whole cart. Zero rows is fine here: checking out an
// explicit item list does not require a populated cart.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func oneRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
