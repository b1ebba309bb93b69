// Package orderitems provides the PostgreSQL-backed repository for the
// product lines of a bill. Price and amount are order-time snapshots and are
// never updated here; only the status reference moves.
package orderitems

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

// PostgresRepository implements order item storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	query := `
		INSERT INTO order_items (id, bill_id, product_id, seller_id, name, price, amount, status_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := r.db.ExecContext(ctx, query,
		item.ID, item.BillID, item.ProductID, item.SellerID,
		item.Name, item.Price, item.Amount, item.StatusID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.OrderItem, error) {
	query := `
		SELECT id, bill_id, product_id, seller_id, name, price, amount, status_id
		FROM order_items
		WHERE id = $1
	`
	item := &models.OrderItem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.BillID, &item.ProductID, &item.SellerID,
		&item.Name, &item.Price, &item.Amount, &item.StatusID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) ListByBill(ctx context.Context, billID string) ([]*models.OrderItem, error) {
	query := `
		SELECT id, bill_id, product_id, seller_id, name, price, amount, status_id
		FROM order_items
		WHERE bill_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, billID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.BillID, &item.ProductID, &item.SellerID,
			&item.Name, &item.Price, &item.Amount, &item.StatusID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, statusID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE order_items SET status_id = $2 WHERE id = $1`, id, statusID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
