// Package bills provides the PostgreSQL-backed repository for checkout
// transactions. The delivery snapshot columns hold ciphertext.
package bills

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

// PostgresRepository implements bill storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, b *models.Bill) (*models.Bill, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	query := `
		INSERT INTO bills (id, user_id, address, detail_address, recipient, postal_code, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		b.ID, b.UserID, b.Address, b.DetailAddress, b.Recipient, b.PostalCode, b.IsPaid,
	).Scan(&b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Bill, error) {
	query := `
		SELECT id, user_id, address, detail_address, recipient, postal_code, is_paid, created_at
		FROM bills
		WHERE id = $1
	`
	b := &models.Bill{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.Address, &b.DetailAddress, &b.Recipient, &b.PostalCode, &b.IsPaid, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Bill, error) {
	query := `
		SELECT id, user_id, address, detail_address, recipient, postal_code, is_paid, created_at
		FROM bills
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Bill
	for rows.Next() {
		b := &models.Bill{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.Address, &b.DetailAddress, &b.Recipient,
			&b.PostalCode, &b.IsPaid, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) SetPaid(ctx context.Context, id string, paid bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bills SET is_paid = $2 WHERE id = $1`, id, paid)
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
