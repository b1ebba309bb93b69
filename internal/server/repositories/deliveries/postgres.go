// Package deliveries provides the PostgreSQL-backed repository for saved
// shipping addresses. All address columns hold ciphertext; this layer never
// sees plaintext.
package deliveries

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

// PostgresRepository implements delivery storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.Delivery) (*models.Delivery, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	query := `
		INSERT INTO deliveries (id, user_id, address, detail_address, recipient, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		d.ID, d.UserID, d.Address, d.DetailAddress, d.Recipient, d.PostalCode); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Delivery, error) {
	query := `
		SELECT id, user_id, address, detail_address, recipient, postal_code
		FROM deliveries
		WHERE id = $1
	`
	d := &models.Delivery{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.UserID, &d.Address, &d.DetailAddress, &d.Recipient, &d.PostalCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) Update(ctx context.Context, d *models.Delivery) error {
	query := `
		UPDATE deliveries
		SET address = $2, detail_address = $3, recipient = $4, postal_code = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		d.ID, d.Address, d.DetailAddress, d.Recipient, d.PostalCode)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowAffected(res)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Delivery, error) {
	query := `
		SELECT id, user_id, address, detail_address, recipient, postal_code
		FROM deliveries
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Delivery
	for rows.Next() {
		d := &models.Delivery{}
		if err := rows.Scan(&d.ID, &d.UserID, &d.Address, &d.DetailAddress, &d.Recipient, &d.PostalCode); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// CountByUser returns how many deliveries the user currently owns. Used for
// the per-user cap check before creation.
func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deliveries WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
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
