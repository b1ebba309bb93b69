// Package sellers provides the PostgreSQL-backed repository for merchant
// registrations. Bank columns hold ciphertext. The one-seller-per-user rule
// is backed by a unique index on user_id, so the check-then-insert race two
// concurrent applications could win is closed at the database.
package sellers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oullim/market/internal/common"
	"github.com/oullim/market/internal/dbx"
	"github.com/oullim/market/internal/server/models"
)

const pgUniqueViolation = "23505"

// PostgresRepository implements seller storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a seller row. A second row for the same user violates the
// unique index and is reported as common.ErrDuplicateSeller.
func (r *PostgresRepository) Create(ctx context.Context, s *models.Seller) (*models.Seller, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `
		INSERT INTO sellers (id, user_id, company_name, business_number, bank_name, account_number, owner_name, account_holder, contact_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.CompanyName, s.BusinessNumber, s.BankName,
		s.AccountNumber, s.OwnerName, s.AccountHolder, s.ContactNumber); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrDuplicateSeller
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Seller, error) {
	query := `
		SELECT id, user_id, company_name, business_number, bank_name, account_number, owner_name, account_holder, contact_number
		FROM sellers
		WHERE user_id = $1
	`
	s := &models.Seller{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.CompanyName, &s.BusinessNumber, &s.BankName,
		&s.AccountNumber, &s.OwnerName, &s.AccountHolder, &s.ContactNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Update(ctx context.Context, s *models.Seller) error {
	query := `
		UPDATE sellers
		SET company_name = $2, business_number = $3, bank_name = $4, account_number = $5, owner_name = $6, account_holder = $7, contact_number = $8
		WHERE user_id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		s.UserID, s.CompanyName, s.BusinessNumber, s.BankName,
		s.AccountNumber, s.OwnerName, s.AccountHolder, s.ContactNumber)
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

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sellers WHERE user_id = $1`, userID)
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
