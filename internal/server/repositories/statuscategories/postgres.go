// Package statuscategories provides read access to the ordered catalog of
// order-lifecycle states. The catalog is seeded by a migration and treated as
// read-only at runtime; ids are ordinals, lower meaning an earlier stage.
package statuscategories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oullim/market/internal/common"
	"github.com/oullim/market/internal/dbx"
	"github.com/oullim/market/internal/server/models"
)

// PostgresRepository implements catalog reads over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.StatusCategory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM status_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.StatusCategory
	for rows.Next() {
		c := &models.StatusCategory{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.StatusCategory, error) {
	c := &models.StatusCategory{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM status_categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// MinID returns the lowest ordinal in the catalog, i.e. the initial state
// assigned to a freshly created order item.
func (r *PostgresRepository) MinID(ctx context.Context) (int64, error) {
	var id sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MIN(id) FROM status_categories`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	if !id.Valid {
		return 0, common.ErrNotFound
	}
	return id.Int64, nil
}
