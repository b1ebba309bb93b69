// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/oullim/market/internal/dbx"
	"github.com/oullim/market/internal/server/migrations"
	"github.com/oullim/market/internal/server/repositories/bills"
	"github.com/oullim/market/internal/server/repositories/cartitems"
	"github.com/oullim/market/internal/server/repositories/deliveries"
	"github.com/oullim/market/internal/server/repositories/orderitems"
	"github.com/oullim/market/internal/server/repositories/products"
	"github.com/oullim/market/internal/server/repositories/sellers"
	"github.com/oullim/market/internal/server/repositories/statuscategories"
	"github.com/oullim/market/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sellers(db dbx.DBTX) sellers.Repository {
	return sellers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Deliveries(db dbx.DBTX) deliveries.Repository {
	return deliveries.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Bills(db dbx.DBTX) bills.Repository {
	return bills.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) OrderItems(db dbx.DBTX) orderitems.Repository {
	return orderitems.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) StatusCategories(db dbx.DBTX) statuscategories.Repository {
	return statuscategories.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Products(db dbx.DBTX) products.Repository {
	return products.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) CartItems(db dbx.DBTX) cartitems.Repository {
	return cartitems.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
