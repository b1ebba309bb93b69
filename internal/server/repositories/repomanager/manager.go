package repomanager

import (
	"context"
	"database/sql"

	"github.com/oullim/market/internal/dbx"
	"github.com/oullim/market/internal/server/repositories/bills"
	"github.com/oullim/market/internal/server/repositories/cartitems"
	"github.com/oullim/market/internal/server/repositories/deliveries"
	"github.com/oullim/market/internal/server/repositories/orderitems"
	"github.com/oullim/market/internal/server/repositories/products"
	"github.com/oullim/market/internal/server/repositories/sellers"
	"github.com/oullim/market/internal/server/repositories/statuscategories"
	"github.com/oullim/market/internal/server/repositories/users"
)

// RepositoryManager vends entity repositories bound to a DBTX, so a service
// can run several repositories against one shared transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sellers(db dbx.DBTX) sellers.Repository
	Deliveries(db dbx.DBTX) deliveries.Repository
	Bills(db dbx.DBTX) bills.Repository
	OrderItems(db dbx.DBTX) orderitems.Repository
	StatusCategories(db dbx.DBTX) statuscategories.Repository
	Products(db dbx.DBTX) products.Repository
	CartItems(db dbx.DBTX) cartitems.Repository
}
