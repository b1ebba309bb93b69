package orderitems

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/oullim/market/internal/common"
	"github.com/oullim/market/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+order_items\s*\(.*\)\s*VALUES\s*\(.*\)`).
		WithArgs(sqlmock.AnyArg(), "b1", "p1", "s1", "Mug", int64(9000), int64(2), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	item := &models.OrderItem{
		BillID:    "b1",
		ProductID: "p1",
		SellerID:  "s1",
		Name:      "Mug",
		Price:     9000,
		Amount:    2,
		StatusID:  1,
	}
	got, err := repo.Create(context.Background(), item)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" {
		t.Fatal("id not assigned")
	}
}

func TestListByBill_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "bill_id", "product_id", "seller_id", "name", "price", "amount", "status_id",
	}).
		AddRow("oi1", "b1", "p1", "s1", "Mug", int64(9000), int64(2), int64(2)).
		AddRow("oi2", "b1", "p2", "s2", "Plate", int64(15000), int64(1), int64(3))
	mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+order_items\s+WHERE\s+bill_id\s*=\s*\$1\s+ORDER\s+BY\s+id`).
		WithArgs("b1").
		WillReturnRows(rows)

	got, err := repo.ListByBill(context.Background(), "b1")
	if err != nil {
		t.Fatalf("ListByBill error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Mug" || got[1].StatusID != 3 {
		t.Fatalf("unexpected items: %+v", got)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+order_items\s+SET\s+status_id\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("ghost", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "ghost", 3)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+order_items\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
