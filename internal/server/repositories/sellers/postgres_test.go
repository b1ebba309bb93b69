package sellers

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
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

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+sellers\s*\(.*\)\s*VALUES\s*\(.*\)`).
		WithArgs(sqlmock.AnyArg(), "u1", "Shop", "123-45", "enc-bank", "enc-acc", "Choi", "enc-holder", "010").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := &models.Seller{
		UserID:         "u1",
		CompanyName:    "Shop",
		BusinessNumber: "123-45",
		BankName:       "enc-bank",
		AccountNumber:  "enc-acc",
		OwnerName:      "Choi",
		AccountHolder:  "enc-holder",
		ContactNumber:  "010",
	}
	got, err := repo.Create(context.Background(), s)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" {
		t.Fatal("id not assigned")
	}
}

func TestCreate_DuplicateUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+sellers`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Seller{UserID: "u1"})
	if !errors.Is(err, common.ErrDuplicateSeller) {
		t.Fatalf("want ErrDuplicateSeller, got %v", err)
	}
}

func TestGetByUserID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "company_name", "business_number", "bank_name",
		"account_number", "owner_name", "account_holder", "contact_number",
	}).AddRow("s1", "u1", "Shop", "123-45", "enc-bank", "enc-acc", "Choi", "enc-holder", "010")
	mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+sellers\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	got, err := repo.GetByUserID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByUserID error: %v", err)
	}
	if got.ID != "s1" || got.BankName != "enc-bank" {
		t.Fatalf("unexpected seller: %+v", got)
	}
}

func TestGetByUserID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+sellers`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdate_NoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+sellers`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Seller{UserID: "ghost"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteByUserID_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+sellers\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByUserID(context.Background(), "u1"); err != nil {
		t.Fatalf("DeleteByUserID error: %v", err)
	}
}
