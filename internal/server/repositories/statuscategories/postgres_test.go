package statuscategories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/oullim/market/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestList_Ordered(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), "awaiting payment").
		AddRow(int64(2), "preparing shipment").
		AddRow(int64(3), "shipped")
	mock.ExpectQuery(`SELECT\s+id,\s*name\s+FROM\s+status_categories\s+ORDER\s+BY\s+id`).
		WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 3 || got[0].Name != "awaiting payment" || got[2].ID != 3 {
		t.Fatalf("unexpected catalog: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*name\s+FROM\s+status_categories\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMinID_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+MIN\(id\)\s+FROM\s+status_categories`).
		WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(int64(1)))

	id, err := repo.MinID(context.Background())
	if err != nil {
		t.Fatalf("MinID error: %v", err)
	}
	if id != 1 {
		t.Fatalf("want 1, got %d", id)
	}
}

func TestMinID_EmptyCatalog(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+MIN\(id\)\s+FROM\s+status_categories`).
		WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(nil))

	_, err := repo.MinID(context.Background())
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
