package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

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

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "nickname", "password_hash", "profile_image", "auth_code",
		"login_type", "customs_code", "is_admin", "is_active", "is_seller", "created_at",
	}).AddRow(u.ID, u.Email, u.Nickname, u.PasswordHash, u.ProfileImage, u.AuthCode,
		u.LoginType, u.CustomsCode, u.IsAdmin, u.IsActive, u.IsSeller, u.CreatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+users\s*\(.*\)\s*VALUES\s*\(.*\)\s*RETURNING\s+created_at`).
		WithArgs(sqlmock.AnyArg(), "a@example.com", "anna", "hash", "", "code",
			models.LoginTypeNormal, "", false, false, false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	u := &models.User{
		Email:        "a@example.com",
		Nickname:     "anna",
		PasswordHash: "hash",
		AuthCode:     "code",
		LoginType:    models.LoginTypeNormal,
	}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{Email: "a@example.com"})
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := &models.User{ID: "u1", Email: "a@example.com", Nickname: "anna", IsActive: true}
	mock.ExpectQuery(`SELECT\s+.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("a@example.com").
		WillReturnRows(userRows(want))

	got, err := repo.GetByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u1" || !got.IsActive {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users`).
		WillReturnError(errors.New("db down"))

	err := repo.Update(context.Background(), &models.User{ID: "u1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestSetAuthCode_ClearsCode(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+auth_code\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("u1", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetAuthCode(context.Background(), "u1", ""); err != nil {
		t.Fatalf("SetAuthCode error: %v", err)
	}
}

func TestSetActive_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+is_active\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("ghost", true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetActive(context.Background(), "ghost", true)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSetSeller_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+is_seller\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("u1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetSeller(context.Background(), "u1", true); err != nil {
		t.Fatalf("SetSeller error: %v", err)
	}
}
