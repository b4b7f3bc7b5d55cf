package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateLowercasesEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO users").
		WithArgs("u1", "ada@example.com", "Ada", nil, ProviderPassword, "hash").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), User{
		ID:           "u1",
		Email:        "Ada@Example.com",
		FullName:     "Ada",
		Provider:     ProviderPassword,
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), User{ID: "u1", Email: "ada@example.com", Provider: ProviderPassword})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestPGRepoGetByEmailNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT id, email").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByEmail(context.Background(), "Nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDScansNullableColumns(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "email", "full_name", "picture_url", "provider", "password_hash", "created_at", "updated_at"}).
		AddRow("u1", "ada@example.com", nil, nil, ProviderGoogle, nil, created, nil)
	mock.ExpectQuery("SELECT id, email").WithArgs("u1").WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.FullName != "" || user.PasswordHash != "" || !user.UpdatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestPGRepoRevocation(t *testing.T) {
	repo, mock := newMockRepo(t)
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO revoked_tokens").
		WithArgs("jti-1", expires).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("jti-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	if err := repo.Revoke(context.Background(), "jti-1", expires); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	revoked, err := repo.IsRevoked(context.Background(), "jti-1")
	if err != nil || !revoked {
		t.Fatalf("IsRevoked = %v, %v", revoked, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
