package repository

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/atinyakov/JapaKeeper/internal/db"
)

func setupKVMock(t *testing.T) (*SQLKVRepository, sqlmock.Sqlmock, func()) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewSQLKVRepository(conn)
	cleanup := func() { conn.Close() }
	return repo, mock, cleanup
}

func TestGet_Found(t *testing.T) {
	repo, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = $1`)).
		WithArgs("user").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"id":"1","name":"A"}`))

	value, ok, err := repo.Get(context.Background(), "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || value != `{"id":"1","name":"A"}` {
		t.Errorf("Get = %q, %v", value, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGet_Missing(t *testing.T) {
	repo, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = $1`)).
		WithArgs("user").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, ok, err := repo.Get(context.Background(), "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected missing key")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGet_Error(t *testing.T) {
	repo, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = $1`)).
		WithArgs("user").
		WillReturnError(errors.New("query failed"))

	_, _, err := repo.Get(context.Background(), "user")
	if err == nil || !regexp.MustCompile(`get "user"`).MatchString(err.Error()) {
		t.Errorf("expected wrapped get error, got %v", err)
	}
}

func TestPut(t *testing.T) {
	repo, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv (key, value) VALUES ($1, $2)`)).
		WithArgs("user", "v").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv (key, value) VALUES ($1, $2)`)).
		WithArgs("user", "v2").
		WillReturnError(errors.New("disk full"))

	if err := repo.Put(context.Background(), "user", "v"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Put(context.Background(), "user", "v2"); err == nil {
		t.Error("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, cleanup := setupKVMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv WHERE key = $1`)).
		WithArgs("user").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "user"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSQLite_RoundTrip(t *testing.T) {
	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()

	repo := NewSQLKVRepository(conn)
	ctx := context.Background()

	if err := repo.Put(ctx, "user", "first"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := repo.Put(ctx, "user", "second"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	value, ok, err := repo.Get(ctx, "user")
	if err != nil || !ok || value != "second" {
		t.Fatalf("Get = %q, %v, %v; want second", value, ok, err)
	}
	if err := repo.Delete(ctx, "user"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "user"); ok {
		t.Error("expected key to be gone after Delete")
	}
}
