package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/MrSnakeDoc/naago/internal/store/postgres/migrations"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.Glob(migrations.Migrations, "*.sql")
	if err != nil {
		t.Fatalf("glob error: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected at least 2 embedded migrations, got %v", entries)
	}
}

func TestMigrateUsesSeam(t *testing.T) {
	store, _ := newStoreWithMock(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	called := false
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		if dir != "." {
			t.Errorf("dir = %q, want \".\"", dir)
		}
		return nil
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
	if !called {
		t.Error("Migrate did not call goose")
	}
}

func TestMigrateWrapsError(t *testing.T) {
	store, _ := newStoreWithMock(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	boom := errors.New("boom")
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error { return boom }

	if err := store.Migrate(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want wrapped boom, got %v", err)
	}
}
