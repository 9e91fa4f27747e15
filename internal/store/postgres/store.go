// Package postgres persists identity links and the per-user records that
// hang off them (preferences, favorites).
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/MrSnakeDoc/naago/internal/store/postgres/migrations"
)

// Store handles Postgres operations for links, preferences and favorites.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects with the pgx stdlib driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate runs the embedded migrations.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, s.db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// IsCharacterReferenced reports whether any identity link or favorite still
// points at the character.
func (s *Store) IsCharacterReferenced(ctx context.Context, characterID int64) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM identity_links WHERE character_id = $1 OR pending_character_id = $1)
		     OR EXISTS (SELECT 1 FROM favorites WHERE character_id = $1)`

	var referenced bool
	if err := s.db.QueryRowContext(ctx, query, characterID).Scan(&referenced); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return referenced, nil
}
