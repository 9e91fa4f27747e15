package postgres

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/naago/internal/domain"
)

// ListFavorites returns the user's favorites, oldest first.
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	query :=
		`SELECT user_id, character_id, name, world, created_at FROM favorites
		 WHERE user_id = $1
		 ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var favorites []*domain.Favorite
	for rows.Next() {
		f := &domain.Favorite{}
		if err := rows.Scan(&f.UserID, &f.CharacterID, &f.Name, &f.World, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return favorites, nil
}

// AddFavorite bookmarks a character for the user. Adding an existing favorite
// refreshes its name and world. Fails with domain.ErrFavoritesFull past
// domain.MaxFavorites entries.
func (s *Store) AddFavorite(ctx context.Context, fav *domain.Favorite) error {
	return WithTx(ctx, s.db, nil, func(ctx context.Context, tx DBTX) error {
		var count int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM favorites WHERE user_id = $1 AND character_id <> $2`,
			fav.UserID, fav.CharacterID).Scan(&count)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if count >= domain.MaxFavorites {
			return domain.ErrFavoritesFull
		}

		query :=
			`INSERT INTO favorites (user_id, character_id, name, world)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id, character_id) DO UPDATE SET name = EXCLUDED.name, world = EXCLUDED.world`
		if _, err := tx.ExecContext(ctx, query, fav.UserID, fav.CharacterID, fav.Name, fav.World); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

// RemoveFavorite deletes a favorite. Missing favorites yield domain.ErrNotFound.
func (s *Store) RemoveFavorite(ctx context.Context, userID string, characterID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND character_id = $2`, userID, characterID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("favorite %d: %w", characterID, domain.ErrNotFound)
	}
	return nil
}
