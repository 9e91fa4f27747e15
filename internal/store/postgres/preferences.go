package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/naago/internal/domain"
)

// GetPreferences returns the user's preferences, or defaults when none were saved.
func (s *Store) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	query :=
		`SELECT theme, updated_at FROM user_preferences
		 WHERE user_id = $1`

	prefs := &domain.Preferences{UserID: userID}
	var theme string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&theme, &prefs.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			prefs.Theme = domain.DefaultTheme
			return prefs, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if t, ok := domain.ParseTheme(theme); ok {
		prefs.Theme = t
	} else {
		prefs.Theme = domain.DefaultTheme
	}
	return prefs, nil
}

// SetTheme stores the user's theme. The user must have an identity link.
func (s *Store) SetTheme(ctx context.Context, userID string, theme domain.Theme) error {
	query :=
		`INSERT INTO user_preferences (user_id, theme)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET theme = EXCLUDED.theme, updated_at = now()`

	if _, err := s.db.ExecContext(ctx, query, userID, string(theme)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ResetPreferences removes the user's saved preferences.
func (s *Store) ResetPreferences(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
