package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/naago/internal/domain"
)

// FindLink returns the identity link of a platform user.
func (s *Store) FindLink(ctx context.Context, userID string) (*domain.IdentityLink, error) {
	query :=
		`SELECT user_id, character_id, pending_character_id, challenge_token, confirmed, created_at, updated_at
		 FROM identity_links
		 WHERE user_id = $1`

	link := &domain.IdentityLink{}
	var pending sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&link.UserID, &link.CharacterID, &pending, &link.ChallengeToken, &link.Confirmed, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("link for user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if pending.Valid {
		v := pending.Int64
		link.PendingCharacterID = &v
	}

	return link, nil
}

// UpsertLink creates or overwrites the identity link of link.UserID.
func (s *Store) UpsertLink(ctx context.Context, link *domain.IdentityLink) error {
	query :=
		`INSERT INTO identity_links (user_id, character_id, pending_character_id, challenge_token, confirmed)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
		     character_id = EXCLUDED.character_id,
		     pending_character_id = EXCLUDED.pending_character_id,
		     challenge_token = EXCLUDED.challenge_token,
		     confirmed = EXCLUDED.confirmed,
		     updated_at = now()
		 RETURNING created_at, updated_at`

	var pending any
	if link.PendingCharacterID != nil {
		pending = *link.PendingCharacterID
	}

	err := s.db.QueryRowContext(ctx, query,
		link.UserID, link.CharacterID, pending, link.ChallengeToken, link.Confirmed).
		Scan(&link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteLink purges a user's link. Preferences and favorites go with it
// through ON DELETE CASCADE; character records are left alone.
func (s *Store) DeleteLink(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM identity_links WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("link for user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}
