// Package verification proves that a chat user controls a remote character
// by asking them to publish a challenge token in the character biography.
package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/logger"
)

// TokenPrefix starts every challenge token so users can spot it in their bio.
const TokenPrefix = "naago-"

// LinkStore persists identity links.
type LinkStore interface {
	FindLink(ctx context.Context, userID string) (*domain.IdentityLink, error)
	UpsertLink(ctx context.Context, link *domain.IdentityLink) error
	DeleteLink(ctx context.Context, userID string) error
}

// Fetcher loads a character straight from upstream, bypassing the cache.
type Fetcher interface {
	GetCharacter(ctx context.Context, id int64) (*domain.Character, error)
}

// Characters serves cached snapshots.
type Characters interface {
	Get(ctx context.Context, id int64, onRefresh func()) (*domain.Character, error)
}

// RecordWriter receives the snapshot fetched during a successful confirmation.
type RecordWriter interface {
	UpsertCharacter(ctx context.Context, record *domain.CharacterRecord) error
}

// Service runs the challenge-and-confirm protocol.
type Service struct {
	links      LinkStore
	fetcher    Fetcher
	characters Characters
	records    RecordWriter
	newToken   func() string
	now        func() time.Time
	log        logger.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithTokenGenerator replaces the challenge token generator.
func WithTokenGenerator(gen func() string) Option {
	return func(s *Service) { s.newToken = gen }
}

// WithRecordWriter stores the snapshot fetched on confirmation so the cache
// starts warm.
func WithRecordWriter(w RecordWriter) Option {
	return func(s *Service) { s.records = w }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(links LinkStore, fetcher Fetcher, characters Characters, log logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		links:      links,
		fetcher:    fetcher,
		characters: characters,
		newToken:   NewToken,
		now:        time.Now,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewToken returns a fresh challenge token such as "naago-3f9a1c".
func NewToken() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return TokenPrefix + raw[:6]
}

// Begin issues a challenge for characterID.
//
//   - no link: a new unconfirmed link is created;
//   - unconfirmed link: the pending character and token are replaced;
//   - confirmed for another character: the link stays confirmed for the old
//     character and the new one becomes pending until Confirm succeeds;
//   - confirmed for the same character: domain.ErrAlreadyVerified. A pending
//     switch to another character is cancelled; otherwise nothing is written.
func (s *Service) Begin(ctx context.Context, userID string, characterID int64) (string, error) {
	link, err := s.links.FindLink(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		link = &domain.IdentityLink{UserID: userID}
	case err != nil:
		return "", fmt.Errorf("find link: %w", err)
	}

	token := s.newToken()

	switch {
	case !link.Confirmed:
		link.CharacterID = characterID
		link.PendingCharacterID = nil
	case link.CharacterID == characterID:
		if link.HasPendingChallenge() {
			// Asking for the current character again drops any switch in progress.
			link.PendingCharacterID = nil
			link.ChallengeToken = ""
			if err := s.links.UpsertLink(ctx, link); err != nil {
				return "", fmt.Errorf("save link: %w", err)
			}
		}
		return "", domain.ErrAlreadyVerified
	default:
		pending := characterID
		link.PendingCharacterID = &pending
	}
	link.ChallengeToken = token

	if err := s.links.UpsertLink(ctx, link); err != nil {
		return "", fmt.Errorf("save link: %w", err)
	}

	s.log.Info("verification challenge issued",
		logger.String("user_id", userID),
		logger.Int64("character_id", characterID),
		logger.Bool("reverify", link.Confirmed))
	return token, nil
}

// Confirm checks the claimed character's biography for the outstanding token.
//
// Errors: domain.ErrNoPendingChallenge when nothing is outstanding,
// domain.ErrVerificationMismatch when the bio lacks the token (state is left
// unchanged so the user can retry), or the upstream error when the bio
// cannot be fetched.
func (s *Service) Confirm(ctx context.Context, userID string) (*domain.IdentityLink, error) {
	link, err := s.links.FindLink(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoPendingChallenge
		}
		return nil, fmt.Errorf("find link: %w", err)
	}
	if !link.HasPendingChallenge() {
		return nil, domain.ErrNoPendingChallenge
	}

	claimed := link.ClaimedCharacterID()
	character, err := s.fetcher.GetCharacter(ctx, claimed)
	if err != nil {
		return nil, fmt.Errorf("fetch character %d: %w", claimed, err)
	}

	if !strings.Contains(character.Bio, link.ChallengeToken) {
		return nil, domain.ErrVerificationMismatch
	}

	link.CharacterID = claimed
	link.PendingCharacterID = nil
	link.ChallengeToken = ""
	link.Confirmed = true
	if err := s.links.UpsertLink(ctx, link); err != nil {
		return nil, fmt.Errorf("save link: %w", err)
	}

	if s.records != nil {
		rec := &domain.CharacterRecord{ID: claimed, Snapshot: character, FetchedAt: s.now()}
		if err := s.records.UpsertCharacter(ctx, rec); err != nil {
			s.log.Warn("failed to store verified character",
				logger.Int64("character_id", claimed),
				logger.Error(err))
		}
	}

	s.log.Info("verification confirmed",
		logger.String("user_id", userID),
		logger.Int64("character_id", claimed))
	return link, nil
}

// Link returns the user's identity link.
func (s *Service) Link(ctx context.Context, userID string) (*domain.IdentityLink, error) {
	return s.links.FindLink(ctx, userID)
}

// FindConfirmedCharacter returns the snapshot of the user's confirmed
// character, or domain.ErrNotFound when the user is not verified.
func (s *Service) FindConfirmedCharacter(ctx context.Context, userID string, onRefresh func()) (*domain.Character, error) {
	link, err := s.links.FindLink(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !link.Confirmed {
		return nil, fmt.Errorf("confirmed link for user %s: %w", userID, domain.ErrNotFound)
	}
	return s.characters.Get(ctx, link.CharacterID, onRefresh)
}

// Unlink purges the user's link together with their preferences and
// favorites. Character records are kept.
func (s *Service) Unlink(ctx context.Context, userID string) error {
	if err := s.links.DeleteLink(ctx, userID); err != nil {
		return err
	}
	s.log.Info("identity link purged", logger.String("user_id", userID))
	return nil
}
