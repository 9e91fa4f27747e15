package verification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/index"
	"github.com/MrSnakeDoc/naago/internal/logger"
)

type memLinks struct {
	mu     sync.Mutex
	links  map[string]domain.IdentityLink
	writes int
}

func newMemLinks() *memLinks {
	return &memLinks{links: map[string]domain.IdentityLink{}}
}

func (m *memLinks) FindLink(_ context.Context, userID string) (*domain.IdentityLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if l.PendingCharacterID != nil {
		p := *l.PendingCharacterID
		l.PendingCharacterID = &p
	}
	return &l, nil
}

func (m *memLinks) UpsertLink(_ context.Context, link *domain.IdentityLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.links[link.UserID] = *link
	return nil
}

func (m *memLinks) DeleteLink(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.links[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.links, userID)
	return nil
}

type bioFetcher struct {
	bio map[int64]string
	err error
}

func (f *bioFetcher) GetCharacter(_ context.Context, id int64) (*domain.Character, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Character{ID: id, Name: "Someone", World: "Phoenix", Bio: f.bio[id]}, nil
}

type stubCharacters struct{ got int64 }

func (s *stubCharacters) Get(_ context.Context, id int64, _ func()) (*domain.Character, error) {
	s.got = id
	return &domain.Character{ID: id}, nil
}

func fixedToken(tok string) Option {
	return WithTokenGenerator(func() string { return tok })
}

func TestNewToken(t *testing.T) {
	a, b := NewToken(), NewToken()

	assert.True(t, strings.HasPrefix(a, TokenPrefix))
	assert.Len(t, a, len(TokenPrefix)+6)
	assert.NotEqual(t, a, b)
}

func TestConfirm_MismatchThenSuccess(t *testing.T) {
	ctx := context.Background()
	links := newMemLinks()
	f := &bioFetcher{bio: map[int64]string{100: "hello world"}}
	svc := New(links, f, &stubCharacters{}, logger.Nop(), fixedToken("naago-ab12cd"))

	tok, err := svc.Begin(ctx, "u1", 100)
	require.NoError(t, err)
	assert.Equal(t, "naago-ab12cd", tok)

	_, err = svc.Confirm(ctx, "u1")
	require.ErrorIs(t, err, domain.ErrVerificationMismatch)

	stored, _ := links.FindLink(ctx, "u1")
	assert.False(t, stored.Confirmed)
	assert.Equal(t, "naago-ab12cd", stored.ChallengeToken)

	f.bio[100] = "please verify: naago-ab12cd"
	link, err := svc.Confirm(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, link.Confirmed)
	assert.Equal(t, int64(100), link.CharacterID)
	assert.Empty(t, link.ChallengeToken)

	_, err = svc.Confirm(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNoPendingChallenge)
}

func TestBegin_AlreadyVerifiedWritesNothing(t *testing.T) {
	ctx := context.Background()
	links := newMemLinks()
	require.NoError(t, links.UpsertLink(ctx, &domain.IdentityLink{UserID: "u1", CharacterID: 100, Confirmed: true}))
	links.writes = 0

	svc := New(links, &bioFetcher{}, &stubCharacters{}, logger.Nop())

	for i := 0; i < 2; i++ {
		_, err := svc.Begin(ctx, "u1", 100)
		require.ErrorIs(t, err, domain.ErrAlreadyVerified)
	}
	assert.Equal(t, 0, links.writes)
}

func TestBegin_SameCharacterCancelsPendingSwitch(t *testing.T) {
	ctx := context.Background()
	links := newMemLinks()
	require.NoError(t, links.UpsertLink(ctx, &domain.IdentityLink{UserID: "u1", CharacterID: 100, Confirmed: true}))

	f := &bioFetcher{bio: map[int64]string{200: "naago-ffee00"}}
	svc := New(links, f, &stubCharacters{}, logger.Nop(), fixedToken("naago-ffee00"))

	_, err := svc.Begin(ctx, "u1", 200)
	require.NoError(t, err)

	_, err = svc.Begin(ctx, "u1", 100)
	require.ErrorIs(t, err, domain.ErrAlreadyVerified)

	stored, _ := links.FindLink(ctx, "u1")
	assert.True(t, stored.Confirmed)
	assert.Equal(t, int64(100), stored.CharacterID)
	assert.Nil(t, stored.PendingCharacterID)
	assert.Empty(t, stored.ChallengeToken)

	_, err = svc.Confirm(ctx, "u1")
	require.ErrorIs(t, err, domain.ErrNoPendingChallenge)
}

func TestBegin_UnconfirmedIsReplacedSilently(t *testing.T) {
	ctx := context.Background()
	links := newMemLinks()
	tokens := []string{"naago-000001", "naago-000002"}
	svc := New(links, &bioFetcher{}, &stubCharacters{}, logger.Nop(), WithTokenGenerator(func() string {
		tok := tokens[0]
		tokens = tokens[1:]
		return tok
	}))

	_, err := svc.Begin(ctx, "u1", 100)
	require.NoError(t, err)
	tok, err := svc.Begin(ctx, "u1", 200)
	require.NoError(t, err)

	stored, _ := links.FindLink(ctx, "u1")
	assert.Equal(t, int64(200), stored.CharacterID)
	assert.Nil(t, stored.PendingCharacterID)
	assert.Equal(t, tok, stored.ChallengeToken)
	assert.False(t, stored.Confirmed)
}

func TestReverify_KeepsOldCharacterUntilConfirmed(t *testing.T) {
	ctx := context.Background()
	links := newMemLinks()
	require.NoError(t, links.UpsertLink(ctx, &domain.IdentityLink{UserID: "u1", CharacterID: 100, Confirmed: true}))

	f := &bioFetcher{bio: map[int64]string{200: "nothing yet"}}
	chars := &stubCharacters{}
	svc := New(links, f, chars, logger.Nop(), fixedToken("naago-ffee00"))

	_, err := svc.Begin(ctx, "u1", 200)
	require.NoError(t, err)

	stored, _ := links.FindLink(ctx, "u1")
	assert.True(t, stored.Confirmed)
	assert.Equal(t, int64(100), stored.CharacterID)
	require.NotNil(t, stored.PendingCharacterID)
	assert.Equal(t, int64(200), *stored.PendingCharacterID)

	_, err = svc.FindConfirmedCharacter(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), chars.got)

	_, err = svc.Confirm(ctx, "u1")
	require.ErrorIs(t, err, domain.ErrVerificationMismatch)

	f.bio[200] = "naago-ffee00"
	link, err := svc.Confirm(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), link.CharacterID)
	assert.Nil(t, link.PendingCharacterID)

	_, err = svc.FindConfirmedCharacter(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(200), chars.got)
}

func TestConfirm_FetchFailureIsDistinct(t *testing.T) {
	ctx := context.Background()
	links := newMemLinks()
	f := &bioFetcher{err: &domain.UpstreamError{Op: "get_character", StatusCode: 503, Err: errors.New("busy")}}
	svc := New(links, f, &stubCharacters{}, logger.Nop())

	_, err := svc.Begin(ctx, "u1", 100)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, "u1")
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.NotErrorIs(t, err, domain.ErrVerificationMismatch)
}

func TestConfirm_NoLink(t *testing.T) {
	svc := New(newMemLinks(), &bioFetcher{}, &stubCharacters{}, logger.Nop())

	_, err := svc.Confirm(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNoPendingChallenge)
}

func TestConfirm_WarmsCharacterStore(t *testing.T) {
	ctx := context.Background()
	records := index.NewMemoryIndex()
	f := &bioFetcher{bio: map[int64]string{100: "naago-abcdef"}}
	svc := New(newMemLinks(), f, &stubCharacters{}, logger.Nop(), fixedToken("naago-abcdef"), WithRecordWriter(records))

	_, err := svc.Begin(ctx, "u1", 100)
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, "u1")
	require.NoError(t, err)

	rec, err := records.FindCharacter(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "naago-abcdef", rec.Snapshot.Bio)
}

func TestFindConfirmedCharacter_Unverified(t *testing.T) {
	ctx := context.Background()
	links := newMemLinks()
	svc := New(links, &bioFetcher{}, &stubCharacters{}, logger.Nop())

	_, err := svc.FindConfirmedCharacter(ctx, "u1", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Begin(ctx, "u1", 100)
	require.NoError(t, err)
	_, err = svc.FindConfirmedCharacter(ctx, "u1", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnlink(t *testing.T) {
	ctx := context.Background()
	links := newMemLinks()
	svc := New(links, &bioFetcher{}, &stubCharacters{}, logger.Nop())

	_, err := svc.Begin(ctx, "u1", 100)
	require.NoError(t, err)
	require.NoError(t, svc.Unlink(ctx, "u1"))

	_, err = svc.Link(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Unlink(ctx, "u1"), domain.ErrNotFound)
}
