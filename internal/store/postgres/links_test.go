package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/MrSnakeDoc/naago/internal/domain"
)

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewStore(db), mock
}

var linkColumns = []string{"user_id", "character_id", "pending_character_id", "challenge_token", "confirmed", "created_at", "updated_at"}

func TestFindLink_Found(t *testing.T) {
	store, mock := newStoreWithMock(t)
	now := time.Now()

	q := `(?s)^SELECT\s+user_id,\s*character_id,\s*pending_character_id,.*FROM\s+identity_links\s+WHERE\s+user_id\s*=\s*\$1$`
	mock.ExpectQuery(q).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(linkColumns).AddRow("u1", int64(100), nil, "naago-ab12cd", false, now, now))

	got, err := store.FindLink(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FindLink error: %v", err)
	}
	if got.CharacterID != 100 || got.ChallengeToken != "naago-ab12cd" || got.Confirmed {
		t.Fatalf("unexpected link: %+v", got)
	}
	if got.PendingCharacterID != nil {
		t.Fatalf("PendingCharacterID = %v, want nil", *got.PendingCharacterID)
	}
}

func TestFindLink_WithPending(t *testing.T) {
	store, mock := newStoreWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM\s+identity_links`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(linkColumns).AddRow("u1", int64(100), int64(200), "naago-ffffff", true, now, now))

	got, err := store.FindLink(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FindLink error: %v", err)
	}
	if got.PendingCharacterID == nil || *got.PendingCharacterID != 200 {
		t.Fatalf("PendingCharacterID = %v, want 200", got.PendingCharacterID)
	}
	if got.ClaimedCharacterID() != 200 {
		t.Fatalf("ClaimedCharacterID() = %d, want 200", got.ClaimedCharacterID())
	}
}

func TestFindLink_NotFound(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`FROM\s+identity_links`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := store.FindLink(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want domain.ErrNotFound, got %v", err)
	}
}

func TestFindLink_DBError(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`FROM\s+identity_links`).
		WithArgs("u1").
		WillReturnError(errors.New("db down"))

	_, err := store.FindLink(context.Background(), "u1")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpsertLink(t *testing.T) {
	pending := int64(200)
	tests := []struct {
		name        string
		link        *domain.IdentityLink
		wantPending any
	}{
		{
			name:        "unconfirmed without pending",
			link:        &domain.IdentityLink{UserID: "u1", CharacterID: 100, ChallengeToken: "naago-aaaaaa"},
			wantPending: nil,
		},
		{
			name:        "confirmed with pending target",
			link:        &domain.IdentityLink{UserID: "u1", CharacterID: 100, PendingCharacterID: &pending, ChallengeToken: "naago-bbbbbb", Confirmed: true},
			wantPending: int64(200),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newStoreWithMock(t)
			now := time.Now()

			q := `(?s)^INSERT\s+INTO\s+identity_links.*ON\s+CONFLICT\s+\(user_id\)\s+DO\s+UPDATE.*RETURNING\s+created_at,\s*updated_at$`
			mock.ExpectQuery(q).
				WithArgs(tt.link.UserID, tt.link.CharacterID, tt.wantPending, tt.link.ChallengeToken, tt.link.Confirmed).
				WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

			if err := store.UpsertLink(context.Background(), tt.link); err != nil {
				t.Fatalf("UpsertLink error: %v", err)
			}
			if !tt.link.UpdatedAt.Equal(now) {
				t.Errorf("UpdatedAt = %v, want %v", tt.link.UpdatedAt, now)
			}
		})
	}
}

func TestDeleteLink(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectExec(`^DELETE\s+FROM\s+identity_links\s+WHERE\s+user_id\s*=\s*\$1$`).
			WithArgs("u1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := store.DeleteLink(context.Background(), "u1"); err != nil {
			t.Fatalf("DeleteLink error: %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectExec(`DELETE\s+FROM\s+identity_links`).
			WithArgs("u1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.DeleteLink(context.Background(), "u1")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("want domain.ErrNotFound, got %v", err)
		}
	})
}

func TestIsCharacterReferenced(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`(?s)SELECT\s+EXISTS.*identity_links.*favorites`).
		WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := store.IsCharacterReferenced(context.Background(), 55)
	if err != nil {
		t.Fatalf("IsCharacterReferenced error: %v", err)
	}
	if !ok {
		t.Error("IsCharacterReferenced() = false, want true")
	}
}
