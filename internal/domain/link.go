package domain

import "time"

// IdentityLink binds a chat-platform user to the character they claim.
//
// Invariants:
//   - a user has at most one link;
//   - while Confirmed is false, CharacterID is the pending target and may be
//     replaced by a new challenge without error;
//   - while Confirmed is true, CharacterID only changes when a new challenge
//     for PendingCharacterID is confirmed. Until then the user keeps using the
//     old character even though a challenge is outstanding.
type IdentityLink struct {
	UserID string

	// CharacterID is the confirmed character, or the pending one when the
	// link was never confirmed.
	CharacterID int64

	// PendingCharacterID is only set when a confirmed user started a
	// challenge for a different character.
	PendingCharacterID *int64

	// ChallengeToken is single-use; it is cleared once confirmed.
	ChallengeToken string

	Confirmed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClaimedCharacterID returns the character the outstanding challenge is for.
func (l *IdentityLink) ClaimedCharacterID() int64 {
	if l.PendingCharacterID != nil {
		return *l.PendingCharacterID
	}
	return l.CharacterID
}

// HasPendingChallenge reports whether a challenge token is waiting to be
// confirmed.
func (l *IdentityLink) HasPendingChallenge() bool {
	return l.ChallengeToken != "" && (!l.Confirmed || l.PendingCharacterID != nil)
}

// Theme selects the colour palette used when rendering profiles.
type Theme string

const (
	ThemeDark    Theme = "dark"
	ThemeLight   Theme = "light"
	ThemeClassic Theme = "classic"
)

// DefaultTheme is used when the user never picked one.
const DefaultTheme = ThemeDark

// Themes lists every supported theme in display order.
func Themes() []Theme { return []Theme{ThemeDark, ThemeLight, ThemeClassic} }

// ParseTheme returns the theme named s, or false when unknown.
func ParseTheme(s string) (Theme, bool) {
	for _, t := range Themes() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Preferences are per-user rendering settings. They belong to the user's
// identity link and are purged with it.
type Preferences struct {
	UserID    string
	Theme     Theme
	UpdatedAt time.Time
}

// MaxFavorites is bounded by the number of options a select menu can carry.
const MaxFavorites = 25

// Favorite is a character bookmarked by a user.
type Favorite struct {
	UserID      string
	CharacterID int64
	Name        string
	World       string
	CreatedAt   time.Time
}
