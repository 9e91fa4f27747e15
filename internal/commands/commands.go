// Package commands implements the slash commands and their control handlers.
// Each command owns one interaction namespace and its state table.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/interaction"
	"github.com/MrSnakeDoc/naago/internal/logger"
	"github.com/MrSnakeDoc/naago/internal/render"
	"github.com/MrSnakeDoc/naago/internal/sources/worlds"
)

// Characters serves cached character snapshots.
type Characters interface {
	Get(ctx context.Context, id int64, onRefresh func()) (*domain.Character, error)
}

// Searcher looks characters up by name.
type Searcher interface {
	SearchCharacter(ctx context.Context, name, world string) ([]domain.SearchResult, error)
}

// Verifier runs the verification protocol.
type Verifier interface {
	Begin(ctx context.Context, userID string, characterID int64) (string, error)
	Confirm(ctx context.Context, userID string) (*domain.IdentityLink, error)
	Link(ctx context.Context, userID string) (*domain.IdentityLink, error)
	FindConfirmedCharacter(ctx context.Context, userID string, onRefresh func()) (*domain.Character, error)
	Unlink(ctx context.Context, userID string) error
}

// Preferences stores per-user settings.
type Preferences interface {
	GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error)
	SetTheme(ctx context.Context, userID string, theme domain.Theme) error
	ResetPreferences(ctx context.Context, userID string) error
}

// Favorites stores per-user bookmarked characters.
type Favorites interface {
	ListFavorites(ctx context.Context, userID string) ([]*domain.Favorite, error)
	AddFavorite(ctx context.Context, fav *domain.Favorite) error
	RemoveFavorite(ctx context.Context, userID string, characterID int64) error
}

// Deps are the collaborators shared by all commands.
type Deps struct {
	Codec       *interaction.Codec
	Renderer    *render.Renderer
	Characters  Characters
	Search      Searcher
	Verifier    Verifier
	Preferences Preferences
	Favorites   Favorites
	Worlds      *worlds.Catalog
	Logger      logger.Logger
}

// Command is a slash command together with the update handler of its namespace.
type Command interface {
	interaction.Handler
	Name() string
	Definition() *discordgo.ApplicationCommand
	HandleCommand(ctx context.Context, i *discordgo.Interaction, resp *interaction.Tracked) error
}

// UserError carries a message meant for the user. Err, when set, is the
// underlying cause.
type UserError struct {
	Msg string
	Err error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *UserError) Unwrap() error { return e.Err }

func userError(msg string, err error) error { return &UserError{Msg: msg, Err: err} }

// Namespaces.
const (
	NamespaceVerify   = "verify"
	NamespaceMe       = "me"
	NamespaceFind     = "find"
	NamespaceFavorite = "favorite"
	NamespaceSetup    = "setup"
)

// Selectors outside the character pages.
const (
	selCheck  = "check"
	selUnset  = "unset"
	selCancel = "cancel"
	selList   = "list"
	selPick   = "pick"
	selShow   = "show"
	selRemove = "remove"
)

// Tables declares the state table of every namespace.
func Tables() []*interaction.Table {
	return []*interaction.Table{
		interaction.NewTable(NamespaceVerify).
			Action(selCheck, 0).
			Confirm(selUnset, 0).
			Cancel(selCancel).
			Build(),
		render.CharacterPages(interaction.NewTable(NamespaceMe)).Build(),
		render.CharacterPages(interaction.NewTable(NamespaceFind)).Build(),
		render.CharacterPages(interaction.NewTable(NamespaceFavorite)).
			Menu(selList, 0).
			Menu(selPick, 0).
			Action(selShow, 1).
			Action(selRemove, 1).
			Build(),
		interaction.NewTable(NamespaceSetup).
			Confirm(selUnset, 0).
			Cancel(selCancel).
			Build(),
	}
}

// Set holds every command by name.
type Set struct {
	byName map[string]Command
}

// NewSet builds all commands over d.
func NewSet(d Deps) *Set {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.Worlds == nil {
		d.Worlds = worlds.NewCatalog()
	}
	s := &Set{byName: map[string]Command{}}
	for _, c := range []Command{
		&verifyCommand{d: d},
		&meCommand{d: d},
		&findCommand{d: d},
		&favoriteCommand{d: d},
		&setupCommand{d: d},
	} {
		s.byName[c.Name()] = c
	}
	return s
}

// Get returns the command called name.
func (s *Set) Get(name string) (Command, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Definitions returns the application command definitions, sorted by name.
func (s *Set) Definitions() []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, 0, len(s.byName))
	for _, c := range s.byName {
		defs = append(defs, c.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Register installs every command as the update handler of its namespace.
func (s *Set) Register(r *interaction.Router) {
	for name, c := range s.byName {
		r.Handle(name, c)
	}
}

// themeFor returns the user's theme, or the default one when it cannot be read.
func themeFor(ctx context.Context, d Deps, userID string) domain.Theme {
	prefs, err := d.Preferences.GetPreferences(ctx, userID)
	if err != nil {
		d.Logger.Warn("failed to read preferences", logger.String("user_id", userID), logger.Error(err))
		return domain.DefaultTheme
	}
	return prefs.Theme
}

// requireLink fails with a user message when userID has no identity link.
func requireLink(ctx context.Context, d Deps, userID string) (*domain.IdentityLink, error) {
	link, err := d.Verifier.Link(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, userError("You need to link a character first with `/verify set`.", err)
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}
