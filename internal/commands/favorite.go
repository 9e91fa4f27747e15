package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/interaction"
	"github.com/MrSnakeDoc/naago/internal/render"
)

type favoriteCommand struct{ d Deps }

func (c *favoriteCommand) Name() string { return NamespaceFavorite }

func (c *favoriteCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        NamespaceFavorite,
		Description: "Manage your favorite characters",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a character to your favorites",
				Options:     nameWorldOptions(),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove a character from your favorites",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "Browse your favorites",
			},
		},
	}
}

func (c *favoriteCommand) HandleCommand(ctx context.Context, i *discordgo.Interaction, resp *interaction.Tracked) error {
	rep := newReply(ctx, i, resp, c.d.Logger)
	userID := interaction.UserID(i)

	// Favorites hang off the identity link.
	if _, err := requireLink(ctx, c.d, userID); err != nil {
		return err
	}

	sub, opts := options(i)
	switch sub {
	case "add":
		rep.ephemeral = true
		rep.wait()
		return c.add(ctx, rep, userID, stringOption(opts, optName), stringOption(opts, optWorld))
	case "remove":
		rep.ephemeral = true
		return c.menu(ctx, rep, userID, selPick, selRemove, "Pick a favorite to remove")
	case "list":
		return c.menu(ctx, rep, userID, selList, selShow, "Pick a favorite to view")
	default:
		return fmt.Errorf("favorite: unknown subcommand %q", sub)
	}
}

func (c *favoriteCommand) add(ctx context.Context, rep *reply, userID, name, world string) error {
	res, candidates, err := lookup(ctx, c.d, name, world)
	if err != nil {
		return err
	}
	if candidates != nil {
		return rep.send(candidates)
	}

	err = c.d.Favorites.AddFavorite(ctx, &domain.Favorite{
		UserID:      userID,
		CharacterID: res.ID,
		Name:        res.Name,
		World:       res.World,
	})
	if errors.Is(err, domain.ErrFavoritesFull) {
		return userError(fmt.Sprintf("You already have %d favorites. Remove one first.", domain.MaxFavorites), err)
	}
	if err != nil {
		return err
	}
	return rep.notice(fmt.Sprintf("**%s** was added to your favorites.", res.Name))
}

func (c *favoriteCommand) menu(ctx context.Context, rep *reply, userID, menuSel, optionSel, placeholder string) error {
	favs, err := c.d.Favorites.ListFavorites(ctx, userID)
	if err != nil {
		return err
	}
	view, err := c.d.Renderer.FavoritesMenu(NamespaceFavorite, menuSel, optionSel, placeholder, favs, themeFor(ctx, c.d, userID))
	if err != nil {
		return err
	}
	return rep.send(view)
}

func (c *favoriteCommand) HandleComponent(ctx context.Context, ev interaction.Event, tok interaction.Token) error {
	if tok.IsPage() {
		return showPage(ctx, c.d, ev, tok)
	}

	id, err := tok.ID(0)
	if err != nil {
		return err
	}
	rep := componentReply(ctx, ev, c.d.Logger)

	switch tok.Selector {
	case selShow:
		return showProfile(ctx, c.d, rep, NamespaceFavorite, ev.ActorID, id)

	case selRemove:
		err := c.d.Favorites.RemoveFavorite(ctx, ev.ActorID, id)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		favs, err := c.d.Favorites.ListFavorites(ctx, ev.ActorID)
		if err != nil {
			return err
		}
		if len(favs) == 0 {
			return rep.send(render.Notice("Your favorites list is now empty."))
		}
		return c.menu(ctx, rep, ev.ActorID, selPick, selRemove, "Pick another favorite to remove")

	default:
		return fmt.Errorf("%w: unhandled selector %q", domain.ErrMalformedToken, tok.Selector)
	}
}
