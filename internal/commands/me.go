package commands

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/interaction"
	"github.com/MrSnakeDoc/naago/internal/render"
)

type meCommand struct{ d Deps }

func (c *meCommand) Name() string { return NamespaceMe }

func (c *meCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        NamespaceMe,
		Description: "Show your verified character",
	}
}

func (c *meCommand) HandleCommand(ctx context.Context, i *discordgo.Interaction, resp *interaction.Tracked) error {
	rep := newReply(ctx, i, resp, c.d.Logger)
	userID := interaction.UserID(i)

	ch, err := c.d.Verifier.FindConfirmedCharacter(ctx, userID, rep.wait)
	if errors.Is(err, domain.ErrNotFound) {
		return userError("You have no verified character yet. Start with `/verify set`.", err)
	}
	if err != nil {
		return err
	}

	view, err := c.d.Renderer.Character(NamespaceMe, render.PageProfile, "", ch, themeFor(ctx, c.d, userID))
	if err != nil {
		return err
	}
	return rep.send(view)
}

func (c *meCommand) HandleComponent(ctx context.Context, ev interaction.Event, tok interaction.Token) error {
	return showPage(ctx, c.d, ev, tok)
}
