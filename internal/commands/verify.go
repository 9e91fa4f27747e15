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

type verifyCommand struct{ d Deps }

func (c *verifyCommand) Name() string { return NamespaceVerify }

func (c *verifyCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        NamespaceVerify,
		Description: "Link your account to a character",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Start verifying a character",
				Options:     nameWorldOptions(),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Unlink your character and delete your settings",
			},
		},
	}
}

func (c *verifyCommand) HandleCommand(ctx context.Context, i *discordgo.Interaction, resp *interaction.Tracked) error {
	rep := newReply(ctx, i, resp, c.d.Logger)
	rep.ephemeral = true
	userID := interaction.UserID(i)

	sub, opts := options(i)
	switch sub {
	case "set":
		rep.wait()
		return c.begin(ctx, rep, userID, stringOption(opts, optName), stringOption(opts, optWorld))
	case "delete":
		if _, err := requireLink(ctx, c.d, userID); err != nil {
			return err
		}
		view, err := c.d.Renderer.Confirm(NamespaceVerify,
			"This removes your linked character, your theme and your favorites. Continue?",
			selUnset, "Unlink", selCancel, themeFor(ctx, c.d, userID))
		if err != nil {
			return err
		}
		return rep.send(view)
	default:
		return fmt.Errorf("verify: unknown subcommand %q", sub)
	}
}

func (c *verifyCommand) begin(ctx context.Context, rep *reply, userID, name, world string) error {
	res, candidates, err := lookup(ctx, c.d, name, world)
	if err != nil {
		return err
	}
	if candidates != nil {
		return rep.send(candidates)
	}

	reverify := false
	link, err := c.d.Verifier.Link(ctx, userID)
	switch {
	case err == nil:
		reverify = link.Confirmed && link.CharacterID != res.ID
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	token, err := c.d.Verifier.Begin(ctx, userID, res.ID)
	if errors.Is(err, domain.ErrAlreadyVerified) {
		return userError(fmt.Sprintf("You are already verified as **%s**.", res.Name), err)
	}
	if err != nil {
		return err
	}

	view, err := c.d.Renderer.VerifyInstructions(NamespaceVerify, selCheck, character(res), token, reverify)
	if err != nil {
		return err
	}
	return rep.send(view)
}

func (c *verifyCommand) HandleComponent(ctx context.Context, ev interaction.Event, tok interaction.Token) error {
	rep := componentReply(ctx, ev, c.d.Logger)

	switch tok.Selector {
	case selCheck:
		rep.wait()
		link, err := c.d.Verifier.Confirm(ctx, ev.ActorID)
		switch {
		case errors.Is(err, domain.ErrVerificationMismatch):
			return userError("The code is not in the bio yet. Save the bio on the Lodestone and press **Check** again.", err)
		case errors.Is(err, domain.ErrNoPendingChallenge):
			return userError("There is no verification in progress. Start one with `/verify set`.", err)
		case err != nil:
			return err
		}

		ch, err := c.d.Characters.Get(ctx, link.CharacterID, rep.wait)
		if err != nil {
			return err
		}
		view, err := c.d.Renderer.Character(NamespaceMe, render.PageProfile, "", ch, themeFor(ctx, c.d, ev.ActorID))
		if err != nil {
			return err
		}
		view.Content = fmt.Sprintf("You are now verified as **%s**.", ch.Name)
		return rep.send(view)

	case selUnset:
		if err := c.d.Verifier.Unlink(ctx, ev.ActorID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return rep.notice("Your character link, theme and favorites were deleted.")

	case selCancel:
		return rep.notice("Nothing was changed.")

	default:
		return fmt.Errorf("%w: unhandled selector %q", domain.ErrMalformedToken, tok.Selector)
	}
}
