package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/interaction"
)

type findCommand struct{ d Deps }

func (c *findCommand) Name() string { return NamespaceFind }

func (c *findCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        NamespaceFind,
		Description: "Look up a character",
		Options:     nameWorldOptions(),
	}
}

func (c *findCommand) HandleCommand(ctx context.Context, i *discordgo.Interaction, resp *interaction.Tracked) error {
	rep := newReply(ctx, i, resp, c.d.Logger)
	_, opts := options(i)

	// The search always hits the network.
	rep.wait()
	res, candidates, err := lookup(ctx, c.d, stringOption(opts, optName), stringOption(opts, optWorld))
	if err != nil {
		return err
	}
	if candidates != nil {
		return rep.send(candidates)
	}
	return showProfile(ctx, c.d, rep, NamespaceFind, interaction.UserID(i), res.ID)
}

func (c *findCommand) HandleComponent(ctx context.Context, ev interaction.Event, tok interaction.Token) error {
	return showPage(ctx, c.d, ev, tok)
}
