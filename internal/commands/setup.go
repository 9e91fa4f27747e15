package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/interaction"
)

type setupCommand struct{ d Deps }

func (c *setupCommand) Name() string { return NamespaceSetup }

func (c *setupCommand) Definition() *discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.Themes()))
	for _, t := range domain.Themes() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(t), Value: string(t)})
	}

	return &discordgo.ApplicationCommand{
		Name:        NamespaceSetup,
		Description: "Change your settings",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "theme",
				Description: "Pick the colour theme of profiles",
				Options: []*discordgo.ApplicationCommandOption{{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optTheme,
					Description: "Theme",
					Required:    true,
					Choices:     choices,
				}},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "reset",
				Description: "Restore the default settings",
			},
		},
	}
}

func (c *setupCommand) HandleCommand(ctx context.Context, i *discordgo.Interaction, resp *interaction.Tracked) error {
	rep := newReply(ctx, i, resp, c.d.Logger)
	rep.ephemeral = true
	userID := interaction.UserID(i)

	if _, err := requireLink(ctx, c.d, userID); err != nil {
		return err
	}

	sub, opts := options(i)
	switch sub {
	case "theme":
		raw := stringOption(opts, optTheme)
		theme, ok := domain.ParseTheme(raw)
		if !ok {
			return userError(fmt.Sprintf("Unknown theme %q.", raw), nil)
		}
		if err := c.d.Preferences.SetTheme(ctx, userID, theme); err != nil {
			return err
		}
		return rep.notice(fmt.Sprintf("Theme set to **%s**.", theme))
	case "reset":
		view, err := c.d.Renderer.Confirm(NamespaceSetup,
			"Reset all your settings to their defaults?",
			selUnset, "Reset", selCancel, themeFor(ctx, c.d, userID))
		if err != nil {
			return err
		}
		return rep.send(view)
	default:
		return fmt.Errorf("setup: unknown subcommand %q", sub)
	}
}

func (c *setupCommand) HandleComponent(ctx context.Context, ev interaction.Event, tok interaction.Token) error {
	rep := componentReply(ctx, ev, c.d.Logger)

	switch {
	case tok.IsConfirm():
		if err := c.d.Preferences.ResetPreferences(ctx, ev.ActorID); err != nil {
			return err
		}
		return rep.notice("Your settings were reset.")
	case tok.IsCancel():
		return rep.notice("Nothing was changed.")
	default:
		return fmt.Errorf("%w: unhandled selector %q", domain.ErrMalformedToken, tok.Selector)
	}
}
