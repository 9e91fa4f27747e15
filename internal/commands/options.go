package commands

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	optName  = "name"
	optWorld = "world"
	optTheme = "theme"
)

// options returns the subcommand name (empty when the command has none) and
// its options by name.
func options(i *discordgo.Interaction) (string, map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	opts := i.ApplicationCommandData().Options
	sub := ""
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		sub = opts[0].Name
		opts = opts[0].Options
	}
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return sub, m
}

func stringOption(m map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if o, ok := m[name]; ok {
		return strings.TrimSpace(o.StringValue())
	}
	return ""
}

// FocusedOption returns the option being typed in an autocomplete interaction.
func FocusedOption(i *discordgo.Interaction) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	_, m := options(i)
	for _, o := range m {
		if o.Focused {
			return o, true
		}
	}
	return nil, false
}

func nameWorldOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optName,
			Description: "Character name",
			Required:    true,
			MaxLength:   32,
		},
		{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         optWorld,
			Description:  "Home world",
			Required:     true,
			Autocomplete: true,
		},
	}
}
