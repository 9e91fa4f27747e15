package render

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/domain"
)

// maxMenuOptions is the platform limit of options per select menu.
const maxMenuOptions = 25

// Notice is a plain text view without controls.
func Notice(text string) *View {
	return &View{Content: text, Components: []discordgo.MessageComponent{}}
}

// Confirm renders a yes/no prompt with the confirm and cancel selectors of namespace.
func (r *Renderer) Confirm(namespace, question, confirmSelector, confirmLabel, cancelSelector string, theme domain.Theme) (*View, error) {
	yes, err := r.codec.Encode(namespace, confirmSelector)
	if err != nil {
		return nil, err
	}
	no, err := r.codec.Encode(namespace, cancelSelector)
	if err != nil {
		return nil, err
	}

	return &View{
		Embeds: []*discordgo.MessageEmbed{{Description: question, Color: Colour(theme)}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: confirmLabel, Style: discordgo.DangerButton, CustomID: yes},
				discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: no},
			}},
		},
	}, nil
}

// VerifyInstructions tells the user where to put the challenge token, with a
// button that runs the check.
func (r *Renderer) VerifyInstructions(namespace, checkSelector string, c *domain.Character, token string, reverify bool) (*View, error) {
	check, err := r.codec.Encode(namespace, checkSelector)
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf(
		"To prove that **%s** (%s) is yours, add this code anywhere in the character's Lodestone bio:\n\n`%s`\n\n"+
			"Save the bio, then press **Check**. You can remove the code once verified.",
		c.Name, worldLabel(c), token)
	if reverify {
		desc += "\n\nUntil this check succeeds you stay verified as your current character."
	}

	e := &discordgo.MessageEmbed{
		Title:       "Character verification",
		Description: desc,
		Color:       Colour(domain.DefaultTheme),
	}
	if c.Avatar != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: c.Avatar}
	}

	return &View{
		Embeds: []*discordgo.MessageEmbed{e},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Check", Style: discordgo.SuccessButton, CustomID: check},
			}},
		},
	}, nil
}

// FavoritesMenu renders favorites as a select menu. menuSelector identifies
// the menu; each option carries optionSelector with the character id.
func (r *Renderer) FavoritesMenu(namespace, menuSelector, optionSelector, placeholder string, favs []*domain.Favorite, theme domain.Theme) (*View, error) {
	if len(favs) == 0 {
		return Notice("You have no favorites yet. Add one with `/favorite add`."), nil
	}

	menuID, err := r.codec.Encode(namespace, menuSelector)
	if err != nil {
		return nil, err
	}

	options := make([]discordgo.SelectMenuOption, 0, len(favs))
	for i, f := range favs {
		if i == maxMenuOptions {
			break
		}
		value, err := r.codec.Encode(namespace, optionSelector, strconv.FormatInt(f.CharacterID, 10))
		if err != nil {
			return nil, err
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       f.Name,
			Description: f.World,
			Value:       value,
		})
	}

	return &View{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Favorites",
			Description: fmt.Sprintf("%d/%d favorites", len(favs), domain.MaxFavorites),
			Color:       Colour(theme),
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    menuID,
					Placeholder: placeholder,
					Options:     options,
				},
			}},
		},
	}, nil
}

// Candidates lists search results when a name matches several characters.
func Candidates(results []domain.SearchResult, limit int) *View {
	e := &discordgo.MessageEmbed{
		Title:       "Several characters match",
		Description: "Be more specific, or pick the exact name and world:",
		Color:       Colour(domain.DefaultTheme),
	}
	for i, res := range results {
		if i == limit {
			break
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: res.Name, Value: res.World, Inline: true})
	}
	return &View{Embeds: []*discordgo.MessageEmbed{e}, Components: []discordgo.MessageComponent{}}
}
