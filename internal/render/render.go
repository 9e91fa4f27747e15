// Package render turns character snapshots into chat embeds and the controls
// used to navigate between pages.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/interaction"
)

// Page selectors shared by every namespace that shows a character.
const (
	PageProfile     = "profile"
	PageClassesJobs = "classesjobs"
	PageEquipment   = "equipment"
	PageAttributes  = "attributes"
	PagePortrait    = "portrait"
)

// Class job qualifiers of PageClassesJobs.
const (
	QualifierCombat   = "combat"
	QualifierCrafting = "crafting"
)

var pageLabels = map[string]string{
	PageProfile:     "Profile",
	PageClassesJobs: "Classes & Jobs",
	PageEquipment:   "Equipment",
	PageAttributes:  "Attributes",
	PagePortrait:    "Portrait",
}

// CharacterPages declares the character pages on a namespace table.
func CharacterPages(b *interaction.TableBuilder) *interaction.TableBuilder {
	return b.
		Page(PageProfile, 1).
		Page(PageClassesJobs, 1, QualifierCombat, QualifierCrafting).
		Page(PageEquipment, 1).
		Page(PageAttributes, 1).
		Page(PagePortrait, 1)
}

var themeColours = map[domain.Theme]int{
	domain.ThemeDark:    0x2B2D31,
	domain.ThemeLight:   0xF2F3F5,
	domain.ThemeClassic: 0xC8A55B,
}

// Colour returns the embed colour of theme.
func Colour(theme domain.Theme) int {
	if c, ok := themeColours[theme]; ok {
		return c
	}
	return themeColours[domain.DefaultTheme]
}

// View is a rendered message.
type View struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// Renderer builds views. Control identifiers come from the codec so that
// every rendered control decodes back to its namespace.
type Renderer struct {
	codec *interaction.Codec
}

func New(codec *interaction.Codec) *Renderer {
	return &Renderer{codec: codec}
}

// Character renders page of c inside namespace.
func (r *Renderer) Character(namespace, page, qualifier string, c *domain.Character, theme domain.Theme) (*View, error) {
	var embed *discordgo.MessageEmbed
	switch page {
	case PageProfile:
		embed = profileEmbed(c)
	case PageClassesJobs:
		if qualifier == "" {
			qualifier = QualifierCombat
		}
		embed = classesEmbed(c, qualifier)
	case PageEquipment:
		embed = equipmentEmbed(c)
	case PageAttributes:
		embed = attributesEmbed(c)
	case PagePortrait:
		embed = portraitEmbed(c)
	default:
		return nil, fmt.Errorf("render: unknown page %q", page)
	}

	embed.Color = Colour(theme)
	embed.Author = &discordgo.MessageEmbedAuthor{Name: fmt.Sprintf("%s · %s", c.Name, worldLabel(c)), IconURL: c.Avatar}

	components, err := r.navigation(namespace, page, qualifier, c.ID)
	if err != nil {
		return nil, err
	}
	return &View{Embeds: []*discordgo.MessageEmbed{embed}, Components: components}, nil
}

func (r *Renderer) navigation(namespace, current, qualifier string, id int64) ([]discordgo.MessageComponent, error) {
	t, ok := r.codec.Table(namespace)
	if !ok {
		return nil, fmt.Errorf("render: unknown namespace %q", namespace)
	}
	idArg := strconv.FormatInt(id, 10)

	pages := make([]discordgo.MessageComponent, 0, 5)
	for _, p := range t.Pages() {
		customID, err := r.codec.Encode(namespace, p, idArg)
		if err != nil {
			return nil, err
		}
		style := discordgo.SecondaryButton
		if p == current {
			style = discordgo.PrimaryButton
		}
		pages = append(pages, discordgo.Button{
			Label:    pageLabels[p],
			Style:    style,
			CustomID: customID,
			Disabled: p == current && current != PageClassesJobs,
		})
	}
	rows := []discordgo.MessageComponent{discordgo.ActionsRow{Components: pages}}

	if current == PageClassesJobs {
		subs := make([]discordgo.MessageComponent, 0, 2)
		for _, q := range []string{QualifierCombat, QualifierCrafting} {
			customID, err := r.codec.Encode(namespace, PageClassesJobs, idArg, q)
			if err != nil {
				return nil, err
			}
			subs = append(subs, discordgo.Button{
				Label:    strings.ToUpper(q[:1]) + q[1:],
				Style:    discordgo.SecondaryButton,
				CustomID: customID,
				Disabled: q == qualifier,
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: subs})
	}
	return rows, nil
}

func worldLabel(c *domain.Character) string {
	if c.Datacenter == "" {
		return c.World
	}
	return fmt.Sprintf("%s [%s]", c.World, c.Datacenter)
}

func profileEmbed(c *domain.Character) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       c.Name,
		Description: c.Title,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: c.Avatar},
	}
	if c.Avatar == "" {
		e.Thumbnail = nil
	}

	add := func(name, value string) {
		if value != "" {
			e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true})
		}
	}
	add("World", worldLabel(c))
	add("Race", strings.TrimSpace(strings.Join([]string{c.Race, c.Clan, c.Gender}, " ")))
	add("Nameday", c.Nameday)
	add("Guardian", c.Guardian)
	add("City-state", c.CityState)
	if c.GrandCompany != nil {
		add("Grand Company", fmt.Sprintf("%s (%s)", c.GrandCompany.Name, c.GrandCompany.Rank))
	}
	if c.FreeCompany != nil {
		fc := c.FreeCompany.Name
		if c.FreeCompany.Tag != "" {
			fc += " «" + c.FreeCompany.Tag + "»"
		}
		add("Free Company", fc)
	}
	if c.ActiveClassJob != nil {
		add("Active job", fmt.Sprintf("%s Lv. %d", c.ActiveClassJob.Name, c.ActiveClassJob.Level))
	}
	if c.ItemLevel > 0 {
		add("Item level", strconv.Itoa(c.ItemLevel))
	}
	if bio := strings.TrimSpace(c.Bio); bio != "" {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Bio", Value: truncate(bio, 1024)})
	}
	return e
}

var roleOrder = []domain.ClassJobRole{
	domain.RoleTank, domain.RoleHealer, domain.RoleDPS, domain.RoleCrafter, domain.RoleGatherer,
}

var roleLabels = map[domain.ClassJobRole]string{
	domain.RoleTank:     "Tank",
	domain.RoleHealer:   "Healer",
	domain.RoleDPS:      "DPS",
	domain.RoleCrafter:  "Disciples of the Hand",
	domain.RoleGatherer: "Disciples of the Land",
}

func classesEmbed(c *domain.Character, qualifier string) *discordgo.MessageEmbed {
	combat := qualifier == QualifierCombat
	title := "Classes & Jobs · Combat"
	if !combat {
		title = "Classes & Jobs · Crafting & Gathering"
	}
	e := &discordgo.MessageEmbed{Title: title}

	byRole := make(map[domain.ClassJobRole][]string)
	for _, cj := range c.ClassJobs {
		if cj.Role.IsCombat() != combat {
			continue
		}
		level := "-"
		if cj.Unlocked && cj.Level > 0 {
			level = strconv.Itoa(cj.Level)
		}
		byRole[cj.Role] = append(byRole[cj.Role], fmt.Sprintf("%s **%s**", cj.Name, level))
	}
	for _, role := range roleOrder {
		if lines := byRole[role]; len(lines) > 0 {
			e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
				Name:  roleLabels[role],
				Value: truncate(strings.Join(lines, "\n"), 1024),
			})
		}
	}
	if len(e.Fields) == 0 {
		e.Description = "No class or job data."
	}
	return e
}

func equipmentEmbed(c *domain.Character) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{Title: "Equipment"}
	if c.ItemLevel > 0 {
		e.Description = fmt.Sprintf("Average item level **%d**", c.ItemLevel)
	}
	for _, g := range c.Gear {
		value := fmt.Sprintf("%s (i%d)", g.Name, g.ItemLevel)
		if g.Glamour != "" {
			value += "\nGlamour: " + g.Glamour
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: g.Slot, Value: value, Inline: true})
	}
	if len(e.Fields) == 0 {
		e.Description = "No equipment data."
	}
	return e
}

func attributesEmbed(c *domain.Character) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{Title: "Attributes"}
	for _, a := range c.Attributes {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: a.Name, Value: strconv.Itoa(a.Value), Inline: true})
	}
	if len(e.Fields) == 0 {
		e.Description = "No attribute data."
	}
	return e
}

func portraitEmbed(c *domain.Character) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{Title: "Portrait"}
	if c.Portrait != "" {
		e.Image = &discordgo.MessageEmbedImage{URL: c.Portrait}
	} else {
		e.Description = "No portrait available."
	}
	return e
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
