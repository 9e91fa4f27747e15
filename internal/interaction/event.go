package interaction

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

var errNotComponent = errors.New("interaction is not a message component")

// Event is a control activation as seen by the router.
type Event struct {
	Interaction *discordgo.Interaction

	// ActorID is the user who clicked.
	ActorID string
	// OwnerID is the user whose command produced the message carrying the control.
	OwnerID string

	CustomID string
	// Values holds the chosen options of a select menu.
	Values []string

	// Responder answers this event. The router fills it in when nil.
	Responder *Tracked
}

// EventFromInteraction extracts actor, owner and control data from a
// component interaction.
func EventFromInteraction(i *discordgo.Interaction) (Event, error) {
	if i == nil || i.Type != discordgo.InteractionMessageComponent {
		return Event{}, errNotComponent
	}
	data := i.MessageComponentData()

	ev := Event{
		Interaction: i,
		ActorID:     UserID(i),
		CustomID:    data.CustomID,
		Values:      data.Values,
	}
	if i.Message != nil && i.Message.Interaction != nil && i.Message.Interaction.User != nil {
		ev.OwnerID = i.Message.Interaction.User.ID
	}
	return ev, nil
}

// UserID returns the id of the user behind i, in a guild or in DMs.
func UserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
