package interaction

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Responder answers interactions. The gateway session and the HTTP webhook
// endpoint each provide one.
type Responder interface {
	// Respond sends the initial response. It may be called once per interaction.
	Respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	// Edit replaces the original response message.
	Edit(ctx context.Context, i *discordgo.Interaction, edit *discordgo.WebhookEdit) error
	// Followup posts an additional message after the interaction was acknowledged.
	Followup(ctx context.Context, i *discordgo.Interaction, params *discordgo.WebhookParams) error
}

// Tracked wraps a Responder and remembers whether the interaction was
// acknowledged, so error paths know whether to respond or follow up.
type Tracked struct {
	Responder
	mu    sync.Mutex
	acked bool
}

// Track wraps r.
func Track(r Responder) *Tracked {
	if t, ok := r.(*Tracked); ok {
		return t
	}
	return &Tracked{Responder: r}
}

func (t *Tracked) Respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.Responder.Respond(ctx, i, resp); err != nil {
		return err
	}
	t.acked = true
	return nil
}

// Acknowledged reports whether an initial response was sent.
func (t *Tracked) Acknowledged() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.acked
}

// Notify shows an ephemeral message to the actor, as the initial response or
// as a follow-up when the interaction was already acknowledged.
func (t *Tracked) Notify(ctx context.Context, i *discordgo.Interaction, content string) error {
	if !t.Acknowledged() {
		return t.Respond(ctx, i, EphemeralNotice(content))
	}
	return t.Followup(ctx, i, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// EphemeralNotice is a message only the actor can see.
func EphemeralNotice(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

// DeferredUpdate acknowledges a component without changing the message.
func DeferredUpdate() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
}
