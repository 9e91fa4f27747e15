package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/interaction"
	"github.com/MrSnakeDoc/naago/internal/logger"
	"github.com/MrSnakeDoc/naago/internal/render"
)

// reply answers one interaction with a rendered view. It acknowledges early
// when a slow refresh starts and edits the acknowledgement afterwards.
type reply struct {
	ctx  context.Context
	i    *discordgo.Interaction
	resp *interaction.Tracked
	log  logger.Logger

	// update replaces the message carrying the control instead of posting a new one.
	update    bool
	ephemeral bool
}

func newReply(ctx context.Context, i *discordgo.Interaction, resp *interaction.Tracked, log logger.Logger) *reply {
	return &reply{ctx: ctx, i: i, resp: resp, log: log}
}

func componentReply(ctx context.Context, ev interaction.Event, log logger.Logger) *reply {
	r := newReply(ctx, ev.Interaction, ev.Responder, log)
	r.update = true
	return r
}

// wait acknowledges the interaction without content. It is the refresh
// callback handed to the cache.
func (r *reply) wait() {
	if r.resp.Acknowledged() {
		return
	}
	resp := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if r.update {
		resp.Type = discordgo.InteractionResponseDeferredMessageUpdate
	} else if r.ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	if err := r.resp.Respond(r.ctx, r.i, resp); err != nil {
		r.log.Warn("failed to defer interaction", logger.Error(err))
	}
}

// send shows v, editing the acknowledgement when there is one.
func (r *reply) send(v *render.View) error {
	if r.resp.Acknowledged() {
		return r.resp.Edit(r.ctx, r.i, &discordgo.WebhookEdit{
			Content:    &v.Content,
			Embeds:     &v.Embeds,
			Components: &v.Components,
		})
	}

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    v.Content,
			Embeds:     v.Embeds,
			Components: v.Components,
		},
	}
	if r.update {
		resp.Type = discordgo.InteractionResponseUpdateMessage
	} else if r.ephemeral {
		resp.Data.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.resp.Respond(r.ctx, r.i, resp)
}

func (r *reply) notice(text string) error {
	return r.send(render.Notice(text))
}
