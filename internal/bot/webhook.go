package bot

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/interaction"
)

// bodyWriteGrace bounds how long REST calls wait for the HTTP body that
// carries the first response.
const bodyWriteGrace = 3 * time.Second

// webhookResponder hands the first response back to the HTTP request that
// carried the interaction. Everything after it goes through rest, once the
// HTTP body has been written: Discord rejects edits of an interaction it has
// not seen acknowledged yet.
type webhookResponder struct {
	rest  interaction.Responder
	first chan *discordgo.InteractionResponse

	written     chan struct{}
	writtenOnce sync.Once
	grace       time.Duration

	mu      sync.Mutex
	used    bool
	expired bool
}

func newWebhookResponder(rest interaction.Responder) *webhookResponder {
	return &webhookResponder{
		rest:    rest,
		first:   make(chan *discordgo.InteractionResponse, 1),
		written: make(chan struct{}),
		grace:   bodyWriteGrace,
	}
}

func (w *webhookResponder) Respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	w.mu.Lock()
	if !w.used && !w.expired {
		w.used = true
		w.mu.Unlock()
		w.first <- resp
		return nil
	}
	w.mu.Unlock()
	w.awaitBody(ctx)
	return w.rest.Respond(ctx, i, resp)
}

func (w *webhookResponder) Edit(ctx context.Context, i *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	w.awaitBody(ctx)
	return w.rest.Edit(ctx, i, edit)
}

func (w *webhookResponder) Followup(ctx context.Context, i *discordgo.Interaction, params *discordgo.WebhookParams) error {
	w.awaitBody(ctx)
	return w.rest.Followup(ctx, i, params)
}

// expire stops routing responses to the HTTP body.
func (w *webhookResponder) expire() {
	w.mu.Lock()
	w.expired = true
	w.mu.Unlock()
}

// bodyWritten releases REST calls held back by awaitBody.
func (w *webhookResponder) bodyWritten() {
	w.writtenOnce.Do(func() { close(w.written) })
}

// awaitBody blocks until the first response has been written to the HTTP
// body, the grace period ends or ctx is done. It returns at once when the
// first response never went to the body.
func (w *webhookResponder) awaitBody(ctx context.Context) {
	w.mu.Lock()
	used := w.used
	w.mu.Unlock()
	if !used {
		return
	}

	timer := time.NewTimer(w.grace)
	defer timer.Stop()
	select {
	case <-w.written:
	case <-timer.C:
	case <-ctx.Done():
	}
}

// DispatchWebhook runs i and returns its first response so the caller can
// write it as the HTTP body. The handler keeps running after that and uses
// rest for later calls, which are held until the caller invokes written.
// It returns false when nothing was answered within wait.
func (d *Dispatcher) DispatchWebhook(ctx context.Context, i *discordgo.Interaction, rest interaction.Responder, wait time.Duration) (*discordgo.InteractionResponse, func(), bool) {
	w := newWebhookResponder(rest)
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Dispatch(context.WithoutCancel(ctx), i, w)
	}()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	var resp *discordgo.InteractionResponse
	select {
	case resp = <-w.first:
	case <-done:
		resp = w.take()
	case <-timer.C:
		w.expire()
		// A response may have slipped in before expire.
		resp = w.take()
	}
	if resp == nil {
		return nil, nil, false
	}
	return resp, w.bodyWritten, true
}

func (w *webhookResponder) take() *discordgo.InteractionResponse {
	select {
	case resp := <-w.first:
		return resp
	default:
		return nil
	}
}
