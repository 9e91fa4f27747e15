// Package bot connects the commands to the chat platform: it receives
// interactions from the gateway or the webhook endpoint, runs them and turns
// failures into notices.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/commands"
	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/interaction"
	"github.com/MrSnakeDoc/naago/internal/logger"
	"github.com/MrSnakeDoc/naago/internal/metrics"
	"github.com/MrSnakeDoc/naago/internal/sources/worlds"
)

// Interaction kinds, used as log and metric labels.
const (
	KindCommand      = "command"
	KindComponent    = "component"
	KindAutocomplete = "autocomplete"
)

// Outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeUserError    = "user_error"
	OutcomeUnauthorized = "unauthorized"
	OutcomeMalformed    = "malformed"
	OutcomeUpstream     = "upstream"
	OutcomeTimeout      = "timeout"
	OutcomeError        = "error"
	OutcomePanic        = "panic"
)

// maxChoices is the platform limit of autocomplete choices.
const maxChoices = 25

const (
	msgGeneric     = "Something went wrong on my side. Please try again."
	msgUpstream    = "The Lodestone is not answering right now. Please try again in a moment."
	msgTimeout     = "That took too long. Please try again."
	msgStale       = "This control is no longer valid. Run the command again."
	msgNotFound    = "I could not find that."
	msgNoChallenge = "There is no verification in progress. Start one with `/verify set`."
	msgMismatch    = "The code is not in the bio yet."
	msgVerified    = "You are already verified as that character."
	msgFull        = "Your favorites list is full."
)

// Dispatcher runs one interaction to completion.
type Dispatcher struct {
	commands *commands.Set
	router   *interaction.Router
	worlds   *worlds.Catalog
	timeout  time.Duration
	log      logger.Logger
}

// NewDispatcher builds a dispatcher. Each interaction gets at most timeout.
func NewDispatcher(set *commands.Set, router *interaction.Router, catalog *worlds.Catalog, timeout time.Duration, log logger.Logger) *Dispatcher {
	if catalog == nil {
		catalog = worlds.NewCatalog()
	}
	return &Dispatcher{
		commands: set,
		router:   router,
		worlds:   catalog,
		timeout:  timeout,
		log:      log,
	}
}

// Dispatch handles i and answers through resp. It never panics and always
// leaves one log line.
func (d *Dispatcher) Dispatch(ctx context.Context, i *discordgo.Interaction, resp interaction.Responder) {
	start := time.Now()
	tracked := interaction.Track(resp)
	kind, name := describe(i)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := d.run(ctx, i, tracked, kind)
	outcome := d.report(ctx, i, tracked, err)

	metrics.ObserveInteraction(kind, outcome)
	fields := []logger.Field{
		logger.String("kind", kind),
		logger.String("name", name),
		logger.String("user_id", interaction.UserID(i)),
		logger.String("outcome", outcome),
		logger.Duration("duration", time.Since(start)),
	}
	switch outcome {
	case OutcomeOK, OutcomeUserError, OutcomeUnauthorized:
		d.log.Info("interaction handled", append(fields, logger.Error(err))...)
	default:
		d.log.Error("interaction failed", append(fields, logger.Error(err))...)
	}
}

func (d *Dispatcher) run(ctx context.Context, i *discordgo.Interaction, resp *interaction.Tracked, kind string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()

	switch kind {
	case KindCommand:
		name := i.ApplicationCommandData().Name
		cmd, ok := d.commands.Get(name)
		if !ok {
			return fmt.Errorf("unknown command %q", name)
		}
		return cmd.HandleCommand(ctx, i, resp)

	case KindComponent:
		ev, err := interaction.EventFromInteraction(i)
		if err != nil {
			return err
		}
		ev.Responder = resp
		return d.router.Route(ctx, ev)

	case KindAutocomplete:
		return d.autocomplete(ctx, i, resp)

	default:
		return fmt.Errorf("unsupported interaction type %v", i.Type)
	}
}

// autocomplete suggests worlds for the focused option.
func (d *Dispatcher) autocomplete(ctx context.Context, i *discordgo.Interaction, resp *interaction.Tracked) error {
	choices := []*discordgo.ApplicationCommandOptionChoice{}
	if opt, ok := commands.FocusedOption(i); ok && opt.Name == "world" {
		for _, w := range d.worlds.Suggest(opt.StringValue(), maxChoices) {
			label := w.Name
			if w.Datacenter != "" {
				label = fmt.Sprintf("%s (%s)", w.Name, w.Datacenter)
			}
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: label, Value: w.Name})
		}
	}
	return resp.Respond(ctx, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

// report shows err to the user when it should be shown and returns the outcome label.
func (d *Dispatcher) report(ctx context.Context, i *discordgo.Interaction, resp *interaction.Tracked, err error) string {
	if err == nil {
		return OutcomeOK
	}

	outcome, msg := classify(err)
	if msg == "" || i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		return outcome
	}

	// The handler context may already be done.
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if nerr := resp.Notify(nctx, i, msg); nerr != nil {
		d.log.Warn("failed to send error notice", logger.Error(nerr))
	}
	return outcome
}

// classify maps err to an outcome and the message shown to the user. An
// empty message means the user was already told.
func classify(err error) (string, string) {
	var ue *commands.UserError
	var pe *panicError
	switch {
	case errors.As(err, &pe):
		return OutcomePanic, msgGeneric
	case errors.As(err, &ue):
		return OutcomeUserError, ue.Msg
	case errors.Is(err, domain.ErrUnauthorizedActor):
		return OutcomeUnauthorized, ""
	case errors.Is(err, domain.ErrMalformedToken):
		return OutcomeMalformed, msgStale
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout, msgTimeout
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return OutcomeUpstream, msgUpstream
	case errors.Is(err, domain.ErrVerificationMismatch):
		return OutcomeUserError, msgMismatch
	case errors.Is(err, domain.ErrNoPendingChallenge):
		return OutcomeUserError, msgNoChallenge
	case errors.Is(err, domain.ErrAlreadyVerified):
		return OutcomeUserError, msgVerified
	case errors.Is(err, domain.ErrFavoritesFull):
		return OutcomeUserError, msgFull
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeUserError, msgNotFound
	default:
		return OutcomeError, msgGeneric
	}
}

func describe(i *discordgo.Interaction) (kind, name string) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand, discordgo.InteractionApplicationCommandAutocomplete:
		kind = KindCommand
		if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
			kind = KindAutocomplete
		}
		if data, ok := i.Data.(discordgo.ApplicationCommandInteractionData); ok {
			name = data.Name
		}
		return kind, name
	case discordgo.InteractionMessageComponent:
		if data, ok := i.Data.(discordgo.MessageComponentInteractionData); ok {
			name = interaction.Namespace(data.CustomID)
		}
		return KindComponent, name
	default:
		return fmt.Sprintf("type_%d", i.Type), ""
	}
}

type panicError struct{ value any }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }
