package interaction

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/logger"
	"github.com/MrSnakeDoc/naago/internal/metrics"
)

// NotYourControl is shown when someone clicks another user's control.
const NotYourControl = "This control belongs to someone else. Run the command yourself to get your own."

// Handler is the update handler of a command namespace.
type Handler interface {
	HandleComponent(ctx context.Context, ev Event, tok Token) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev Event, tok Token) error

func (f HandlerFunc) HandleComponent(ctx context.Context, ev Event, tok Token) error {
	return f(ctx, ev, tok)
}

// Router authorizes, debounces, decodes and dispatches control activations.
type Router struct {
	codec     *Codec
	cooldown  *Cooldown
	responder Responder
	log       logger.Logger

	handlers map[string]Handler
}

// NewRouter creates a router. Each router owns its cooldown set. responder
// is used for events that do not carry their own.
func NewRouter(codec *Codec, cooldown *Cooldown, responder Responder, log logger.Logger) *Router {
	if log == nil {
		log = logger.Nop()
	}
	if cooldown == nil {
		cooldown = NewCooldown(DefaultCooldown, time.Now)
	}
	return &Router{
		codec:     codec,
		cooldown:  cooldown,
		responder: responder,
		log:       log,
		handlers:  make(map[string]Handler),
	}
}

// Codec returns the codec used to decode identifiers.
func (r *Router) Codec() *Codec { return r.codec }

// Handle registers the update handler of namespace. It panics when the
// namespace has no table or already has a handler.
func (r *Router) Handle(namespace string, h Handler) {
	if _, ok := r.codec.Table(namespace); !ok {
		panic(fmt.Sprintf("interaction router: no table for namespace %q", namespace))
	}
	if _, dup := r.handlers[namespace]; dup {
		panic(fmt.Sprintf("interaction router: duplicate handler for namespace %q", namespace))
	}
	r.handlers[namespace] = h
}

// Route processes one activation. It ends in exactly one of: a rejection
// notice (domain.ErrUnauthorizedActor is returned), a silent acknowledgement
// (cooldown, nil is returned), a decode failure (wraps
// domain.ErrMalformedToken, nothing was dispatched) or the handler's result.
func (r *Router) Route(ctx context.Context, ev Event) error {
	if ev.Responder == nil {
		ev.Responder = Track(r.responder)
	}

	if ev.ActorID == "" || ev.ActorID != ev.OwnerID {
		if err := ev.Responder.Respond(ctx, ev.Interaction, EphemeralNotice(NotYourControl)); err != nil {
			r.log.Warn("failed to send ownership notice", logger.Error(err))
		}
		return fmt.Errorf("%w: actor %q, owner %q", domain.ErrUnauthorizedActor, ev.ActorID, ev.OwnerID)
	}

	if !r.cooldown.Acquire(ev.ActorID) {
		metrics.ObserveCooldownDrop()
		r.log.Debug("control activation debounced", logger.String("user_id", ev.ActorID))
		if err := ev.Responder.Respond(ctx, ev.Interaction, DeferredUpdate()); err != nil {
			r.log.Warn("failed to acknowledge debounced activation", logger.Error(err))
		}
		return nil
	}

	tok, err := r.decode(ev)
	if err != nil {
		return err
	}

	h, ok := r.handlers[tok.Namespace]
	if !ok {
		return fmt.Errorf("%w: no handler for namespace %q", domain.ErrMalformedToken, tok.Namespace)
	}

	if err := h.HandleComponent(ctx, ev, tok); err != nil {
		return fmt.Errorf("%s.%s: %w", tok.Namespace, tok.Selector, err)
	}
	return nil
}

// decode reads the token from the chosen menu option when there is one,
// otherwise from the control identifier. A menu option must belong to the
// menu's namespace.
func (r *Router) decode(ev Event) (Token, error) {
	if len(ev.Values) == 0 {
		tok, err := r.codec.Decode(ev.CustomID)
		if err != nil {
			return Token{}, err
		}
		if tok.Kind == KindMenu {
			return Token{}, fmt.Errorf("%w: menu %q activated without a value", domain.ErrMalformedToken, ev.CustomID)
		}
		return tok, nil
	}

	menu, err := r.codec.Decode(ev.CustomID)
	if err != nil {
		return Token{}, err
	}
	tok, err := r.codec.Decode(ev.Values[0])
	if err != nil {
		return Token{}, err
	}
	if tok.Namespace != menu.Namespace {
		return Token{}, fmt.Errorf("%w: option %q does not belong to menu %q", domain.ErrMalformedToken, ev.Values[0], ev.CustomID)
	}
	if tok.Kind == KindMenu {
		return Token{}, fmt.Errorf("%w: option %q is a menu", domain.ErrMalformedToken, ev.Values[0])
	}
	return tok, nil
}
