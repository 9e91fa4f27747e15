package commands

import (
	"context"

	"github.com/MrSnakeDoc/naago/internal/interaction"
	"github.com/MrSnakeDoc/naago/internal/render"
)

// showPage answers a page control of namespace by rendering the requested
// page of the character carried in the token.
func showPage(ctx context.Context, d Deps, ev interaction.Event, tok interaction.Token) error {
	id, err := tok.ID(0)
	if err != nil {
		return err
	}
	rep := componentReply(ctx, ev, d.Logger)
	c, err := d.Characters.Get(ctx, id, rep.wait)
	if err != nil {
		return err
	}
	view, err := d.Renderer.Character(tok.Namespace, tok.Selector, tok.Arg(1), c, themeFor(ctx, d, ev.ActorID))
	if err != nil {
		return err
	}
	return rep.send(view)
}

// showProfile renders the profile page of id as the answer to a command or
// a control.
func showProfile(ctx context.Context, d Deps, rep *reply, namespace, userID string, id int64) error {
	c, err := d.Characters.Get(ctx, id, rep.wait)
	if err != nil {
		return err
	}
	view, err := d.Renderer.Character(namespace, render.PageProfile, "", c, themeFor(ctx, d, userID))
	if err != nil {
		return err
	}
	return rep.send(view)
}
