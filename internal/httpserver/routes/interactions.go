package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/naago/internal/httpserver/deps"
	"github.com/MrSnakeDoc/naago/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/naago/internal/httpserver/mw"
)

func init() { Register(registerInteractions) }

func registerInteractions(r chi.Router, d deps.Deps) {
	if len(d.PublicKey) == 0 || d.Interactions == nil {
		d.Logger.Debug("webhook mode disabled, POST /interactions not registered")
		return
	}
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.InteractionsBurst,
		RefillPerIPPerMin: d.InteractionsPerMinute,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})).Post("/interactions", handlers.Interactions(d))
}
