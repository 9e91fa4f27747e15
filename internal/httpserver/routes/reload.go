package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/naago/internal/httpserver/deps"
	"github.com/MrSnakeDoc/naago/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/naago/internal/httpserver/mw"
	"github.com/MrSnakeDoc/naago/internal/metrics"
)

func init() { Register(registerOperator) }

// Operator endpoints are restricted to the allowed CIDRs.
func registerOperator(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Get("/infra", handlers.Infra(d))
		r.Post("/reload", handlers.Reload(d))
		r.Method("GET", "/metrics", metrics.Handler())
	})
}
