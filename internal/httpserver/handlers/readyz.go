package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/naago/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool              `json:"ready"`
	Checks map[string]string `json:"checks"`
}

// Readyz reports ready when the record store and the database answer.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := readyzResponse{Ready: true, Checks: map[string]string{}}
		for name, p := range map[string]deps.Pinger{"characters": d.CharacterStore, "database": d.Database} {
			if err := ping(ctx, p); err != nil {
				resp.Ready = false
				resp.Checks[name] = err.Error()
				continue
			}
			resp.Checks[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if !resp.Ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func ping(ctx context.Context, p deps.Pinger) error {
	if p == nil {
		return errNotConfigured
	}
	return p.Ping(ctx)
}
