package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/naago/internal/httpserver/deps"
)

var errNotConfigured = errors.New("not configured")

type componentStatus struct {
	OK          bool   `json:"ok"`
	Mode        string `json:"mode,omitempty"`
	WorldsKnown *int   `json:"worlds_known,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of every backing component.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]componentStatus{
			"characters": checkCharacters(ctx, d),
			"database":   checkDatabase(ctx, d),
			"worlds":     checkWorlds(d),
			"webhook": {
				OK:   true,
				Mode: webhookMode(d),
			},
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if db := components["database"]; !db.OK {
		return "critical" // no links, no verification
	}
	if c := components["characters"]; !c.OK {
		return "degraded" // every lookup goes upstream
	}
	if w := components["worlds"]; !w.OK {
		return "degraded" // world names are not validated
	}
	return "ok"
}

func checkCharacters(ctx context.Context, d deps.Deps) componentStatus {
	if err := ping(ctx, d.CharacterStore); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.CharacterStoreMode,
			Impact: "cache-unavailable",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: d.CharacterStoreMode}
}

func checkDatabase(ctx context.Context, d deps.Deps) componentStatus {
	if err := ping(ctx, d.Database); err != nil {
		return componentStatus{
			OK:     false,
			Impact: "verification-disabled",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: "postgres"}
}

func checkWorlds(d deps.Deps) componentStatus {
	if d.Worlds == nil {
		return componentStatus{OK: false, Error: errNotConfigured.Error()}
	}
	n := d.Worlds.Len()
	status := componentStatus{OK: n > 0, WorldsKnown: &n}
	if n == 0 {
		status.Impact = "world-validation-disabled"
	}
	return status
}

func webhookMode(d deps.Deps) string {
	if len(d.PublicKey) == 0 {
		return "gateway"
	}
	return "gateway+webhook"
}
