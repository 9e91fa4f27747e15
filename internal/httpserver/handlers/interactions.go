package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/httpserver/deps"
	"github.com/MrSnakeDoc/naago/internal/logger"
)

const maxInteractionBody = 1 << 20

// Interactions receives interactions in webhook mode. Requests must carry a
// valid ed25519 signature. The first response of the handler is written as
// the HTTP body; later edits go through the REST responder.
func Interactions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxInteractionBody)
		if !discordgo.VerifyInteraction(r, d.PublicKey) {
			d.Logger.Warn("rejected interaction with invalid signature",
				logger.String("remote_ip", r.RemoteAddr))
			http.Error(w, "invalid request signature", http.StatusUnauthorized)
			return
		}

		var i discordgo.Interaction
		if err := json.NewDecoder(r.Body).Decode(&i); err != nil {
			http.Error(w, "invalid interaction payload", http.StatusBadRequest)
			return
		}

		if i.Type == discordgo.InteractionPing {
			writeInteractionResponse(w, d, &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong})
			return
		}

		resp, written, ok := d.Interactions.DispatchWebhook(r.Context(), &i, d.Rest, d.WebhookWait)
		if !ok {
			d.Logger.Error("interaction produced no response in time",
				logger.String("interaction_id", i.ID))
			http.Error(w, "no response", http.StatusServiceUnavailable)
			return
		}
		defer written()
		writeInteractionResponse(w, d, resp)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

func writeInteractionResponse(w http.ResponseWriter, d deps.Deps, resp *discordgo.InteractionResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		d.Logger.Debug("failed to write interaction response", logger.Error(err))
	}
}
