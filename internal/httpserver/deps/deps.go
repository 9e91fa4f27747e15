package deps

import (
	"context"
	"crypto/ed25519"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/interaction"
	"github.com/MrSnakeDoc/naago/internal/logger"
	"github.com/MrSnakeDoc/naago/internal/sources/worlds"
)

// Pinger is a backing store that can report whether it answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WebhookDispatcher runs an interaction received over HTTP and returns the
// response to write as the body.
type WebhookDispatcher interface {
	DispatchWebhook(ctx context.Context, i *discordgo.Interaction, rest interaction.Responder, wait time.Duration) (resp *discordgo.InteractionResponse, written func(), ok bool)
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	AllowedCIDRS []string // IPs allowed to access /infra, /reload and /metrics
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)

	CharacterStore     Pinger // Redis or in-memory record store
	CharacterStoreMode string // "redis" | "memory"
	Database           Pinger // Postgres

	Worlds        *worlds.Catalog
	ReloadTrigger chan struct{} // Channel to trigger a manual world catalog reload

	// Webhook mode, enabled when PublicKey is set.
	PublicKey             ed25519.PublicKey
	Interactions          WebhookDispatcher
	Rest                  interaction.Responder // answers after the first response
	WebhookWait           time.Duration         // how long the HTTP request waits for the first response
	InteractionsBurst     int
	InteractionsPerMinute int
}
