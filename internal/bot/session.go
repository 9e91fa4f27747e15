package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/MrSnakeDoc/naago/internal/commands"
	"github.com/MrSnakeDoc/naago/internal/logger"
)

// SessionResponder answers interactions through the REST API of a session.
type SessionResponder struct {
	Session *discordgo.Session
}

func (r SessionResponder) Respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return r.Session.InteractionRespond(i, resp, discordgo.WithContext(ctx))
}

func (r SessionResponder) Edit(ctx context.Context, i *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	_, err := r.Session.InteractionResponseEdit(i, edit, discordgo.WithContext(ctx))
	return err
}

func (r SessionResponder) Followup(ctx context.Context, i *discordgo.Interaction, params *discordgo.WebhookParams) error {
	_, err := r.Session.FollowupMessageCreate(i, true, params, discordgo.WithContext(ctx))
	return err
}

// Options configure the gateway bot.
type Options struct {
	Token string
	AppID string
	// GuildID scopes command registration to one guild when set.
	GuildID string
}

// Bot owns the gateway session.
type Bot struct {
	session    *discordgo.Session
	dispatcher *Dispatcher
	commands   *commands.Set
	opts       Options
	log        logger.Logger
	remove     func()
}

// NewSession creates a session for token without connecting it.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	return s, nil
}

func New(session *discordgo.Session, dispatcher *Dispatcher, set *commands.Set, opts Options, log logger.Logger) *Bot {
	return &Bot{
		session:    session,
		dispatcher: dispatcher,
		commands:   set,
		opts:       opts,
		log:        log,
	}
}

// Start registers the commands and opens the gateway. Interactions are
// dispatched on the session's handler goroutines.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.RegisterCommands(ctx); err != nil {
		return err
	}

	b.remove = b.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		b.dispatcher.Dispatch(context.Background(), ic.Interaction, SessionResponder{Session: s})
	})

	if err := b.session.Open(); err != nil {
		b.remove()
		return fmt.Errorf("open gateway: %w", err)
	}
	b.log.Info("discord gateway connected",
		logger.String("app_id", b.opts.AppID),
		logger.String("guild_id", b.opts.GuildID))
	return nil
}

// RegisterCommands replaces the application commands with the current set.
func (b *Bot) RegisterCommands(ctx context.Context) error {
	defs := b.commands.Definitions()
	registered, err := b.session.ApplicationCommandBulkOverwrite(b.opts.AppID, b.opts.GuildID, defs, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	b.log.Info("application commands registered", logger.Int("count", len(registered)))
	return nil
}

// Stop closes the gateway.
func (b *Bot) Stop() error {
	if b.remove != nil {
		b.remove()
	}
	return b.session.Close()
}
