package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/naago/internal/bot"
	"github.com/MrSnakeDoc/naago/internal/cache"
	"github.com/MrSnakeDoc/naago/internal/commands"
	"github.com/MrSnakeDoc/naago/internal/config"
	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/httpserver"
	"github.com/MrSnakeDoc/naago/internal/httpserver/deps"
	"github.com/MrSnakeDoc/naago/internal/index"
	"github.com/MrSnakeDoc/naago/internal/interaction"
	"github.com/MrSnakeDoc/naago/internal/lodestone"
	"github.com/MrSnakeDoc/naago/internal/logger"
	"github.com/MrSnakeDoc/naago/internal/redis"
	"github.com/MrSnakeDoc/naago/internal/render"
	"github.com/MrSnakeDoc/naago/internal/scheduler"
	"github.com/MrSnakeDoc/naago/internal/sources/worlds"
	"github.com/MrSnakeDoc/naago/internal/store/postgres"
	redisstore "github.com/MrSnakeDoc/naago/internal/store/redis"
	"github.com/MrSnakeDoc/naago/internal/utils"
	"github.com/MrSnakeDoc/naago/internal/verification"
	"github.com/MrSnakeDoc/naago/internal/version"
)

// webhookWait leaves headroom under the platform's 3s answer deadline.
const webhookWait = 2500 * time.Millisecond

// characterStore is implemented by both the Redis store and the memory index.
type characterStore interface {
	FindCharacter(ctx context.Context, id int64) (*domain.CharacterRecord, error)
	UpsertCharacter(ctx context.Context, record *domain.CharacterRecord) error
	DeleteCharacter(ctx context.Context, id int64) error
	ListCharacters(ctx context.Context) ([]*domain.CharacterRecord, error)
	Ping(ctx context.Context) error
}

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	bot         *bot.Bot
	session     *discordgo.Session
	db          *sql.DB
	redisClient *goredis.Client
	reloader    *scheduler.WorldsReloader
	gc          *scheduler.GarbageCollector
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	startCtx, cancel := context.WithTimeout(context.Background(), cfg.RedisConnectTimeout+30*time.Second)
	defer cancel()

	// Character records: Redis when configured, memory otherwise.
	var (
		records     characterStore
		recordsMode string
		redisClient *goredis.Client
	)
	if cfg.RedisAddr != "" {
		client, err := redis.New(startCtx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		records = redisstore.NewStore(client)
		recordsMode = "redis"
	} else {
		loggerClient.Warn("NAAGO_REDIS_ADDR not set, character records are kept in memory")
		records = index.NewMemoryIndex()
		recordsMode = "memory"
	}

	// Identity links, preferences, favorites.
	db, err := postgres.Open(startCtx, cfg.DatabaseURL)
	if err != nil {
		loggerClient.Errorf("Failed to open database: %v", err)
		os.Exit(1)
	}
	pg := postgres.NewStore(db)
	if err := pg.Migrate(startCtx); err != nil {
		loggerClient.Errorf("Failed to migrate database: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("database ready")

	client := lodestone.New(cfg.LodestoneURL, cfg.LodestoneTimeout)
	characters := cache.New(records, client, cfg.CharacterTTL, loggerClient)
	verifier := verification.New(pg, client, characters, loggerClient,
		verification.WithRecordWriter(records))

	catalog := worlds.NewCatalog()
	var (
		reloader      *scheduler.WorldsReloader
		reloadTrigger chan struct{}
	)
	if cfg.WorldsFile != "" {
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewWorldsReloader(cfg.WorldsFile, catalog, loggerClient, cfg.ReloadInterval, reloadTrigger)
	} else {
		loggerClient.Info("worlds file not configured, world names are not validated")
	}

	gc := scheduler.NewGarbageCollector(records, pg, loggerClient, cfg.GCInterval, cfg.CharacterRetention)

	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		loggerClient.Errorf("Failed to create discord session: %v", err)
		os.Exit(1)
	}
	rest := bot.SessionResponder{Session: session}

	codec := interaction.NewCodec(commands.Tables()...)
	set := commands.NewSet(commands.Deps{
		Codec:       codec,
		Renderer:    render.New(codec),
		Characters:  characters,
		Search:      client,
		Verifier:    verifier,
		Preferences: pg,
		Favorites:   pg,
		Worlds:      catalog,
		Logger:      loggerClient,
	})
	router := interaction.NewRouter(codec, interaction.NewCooldown(cfg.Cooldown, time.Now), rest, loggerClient)
	set.Register(router)

	dispatcher := bot.NewDispatcher(set, router, catalog, cfg.InteractionTimeout, loggerClient)
	b := bot.New(session, dispatcher, set, bot.Options{
		Token:   cfg.DiscordToken,
		AppID:   cfg.DiscordAppID,
		GuildID: cfg.DiscordGuildID,
	}, loggerClient)

	d := deps.Deps{
		Logger:                loggerClient,
		StartTime:             time.Now(),
		Version:               version.Version,
		Commit:                version.Commit,
		BuildDate:             version.BuildDate,
		GoVersion:             version.GoVersion,
		AllowedCIDRS:          cfg.AllowedCIDRS,
		TrustProxy:            cfg.TrustProxy,
		CharacterStore:        records,
		CharacterStoreMode:    recordsMode,
		Database:              pg,
		Worlds:                catalog,
		ReloadTrigger:         reloadTrigger,
		PublicKey:             cfg.DiscordPublicKey,
		Interactions:          dispatcher,
		Rest:                  rest,
		WebhookWait:           webhookWait,
		InteractionsBurst:     cfg.InteractionsBurst,
		InteractionsPerMinute: cfg.InteractionsPerMinute,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		bot:         b,
		session:     session,
		db:          db,
		redisClient: redisClient,
		reloader:    reloader,
		gc:          gc,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting naago v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("naago %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start worlds reloader: %w", err)
		}
		a.logger.Info("worlds reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.Duration("retention", a.cfg.CharacterRetention))

	if err := a.bot.Start(ctx); err != nil {
		return fmt.Errorf("failed to start discord bot: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	if err := a.bot.Stop(); err != nil {
		a.logger.Warn("failed to close discord gateway", logger.Error(err))
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		a.logger.Warn("failed to stop server", logger.Error(err))
	}

	utils.MustClose(a.db, a.logger)
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ naago stopped cleanly")
	return nil
}
