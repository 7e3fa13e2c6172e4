package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-hotel-concierge/app/db"
	appMiddleware "github.com/FACorreiaa/go-hotel-concierge/app/middleware"
	"github.com/FACorreiaa/go-hotel-concierge/config"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/booking"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/concierge"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/credentials"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/dashboard"
	generativeAI "github.com/FACorreiaa/go-hotel-concierge/internal/api/generative_ai"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/session"
	"github.com/FACorreiaa/go-hotel-concierge/internal/router"
)

const (
	DirectoryStatic   = "static"
	DirectoryPostgres = "postgres"

	BackendREST  = "rest"
	BackendGenAI = "genai"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Pool        *pgxpool.Pool
	Credentials credentials.Store
	Directory   booking.Directory
	Generators  concierge.Service
	Sessions    *session.ServiceImpl
	Dashboards  *dashboard.Registry

	SessionHandler     *session.Handler
	DashboardHandler   *dashboard.Handler
	CredentialsHandler *credentials.Handler
	Authenticate       func(http.Handler) http.Handler
}

type options struct {
	clock       booking.Clock
	credentials credentials.Store
	directory   booking.Directory
}

// Option overrides one of the collaborators NewContainer would build from config.
type Option func(*options)

func WithClock(clock booking.Clock) Option {
	return func(o *options) { o.clock = clock }
}

func WithCredentialStore(store credentials.Store) Option {
	return func(o *options) { o.credentials = store }
}

func WithDirectory(directory booking.Directory) Option {
	return func(o *options) { o.directory = directory }
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Container{Config: cfg, Logger: logger}

	// Credentials
	c.Credentials = o.credentials
	if c.Credentials == nil {
		store, err := credentials.NewFileStore(cfg.Credentials.File, cfg.Generation.APIKey, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open credential store: %w", err)
		}
		c.Credentials = store
	}

	// Booking directory
	c.Directory = o.directory
	if c.Directory == nil {
		directory, err := c.newDirectory(ctx, o.clock)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Directory = directory
	}

	// Generation
	transport, err := newTransport(cfg.Generation, c.Credentials, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	mt := cfg.Generation.MaxTokens
	c.Generators = concierge.NewServiceImpl(transport, c.Credentials, concierge.TokenLimits{
		Insight:     mt.Insight,
		Caption:     mt.Caption,
		Itinerary:   mt.Itinerary,
		Attractions: mt.Attractions,
		Image:       mt.Image,
	}, logger)

	// Sessions
	tokens, err := session.NewTokenIssuer(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		c.Close()
		return nil, err
	}
	sessionStore := session.NewStore(cfg.Session.TTL)
	c.Sessions = session.NewServiceImpl(c.Directory, c.Generators, sessionStore, tokens, o.clock, logger)
	c.Dashboards = dashboard.NewRegistry(c.Directory, c.Generators, cfg.Chat.MaxHistoryTurns, cfg.Session.TTL, logger)
	sessionStore.OnEvicted(c.Dashboards.Forget)

	// Handlers
	c.SessionHandler = session.NewHandler(c.Sessions, logger)
	c.DashboardHandler = dashboard.NewHandler(c.Dashboards, logger)
	c.CredentialsHandler = credentials.NewHandler(c.Credentials, logger)
	c.Authenticate = appMiddleware.Authenticate(logger, tokens, c.Sessions)

	return c, nil
}

func (c *Container) newDirectory(ctx context.Context, clock booking.Clock) (booking.Directory, error) {
	switch c.Config.Directory.Backend {
	case "", DirectoryStatic:
		return booking.NewStaticDirectory(clock), nil
	case DirectoryPostgres:
		dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
		if err != nil {
			c.Logger.Error("Failed to generate database config", slog.Any("error", err))
			return nil, err
		}
		if err = database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
			c.Logger.Error("Failed to run database migrations", slog.Any("error", err))
			return nil, err
		}
		pool, err := database.Init(ctx, dbConfig.ConnectionURL, c.Logger)
		if err != nil {
			c.Logger.Error("Failed to initialize database pool", slog.Any("error", err))
			return nil, err
		}
		c.Pool = pool
		if !database.WaitForDB(ctx, pool, c.Logger) {
			return nil, fmt.Errorf("database not ready")
		}
		return booking.NewPostgresDirectory(pool, c.Logger), nil
	default:
		return nil, fmt.Errorf("unknown directory backend %q", c.Config.Directory.Backend)
	}
}

func newTransport(cfg config.GenerationConfig, source generativeAI.CredentialSource, logger *slog.Logger) (generativeAI.Transport, error) {
	tc := generativeAI.TransportConfig{
		BaseURL:           cfg.BaseURL,
		TextModel:         cfg.TextModel,
		ImageModel:        cfg.ImageModel,
		ChatMaxTokens:     cfg.MaxTokens.Chat,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}
	switch cfg.Backend {
	case "", BackendREST:
		return generativeAI.NewHTTPTransport(tc, source, logger), nil
	case BackendGenAI:
		return generativeAI.NewGenAITransport(tc, source, logger), nil
	default:
		return nil, fmt.Errorf("unknown generation backend %q", cfg.Backend)
	}
}

// RouterConfig collects the handlers for router.SetupRouter.
func (c *Container) RouterConfig() *router.Config {
	return &router.Config{
		SessionHandler:          c.SessionHandler,
		DashboardHandler:        c.DashboardHandler,
		CredentialsHandler:      c.CredentialsHandler,
		AuthenticateMiddleware:  c.Authenticate,
		AllowCredentialOverride: c.Config.Credentials.AllowOverride,
		AllowedOrigins:          c.Config.CORS.AllowedOrigins,
		RateLimitRequests:       c.Config.RateLimit.Requests,
		RateLimitWindow:         c.Config.RateLimit.Window,
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
