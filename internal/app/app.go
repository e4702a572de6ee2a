package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/moviereviews/internal/adapter/graphql"
	"github.com/heartmarshall/moviereviews/internal/adapter/reviewsapi"
	"github.com/heartmarshall/moviereviews/internal/auth"
	"github.com/heartmarshall/moviereviews/internal/config"
	"github.com/heartmarshall/moviereviews/internal/devapi"
	"github.com/heartmarshall/moviereviews/internal/service/review"
	"github.com/heartmarshall/moviereviews/internal/state"
)

// App is the wired client: the API adapter, the state store with its effects
// and the review service on top of both.
type App struct {
	Config  *config.Config
	Log     *slog.Logger
	API     *reviewsapi.API
	Store   *state.Store
	Reviews *review.Service
}

// New wires the client from configuration. Nothing runs until Start or Run.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	opts := []graphql.Option{graphql.WithTimeout(cfg.API.Timeout)}
	if cfg.Auth.Token != "" {
		opts = append(opts, graphql.WithBearerToken(cfg.Auth.Token))
	}

	api, err := reviewsapi.New(cfg.API.Endpoint, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	store := state.NewStore(logger, state.WithQueueSize(cfg.Store.QueueSize))
	state.NewEffects(api, logger).Register(store)

	identity := NewIdentityResolver(cfg.Auth, logger)

	logger.Info("client configured",
		slog.String("version", Version),
		slog.String("endpoint", cfg.API.Endpoint),
		slog.Bool("token", cfg.Auth.Token != ""),
	)

	return &App{
		Config:  cfg,
		Log:     logger,
		API:     api,
		Store:   store,
		Reviews: review.NewService(logger, store, identity),
	}, nil
}

// Run drives the store until ctx is done or Close is called.
func (a *App) Run(ctx context.Context) error {
	return a.Store.Run(ctx)
}

// Start runs the store in the background. The returned stop function closes
// the store and waits for in-flight effects to finish.
func (a *App) Start(ctx context.Context) (stop func() error) {
	errCh := make(chan error, 1)
	go func() { errCh <- a.Store.Run(ctx) }()

	return func() error {
		a.Store.Close()
		return <-errCh
	}
}

// NewJWTManager returns nil when no secret is configured.
func NewJWTManager(cfg config.AuthConfig) *auth.JWTManager {
	if cfg.JWTSecret == "" {
		return nil
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)
}

// NewIdentityResolver builds the reviewer chain: the request context first,
// then the configured token, then the fallback reviewer.
func NewIdentityResolver(cfg config.AuthConfig, logger *slog.Logger) auth.Resolver {
	resolvers := []auth.Resolver{auth.ContextResolver{}}
	if cfg.HasTokenIdentity() {
		resolvers = append(resolvers, auth.NewTokenResolver(cfg.Token, NewJWTManager(cfg)))
	}
	return auth.NewChainResolver(logger, cfg.FallbackUserID, resolvers...)
}

// RunDevAPI serves the seeded in-memory API until ctx is done.
func RunDevAPI(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var tokens devapi.TokenValidator
	if jwt := NewJWTManager(cfg.Auth); jwt != nil {
		tokens = jwt
	}

	srv, err := devapi.NewServer(cfg.DevAPI, devapi.NewSeededStore(), tokens, logger, BuildVersion())
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}

	logger.Info("starting dev api",
		slog.String("version", BuildVersion()),
		slog.String("addr", srv.Addr()),
		slog.Bool("require_auth", cfg.DevAPI.RequireAuth),
	)
	return srv.Run(ctx)
}
