package devapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/heartmarshall/moviereviews/internal/auth"
	"github.com/heartmarshall/moviereviews/internal/config"
	"github.com/heartmarshall/moviereviews/internal/schema"
	"github.com/heartmarshall/moviereviews/internal/transport/middleware"
	"github.com/heartmarshall/moviereviews/internal/transport/rest"
)

const maxRequestBody = 1 << 20

// TokenValidator checks bearer tokens. A nil validator disables Auth.
type TokenValidator interface {
	ValidateAccessToken(token string) (auth.Identity, error)
}

// Server is the development GraphQL API over an in-memory store.
type Server struct {
	cfg     config.DevAPIConfig
	log     *slog.Logger
	store   *Store
	limiter *middleware.RateLimiter
	handler http.Handler
}

// NewServer builds the router and middleware chain.
func NewServer(cfg config.DevAPIConfig, store *Store, tokens TokenValidator, logger *slog.Logger, version string) (*Server, error) {
	sch, err := schema.Load()
	if err != nil {
		return nil, err
	}
	if cfg.RequireAuth && tokens == nil {
		return nil, errors.New("devapi: require_auth needs a token validator")
	}

	log := logger.With("component", "devapi")
	s := &Server{
		cfg:     cfg,
		log:     log,
		store:   store,
		limiter: middleware.NewRateLimiter(time.Minute),
	}
	gqlSrv := NewGraphQLHandler(sch, NewResolver(store, logger, cfg.RequireAuth), logger)

	health := rest.NewHealthHandler(map[string]rest.Checker{
		"store": store,
		"schema": rest.CheckerFunc(func(context.Context) error {
			_, err := schema.Load()
			return err
		}),
	}, version)

	router := mux.NewRouter()
	router.Handle("/graphql", http.MaxBytesHandler(gqlSrv, maxRequestBody)).Methods(http.MethodPost)
	router.HandleFunc("/schema", s.handleSchema).Methods(http.MethodGet)
	router.HandleFunc("/live", health.Live).Methods(http.MethodGet)
	router.HandleFunc("/ready", health.Ready).Methods(http.MethodGet)
	router.HandleFunc("/health", health.Health).Methods(http.MethodGet)

	var authMW middleware.Middleware
	if tokens != nil {
		authMW = middleware.Auth(tokens)
	}

	s.handler = middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(log),
		middleware.CORS(cfg.CORS),
		s.limiter.Limit(cfg.RateLimit),
		authMW,
		middleware.Logger(log),
	)(router)
	return s, nil
}

// Handler returns the HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler { return s.handler }

// Close releases background resources. Serve calls it on return.
func (s *Server) Close() { s.limiter.Stop() }

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("devapi: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.Close()

	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dev api listening", slog.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("devapi: serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("dev api shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("devapi: shutdown: %w", err)
	}
	<-errCh
	s.log.Info("dev api stopped")
	return nil
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/graphql; charset=utf-8")
	_, _ = io.WriteString(w, schema.Source())
}
