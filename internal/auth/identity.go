package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/heartmarshall/moviereviews/internal/domain"
	"github.com/heartmarshall/moviereviews/pkg/ctxutil"
)

// ErrNoIdentity is returned by a Resolver that cannot name the reviewer.
var ErrNoIdentity = errors.New("no reviewer identity")

// Resolver names the reviewer a new review is submitted as.
type Resolver interface {
	ReviewerID(ctx context.Context) (string, error)
}

// StaticResolver always returns the same reviewer ID.
type StaticResolver struct {
	ID string
}

// ReviewerID implements Resolver.
func (r StaticResolver) ReviewerID(context.Context) (string, error) {
	if r.ID == "" {
		return "", ErrNoIdentity
	}
	return r.ID, nil
}

// ContextResolver reads the reviewer set via ctxutil.WithReviewerID.
type ContextResolver struct{}

// ReviewerID implements Resolver.
func (ContextResolver) ReviewerID(ctx context.Context) (string, error) {
	id, ok := ctxutil.ReviewerIDFromCtx(ctx)
	if !ok {
		return "", ErrNoIdentity
	}
	return id.String(), nil
}

// tokenValidator is the subset of JWTManager a TokenResolver needs.
type tokenValidator interface {
	ValidateAccessToken(token string) (Identity, error)
}

// TokenResolver takes the reviewer from a configured access token.
type TokenResolver struct {
	token     string
	validator tokenValidator
}

// NewTokenResolver creates a resolver for the given token.
func NewTokenResolver(token string, validator tokenValidator) *TokenResolver {
	return &TokenResolver{token: token, validator: validator}
}

// ReviewerID implements Resolver.
func (r *TokenResolver) ReviewerID(context.Context) (string, error) {
	if r.token == "" || r.validator == nil {
		return "", ErrNoIdentity
	}
	id, err := r.validator.ValidateAccessToken(r.token)
	if err != nil {
		return "", fmt.Errorf("auth: resolve token identity: %w", err)
	}
	return id.UserID.String(), nil
}

// ChainResolver asks each resolver in order and falls back to a fixed ID
// when none of them can name the reviewer.
type ChainResolver struct {
	resolvers []Resolver
	fallback  string
	log       *slog.Logger
}

// NewChainResolver creates a ChainResolver. An empty fallback means
// domain.PlaceholderReviewerID.
func NewChainResolver(logger *slog.Logger, fallback string, resolvers ...Resolver) *ChainResolver {
	if fallback == "" {
		fallback = domain.PlaceholderReviewerID
	}
	return &ChainResolver{
		resolvers: resolvers,
		fallback:  fallback,
		log:       logger.With("component", "identity"),
	}
}

// ReviewerID implements Resolver. It never fails.
func (r *ChainResolver) ReviewerID(ctx context.Context) (string, error) {
	for _, res := range r.resolvers {
		id, err := res.ReviewerID(ctx)
		if err == nil && id != "" {
			return id, nil
		}
		if err != nil && !errors.Is(err, ErrNoIdentity) {
			r.log.WarnContext(ctx, "identity resolver failed", slog.String("error", err.Error()))
		}
	}
	r.log.DebugContext(ctx, "using fallback reviewer", slog.String("reviewer_id", r.fallback))
	return r.fallback, nil
}

// IsValidReviewerID reports whether id is a non-nil UUID.
func IsValidReviewerID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed != uuid.Nil
}
