// Package reviewsapi exposes the movie reviews GraphQL operations as typed
// Go calls.
package reviewsapi

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/moviereviews/internal/adapter/graphql"
	"github.com/heartmarshall/moviereviews/internal/domain"
	"github.com/heartmarshall/moviereviews/internal/schema"
)

//go:embed operations.graphql
var operations string

const (
	opAllMovieReviews   = "AllMovieReviews"
	opAllMovies         = "AllMovies"
	opCreateMovieReview = "CreateMovieReview"
)

type executor interface {
	Do(ctx context.Context, operationName string, variables map[string]any, out any) error
}

// API is a typed client of the reviews GraphQL API.
type API struct {
	exec executor
	log  *slog.Logger
}

// New builds an API on top of a GraphQL client pointed at endpoint.
func New(endpoint string, logger *slog.Logger, opts ...graphql.Option) (*API, error) {
	s, err := schema.Load()
	if err != nil {
		return nil, err
	}

	client := graphql.NewClient(endpoint, s, logger, opts...)
	if err := client.Register(operations); err != nil {
		return nil, fmt.Errorf("reviewsapi: %w", err)
	}
	return NewWithExecutor(client, logger), nil
}

// NewWithExecutor wraps an already configured executor.
func NewWithExecutor(exec executor, logger *slog.Logger) *API {
	return &API{exec: exec, log: logger.With("adapter", "reviewsapi")}
}

// AllMovieReviews fetches every review. Null nodes are dropped.
func (a *API) AllMovieReviews(ctx context.Context) ([]domain.Review, error) {
	var resp allMovieReviewsResponse
	if err := a.exec.Do(ctx, opAllMovieReviews, nil, &resp); err != nil {
		return nil, err
	}
	if resp.AllMovieReviews == nil {
		return []domain.Review{}, nil
	}
	return toReviews(resp.AllMovieReviews.Nodes), nil
}

// AllMovies fetches every movie. Null nodes are dropped.
func (a *API) AllMovies(ctx context.Context) ([]domain.Movie, error) {
	var resp allMoviesResponse
	if err := a.exec.Do(ctx, opAllMovies, nil, &resp); err != nil {
		return nil, err
	}
	if resp.AllMovies == nil {
		return []domain.Movie{}, nil
	}

	movies, skipped := toMovies(resp.AllMovies.Nodes)
	if skipped > 0 {
		a.log.WarnContext(ctx, "movies with unparseable release date", slog.Int("count", skipped))
	}
	return movies, nil
}

// CreateMovieReview submits a new review and returns the ID assigned by the server.
func (a *API) CreateMovieReview(ctx context.Context, input domain.CreateReviewInput) (string, error) {
	var resp createMovieReviewResponse
	if err := a.exec.Do(ctx, opCreateMovieReview, createVariables(input), &resp); err != nil {
		return "", err
	}

	if resp.CreateMovieReview == nil || resp.CreateMovieReview.MovieReview == nil {
		return "", nil
	}
	id := resp.CreateMovieReview.MovieReview.ID
	a.log.InfoContext(ctx, "review created", slog.String("review_id", id), slog.String("movie_id", input.MovieID))
	return id, nil
}
