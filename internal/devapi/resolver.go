package devapi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"

	"github.com/heartmarshall/moviereviews/internal/domain"
	"github.com/heartmarshall/moviereviews/internal/transport/middleware"
	"github.com/heartmarshall/moviereviews/pkg/ctxutil"
)

// rootResolver produces the value of a root field. Values are plain trees of
// map[string]any, []any and scalars that executableSchema projects onto the
// requested selection set.
type rootResolver func(ctx context.Context, args map[string]any) (any, error)

// Resolver holds the root field resolvers of the dev API.
type Resolver struct {
	store       *Store
	log         *slog.Logger
	requireAuth bool
	query       map[string]rootResolver
	mutation    map[string]rootResolver
}

// NewResolver wires root fields to the store. With requireAuth set, mutations
// fail unless the request carried a valid bearer token.
func NewResolver(store *Store, logger *slog.Logger, requireAuth bool) *Resolver {
	r := &Resolver{
		store:       store,
		log:         logger.With("component", "devapi_resolver"),
		requireAuth: requireAuth,
	}
	r.query = map[string]rootResolver{
		"allMovieReviews": r.allMovieReviews,
		"allMovies":       r.allMovies,
		"movieById":       r.movieByID,
	}
	r.mutation = map[string]rootResolver{
		"createMovieReview": r.createMovieReview,
	}
	return r
}

func (r *Resolver) allMovieReviews(_ context.Context, _ map[string]any) (any, error) {
	reviews := r.store.Reviews()
	nodes := make([]any, len(reviews))
	for i, rv := range reviews {
		nodes[i] = reviewValue(rv)
	}
	return connection(nodes), nil
}

func (r *Resolver) allMovies(_ context.Context, _ map[string]any) (any, error) {
	movies := r.store.Movies()
	nodes := make([]any, len(movies))
	for i, m := range movies {
		nodes[i] = movieValue(m)
	}
	return connection(nodes), nil
}

func (r *Resolver) movieByID(_ context.Context, args map[string]any) (any, error) {
	id, _ := args["id"].(string)
	m, err := r.store.Movie(id)
	if err != nil {
		// A missing movie is a null field, not an error.
		return nil, nil
	}
	return movieValue(m), nil
}

func (r *Resolver) createMovieReview(ctx context.Context, args map[string]any) (any, error) {
	if r.requireAuth {
		if err := middleware.RequireReviewer(ctx); err != nil {
			return nil, err
		}
	}

	input, _ := args["input"].(map[string]any)
	review, _ := input["movieReview"].(map[string]any)

	in := domain.CreateReviewInput{
		Title:          stringArg(review, "title"),
		Body:           stringArg(review, "body"),
		MovieID:        stringArg(review, "movieId"),
		UserReviewerID: stringArg(review, "userReviewerId"),
	}
	rating, err := intArg(review, "rating")
	if err != nil {
		return nil, err
	}
	in.Rating = rating

	// An authenticated caller always reviews as itself.
	if id, ok := ctxutil.ReviewerIDFromCtx(ctx); ok {
		in.UserReviewerID = id.String()
	}

	created, err := r.store.CreateReview(in)
	if err != nil {
		return nil, err
	}

	r.log.InfoContext(ctx, "review created",
		slog.String("review_id", created.ID),
		slog.String("movie_id", created.MovieID),
		slog.String("reviewer_id", created.ReviewerID),
	)

	return map[string]any{
		"clientMutationId": input["clientMutationId"],
		"movieReview":      reviewValue(created),
	}, nil
}

func connection(nodes []any) map[string]any {
	return map[string]any{
		"nodes":      nodes,
		"totalCount": len(nodes),
	}
}

func reviewValue(r domain.Review) map[string]any {
	v := map[string]any{
		"id":                   r.ID,
		"title":                r.Title,
		"body":                 nil,
		"rating":               nil,
		"movieId":              r.MovieID,
		"userReviewerId":       r.ReviewerID,
		"movieByMovieId":       nil,
		"userByUserReviewerId": nil,
	}
	if r.Body != nil {
		v["body"] = *r.Body
	}
	if r.Rating != nil {
		v["rating"] = *r.Rating
	}
	if r.Movie != nil {
		v["movieByMovieId"] = map[string]any{"id": r.Movie.ID, "title": r.Movie.Title, "releaseDate": nil}
	}
	if r.Reviewer != nil {
		v["userByUserReviewerId"] = map[string]any{"id": r.Reviewer.ID, "name": r.Reviewer.Name}
	}
	return v
}

func movieValue(m domain.Movie) map[string]any {
	v := map[string]any{
		"id":          m.ID,
		"title":       m.Title,
		"releaseDate": nil,
	}
	if m.ReleaseDate != nil {
		v["releaseDate"] = m.ReleaseDate.Format(domain.DateLayout)
	}
	return v
}

func stringArg(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// intArg reads an Int argument. Absent or null yields 0, which fails the
// rating range check downstream.
func intArg(m map[string]any, key string) (int, error) {
	n, err := graphql.UnmarshalInt(m[key])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
