package state

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/moviereviews/internal/domain"
)

// Fallback messages used when an error carries no text of its own.
const (
	MsgFetchReviewsFailed = "Failed to fetch reviews"
	MsgFetchMoviesFailed  = "Failed to fetch movies"
	MsgCreateReviewFailed = "Failed to create review"
)

type reviewsAPI interface {
	AllMovieReviews(ctx context.Context) ([]domain.Review, error)
	AllMovies(ctx context.Context) ([]domain.Movie, error)
	CreateMovieReview(ctx context.Context, input domain.CreateReviewInput) (string, error)
}

// Effects turns request actions into API calls and their outcome into
// terminal actions. No error ever leaves a handler.
type Effects struct {
	api reviewsAPI
	log *slog.Logger
}

func NewEffects(api reviewsAPI, logger *slog.Logger) *Effects {
	return &Effects{api: api, log: logger.With("component", "effects")}
}

// Register attaches every handler to the store.
func (e *Effects) Register(s *Store) {
	s.RegisterEffect(KindFetchReviews, e.FetchReviews)
	s.RegisterEffect(KindFetchMovies, e.FetchMovies)
	s.RegisterEffect(KindCreateReview, e.CreateReview)
}

// FetchReviews loads all reviews. Each call goes to the network.
func (e *Effects) FetchReviews(ctx context.Context, _ Action, dispatch Dispatch) {
	defer e.recoverAs(ctx, dispatch, KindFetchReviews, func(msg string) Action {
		return ReviewsLoadError{Message: msg}
	}, MsgFetchReviewsFailed)

	reviews, err := e.api.AllMovieReviews(ctx)
	if err != nil {
		e.log.ErrorContext(ctx, "fetch reviews", slog.String("error", err.Error()))
		dispatch(ReviewsLoadError{Message: errorMessage(err, MsgFetchReviewsFailed)})
		return
	}
	dispatch(ReviewsLoaded{Reviews: reviews})
}

// FetchMovies loads all movies. Each call goes to the network.
func (e *Effects) FetchMovies(ctx context.Context, _ Action, dispatch Dispatch) {
	defer e.recoverAs(ctx, dispatch, KindFetchMovies, func(msg string) Action {
		return MoviesLoadError{Message: msg}
	}, MsgFetchMoviesFailed)

	movies, err := e.api.AllMovies(ctx)
	if err != nil {
		e.log.ErrorContext(ctx, "fetch movies", slog.String("error", err.Error()))
		dispatch(MoviesLoadError{Message: errorMessage(err, MsgFetchMoviesFailed)})
		return
	}
	dispatch(MoviesLoaded{Movies: movies})
}

// CreateReview submits the review and, on success, refreshes the list.
func (e *Effects) CreateReview(ctx context.Context, a Action, dispatch Dispatch) {
	defer e.recoverAs(ctx, dispatch, KindCreateReview, func(msg string) Action {
		return ReviewCreateError{Message: msg}
	}, MsgCreateReviewFailed)

	create, ok := a.(CreateReview)
	if !ok {
		dispatch(ReviewCreateError{Message: MsgCreateReviewFailed})
		return
	}

	id, err := e.api.CreateMovieReview(ctx, create.Input)
	if err != nil {
		e.log.ErrorContext(ctx, "create review",
			slog.String("movie_id", create.Input.MovieID),
			slog.String("error", err.Error()),
		)
		dispatch(ReviewCreateError{Message: errorMessage(err, MsgCreateReviewFailed)})
		return
	}

	dispatch(ReviewCreated{ID: id})
	dispatch(FetchReviews{})
}

func (e *Effects) recoverAs(ctx context.Context, dispatch Dispatch, kind Kind, toAction func(string) Action, fallback string) {
	r := recover()
	if r == nil {
		return
	}
	e.log.ErrorContext(ctx, "effect panicked",
		slog.String("action", string(kind)),
		slog.String("panic", fmt.Sprint(r)),
	)
	dispatch(toAction(fallback))
}

func errorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
