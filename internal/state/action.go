package state

import "github.com/heartmarshall/moviereviews/internal/domain"

// Kind identifies an action. Effects are routed by kind and it is what the
// store logs.
type Kind string

const (
	KindFetchReviews      Kind = "reviews/fetchReviews"
	KindReviewsLoaded     Kind = "reviews/reviewsLoaded"
	KindReviewsLoadError  Kind = "reviews/reviewsLoadError"
	KindFetchMovies       Kind = "reviews/fetchMovies"
	KindMoviesLoaded      Kind = "reviews/moviesLoaded"
	KindMoviesLoadError   Kind = "reviews/moviesLoadError"
	KindCreateReview      Kind = "reviews/createReview"
	KindReviewCreated     Kind = "reviews/reviewCreated"
	KindReviewCreateError Kind = "reviews/reviewCreateError"
	KindOpenDialog        Kind = "reviews/openDialog"
	KindCloseDialog       Kind = "reviews/closeDialog"
)

// Action is a message dispatched to the store.
type Action interface {
	Kind() Kind
}

// FetchReviews requests a fresh review list.
type FetchReviews struct{}

// ReviewsLoaded carries a successfully fetched review list.
type ReviewsLoaded struct {
	Reviews []domain.Review
}

// ReviewsLoadError reports a failed review fetch.
type ReviewsLoadError struct {
	Message string
}

// FetchMovies requests a fresh movie list.
type FetchMovies struct{}

// MoviesLoaded carries a successfully fetched movie list.
type MoviesLoaded struct {
	Movies []domain.Movie
}

// MoviesLoadError reports a failed movie fetch.
type MoviesLoadError struct {
	Message string
}

// CreateReview submits a new review.
type CreateReview struct {
	Input domain.CreateReviewInput
}

// ReviewCreated reports a successful submission. ID is empty when the
// server did not echo the new review.
type ReviewCreated struct {
	ID string
}

// ReviewCreateError reports a failed submission.
type ReviewCreateError struct {
	Message string
}

type OpenDialog struct{}

type CloseDialog struct{}

func (FetchReviews) Kind() Kind      { return KindFetchReviews }
func (ReviewsLoaded) Kind() Kind     { return KindReviewsLoaded }
func (ReviewsLoadError) Kind() Kind  { return KindReviewsLoadError }
func (FetchMovies) Kind() Kind       { return KindFetchMovies }
func (MoviesLoaded) Kind() Kind      { return KindMoviesLoaded }
func (MoviesLoadError) Kind() Kind   { return KindMoviesLoadError }
func (CreateReview) Kind() Kind      { return KindCreateReview }
func (ReviewCreated) Kind() Kind     { return KindReviewCreated }
func (ReviewCreateError) Kind() Kind { return KindReviewCreateError }
func (OpenDialog) Kind() Kind        { return KindOpenDialog }
func (CloseDialog) Kind() Kind       { return KindCloseDialog }

// IsTerminal reports whether a ends a request started by a fetch or create.
func IsTerminal(a Action) bool {
	switch a.(type) {
	case ReviewsLoaded, ReviewsLoadError,
		MoviesLoaded, MoviesLoadError,
		ReviewCreated, ReviewCreateError:
		return true
	}
	return false
}
