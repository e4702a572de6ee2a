// Package review is the view-facing side of the review state: it turns user
// intents into store actions and owns the submission rules.
package review

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/moviereviews/internal/state"
)

type dispatcher interface {
	Dispatch(a state.Action)
}

type identityResolver interface {
	ReviewerID(ctx context.Context) (string, error)
}

// Service provides the operations a view needs.
type Service struct {
	store    dispatcher
	identity identityResolver
	log      *slog.Logger
}

// NewService creates a new review Service.
func NewService(log *slog.Logger, store dispatcher, identity identityResolver) *Service {
	return &Service{
		store:    store,
		identity: identity,
		log:      log.With("service", "review"),
	}
}

// Load requests both lists. Views call it once when they are mounted.
func (s *Service) Load(ctx context.Context) {
	s.log.DebugContext(ctx, "loading reviews and movies")
	s.store.Dispatch(state.FetchReviews{})
	s.store.Dispatch(state.FetchMovies{})
}

// Refresh requests the review list again.
func (s *Service) Refresh(ctx context.Context) {
	s.log.DebugContext(ctx, "refreshing reviews")
	s.store.Dispatch(state.FetchReviews{})
}

// OpenDialog shows the submission dialog.
func (s *Service) OpenDialog(_ context.Context) {
	s.store.Dispatch(state.OpenDialog{})
}

// CloseDialog hides the submission dialog. The caller resets its form.
func (s *Service) CloseDialog(_ context.Context) {
	s.store.Dispatch(state.CloseDialog{})
}
