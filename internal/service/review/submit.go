package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/moviereviews/internal/domain"
	"github.com/heartmarshall/moviereviews/internal/state"
)

// Submit resolves the reviewer, validates the form and dispatches
// CreateReview. Nothing is dispatched when validation fails. The returned
// input is exactly what was dispatched.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (domain.CreateReviewInput, error) {
	reviewerID, err := s.identity.ReviewerID(ctx)
	if err != nil {
		return domain.CreateReviewInput{}, fmt.Errorf("review: resolve reviewer: %w", err)
	}

	input := in.createInput(reviewerID)
	if err := input.Validate(); err != nil {
		return domain.CreateReviewInput{}, err
	}

	s.log.InfoContext(ctx, "submitting review",
		slog.String("movie_id", input.MovieID),
		slog.Int("rating", input.Rating),
		slog.String("reviewer_id", input.UserReviewerID),
	)
	s.store.Dispatch(state.CreateReview{Input: input})
	return input, nil
}
