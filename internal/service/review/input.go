package review

import (
	"github.com/heartmarshall/moviereviews/internal/domain"
)

// SubmitInput is what the submission form collects.
type SubmitInput struct {
	Title   string
	Body    string
	Rating  int
	MovieID string
}

// createInput attaches the reviewer and trims the text fields. Validation is
// left to domain.CreateReviewInput.
func (i SubmitInput) createInput(reviewerID string) domain.CreateReviewInput {
	return domain.CreateReviewInput{
		Title:          i.Title,
		Body:           i.Body,
		Rating:         i.Rating,
		MovieID:        i.MovieID,
		UserReviewerID: reviewerID,
	}.Normalized()
}
