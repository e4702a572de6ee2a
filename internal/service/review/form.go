package review

import (
	"strings"

	"github.com/heartmarshall/moviereviews/internal/domain"
)

// Form is the editable state of the submission dialog.
type Form struct {
	Title   string
	Body    string
	Rating  int
	MovieID string
}

// NewForm returns an empty form with the default rating.
func NewForm() Form {
	return Form{Rating: domain.DefaultRating}
}

// Reset clears the form back to NewForm.
func (f *Form) Reset() {
	*f = NewForm()
}

// SetRating clamps r into the accepted range.
func (f *Form) SetRating(r int) {
	f.Rating = max(domain.MinRating, min(domain.MaxRating, r))
}

// CanSubmit reports whether the submit control should be enabled.
func (f Form) CanSubmit() bool {
	return strings.TrimSpace(f.Title) != "" && f.MovieID != ""
}

// Input converts the form into a SubmitInput.
func (f Form) Input() SubmitInput {
	return SubmitInput{
		Title:   f.Title,
		Body:    f.Body,
		Rating:  f.Rating,
		MovieID: f.MovieID,
	}
}
