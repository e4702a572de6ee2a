package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rating bounds accepted by the API.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3
)

// PlaceholderReviewerID is submitted as the reviewer when no identity is available.
const PlaceholderReviewerID = "65549e6a-2389-42c5-909a-4475fdbb3e69"

// MovieRef is the movie embedded in a review node.
type MovieRef struct {
	ID    string `json:"id"    yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// UserRef is the reviewer embedded in a review node.
type UserRef struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Review is a server-owned movie review. The client never edits it.
type Review struct {
	ID         string    `json:"id"                 yaml:"id"`
	Title      string    `json:"title"              yaml:"title"`
	Body       *string   `json:"body,omitempty"     yaml:"body,omitempty"`
	Rating     *int      `json:"rating,omitempty"   yaml:"rating,omitempty"`
	MovieID    string    `json:"movieId"            yaml:"movieId"`
	Movie      *MovieRef `json:"movie,omitempty"    yaml:"movie,omitempty"`
	ReviewerID string    `json:"reviewerId"         yaml:"reviewerId"`
	Reviewer   *UserRef  `json:"reviewer,omitempty" yaml:"reviewer,omitempty"`
}

// RatingValue returns the rating, or 0 when the review has none.
func (r Review) RatingValue() int {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}

// HasBody reports whether the review carries a body to render.
func (r Review) HasBody() bool {
	return r.Body != nil
}

// MovieTitle returns the embedded movie title, falling back to the movie ID.
func (r Review) MovieTitle() string {
	if r.Movie != nil && r.Movie.Title != "" {
		return r.Movie.Title
	}
	return r.MovieID
}

// ReviewerName returns the embedded reviewer name, falling back to the reviewer ID.
func (r Review) ReviewerName() string {
	if r.Reviewer != nil && r.Reviewer.Name != "" {
		return r.Reviewer.Name
	}
	return r.ReviewerID
}

// CreateReviewInput is the payload of the create-review mutation.
type CreateReviewInput struct {
	Title          string `json:"title"          validate:"required"`
	Body           string `json:"body"`
	Rating         int    `json:"rating"         validate:"min=1,max=5"`
	MovieID        string `json:"movieId"        validate:"required"`
	UserReviewerID string `json:"userReviewerId" validate:"required"`
}

// Normalized returns a copy with title and body trimmed.
func (i CreateReviewInput) Normalized() CreateReviewInput {
	i.Title = strings.TrimSpace(i.Title)
	i.Body = strings.TrimSpace(i.Body)
	i.MovieID = strings.TrimSpace(i.MovieID)
	i.UserReviewerID = strings.TrimSpace(i.UserReviewerID)
	return i
}

// Validate checks all fields and collects all errors.
func (i CreateReviewInput) Validate() error {
	err := validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return NewValidationErrors(fields)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min", "max":
		return "must be between 1 and 5"
	default:
		return "invalid value"
	}
}
