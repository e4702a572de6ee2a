package state

import (
	"cmp"
	"slices"

	"github.com/heartmarshall/moviereviews/internal/domain"
)

// SortedReviews returns a copy of reviews ordered by rating, highest first.
// A missing rating counts as 0 and ties keep their server order.
func SortedReviews(reviews []domain.Review) []domain.Review {
	out := slices.Clone(reviews)
	slices.SortStableFunc(out, func(a, b domain.Review) int {
		return cmp.Compare(b.RatingValue(), a.RatingValue())
	})
	return out
}

// ShowSpinner reports whether the list should show a loading indicator
// instead of content.
func ShowSpinner(s State) bool {
	return s.Loading && len(s.Reviews) == 0
}

// ShowEmpty reports whether the list should show its empty placeholder.
func ShowEmpty(s State) bool {
	return !ShowSpinner(s) && len(s.Reviews) == 0
}

// MovieByID finds a movie in the loaded list.
func MovieByID(s State, id string) (domain.Movie, bool) {
	i := slices.IndexFunc(s.Movies, func(m domain.Movie) bool { return m.ID == id })
	if i < 0 {
		return domain.Movie{}, false
	}
	return s.Movies[i], true
}
