package reviewsapi

import "github.com/heartmarshall/moviereviews/internal/domain"

// Response shapes mirror the selection sets in operations.graphql.

type refNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type userNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type reviewNode struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Body                 *string   `json:"body"`
	Rating               *int      `json:"rating"`
	MovieID              string    `json:"movieId"`
	UserReviewerID       string    `json:"userReviewerId"`
	MovieByMovieID       *refNode  `json:"movieByMovieId"`
	UserByUserReviewerID *userNode `json:"userByUserReviewerId"`
}

type movieNode struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate *string `json:"releaseDate"`
}

type allMovieReviewsResponse struct {
	AllMovieReviews *struct {
		Nodes []*reviewNode `json:"nodes"`
	} `json:"allMovieReviews"`
}

type allMoviesResponse struct {
	AllMovies *struct {
		Nodes []*movieNode `json:"nodes"`
	} `json:"allMovies"`
}

type createMovieReviewResponse struct {
	CreateMovieReview *struct {
		MovieReview *struct {
			ID string `json:"id"`
		} `json:"movieReview"`
	} `json:"createMovieReview"`
}

func toReviews(nodes []*reviewNode) []domain.Review {
	out := make([]domain.Review, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		r := domain.Review{
			ID:         n.ID,
			Title:      n.Title,
			Body:       n.Body,
			Rating:     n.Rating,
			MovieID:    n.MovieID,
			ReviewerID: n.UserReviewerID,
		}
		if n.MovieByMovieID != nil {
			r.Movie = &domain.MovieRef{ID: n.MovieByMovieID.ID, Title: n.MovieByMovieID.Title}
		}
		if n.UserByUserReviewerID != nil {
			r.Reviewer = &domain.UserRef{ID: n.UserByUserReviewerID.ID, Name: n.UserByUserReviewerID.Name}
		}
		out = append(out, r)
	}
	return out
}

// toMovies maps movie nodes. A movie whose release date cannot be parsed is
// kept without a date; the number of such movies is returned.
func toMovies(nodes []*movieNode) ([]domain.Movie, int) {
	out := make([]domain.Movie, 0, len(nodes))
	skipped := 0
	for _, n := range nodes {
		if n == nil {
			continue
		}
		m := domain.Movie{ID: n.ID, Title: n.Title}
		if n.ReleaseDate != nil {
			date, err := domain.ParseReleaseDate(*n.ReleaseDate)
			if err != nil {
				skipped++
			} else {
				m.ReleaseDate = date
			}
		}
		out = append(out, m)
	}
	return out, skipped
}

func createVariables(in domain.CreateReviewInput) map[string]any {
	return map[string]any{
		"input": map[string]any{
			"movieReview": map[string]any{
				"title":          in.Title,
				"body":           in.Body,
				"rating":         in.Rating,
				"movieId":        in.MovieID,
				"userReviewerId": in.UserReviewerID,
			},
		},
	}
}
