package devapi

import (
	"time"

	"github.com/heartmarshall/moviereviews/internal/domain"
)

// Data is a full snapshot of the dev API contents.
type Data struct {
	Movies  []domain.Movie
	Users   []domain.UserRef
	Reviews []domain.Review
}

// Fixed IDs so that scripts and tests can refer to the sample data.
const (
	MovieAlienID        = "0b7f3c1e-5d7a-4f7e-9a51-6f1d7b2c0a01"
	MovieHeatID         = "0b7f3c1e-5d7a-4f7e-9a51-6f1d7b2c0a02"
	MovieArrivalID      = "0b7f3c1e-5d7a-4f7e-9a51-6f1d7b2c0a03"
	MovieSpiritedAwayID = "0b7f3c1e-5d7a-4f7e-9a51-6f1d7b2c0a04"
	UserRipleyID        = "a3c9d1f0-2b44-4c1b-8e0f-3d2a9b7c6e01"
)

// SeedData returns the sample catalogue the dev API starts with.
func SeedData() Data {
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}
	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }

	return Data{
		Movies: []domain.Movie{
			{ID: MovieAlienID, Title: "Alien", ReleaseDate: date(1979, time.May, 25)},
			{ID: MovieHeatID, Title: "Heat", ReleaseDate: date(1995, time.December, 15)},
			{ID: MovieArrivalID, Title: "Arrival", ReleaseDate: date(2016, time.November, 11)},
			{ID: MovieSpiritedAwayID, Title: "Spirited Away"},
		},
		Users: []domain.UserRef{
			{ID: domain.PlaceholderReviewerID, Name: "Guest Reviewer"},
			{ID: UserRipleyID, Name: "Ellen Ripley"},
		},
		Reviews: []domain.Review{
			{
				ID:         "5e0d7b8a-91c2-4f3e-b7a6-1c2d3e4f5a01",
				Title:      "Still terrifying",
				Body:       str("The slow build holds up forty years later."),
				Rating:     num(5),
				MovieID:    MovieAlienID,
				ReviewerID: UserRipleyID,
			},
			{
				ID:         "5e0d7b8a-91c2-4f3e-b7a6-1c2d3e4f5a02",
				Title:      "Long but worth it",
				Rating:     num(4),
				MovieID:    MovieHeatID,
				ReviewerID: domain.PlaceholderReviewerID,
			},
			{
				ID:         "5e0d7b8a-91c2-4f3e-b7a6-1c2d3e4f5a03",
				Title:      "Unrated first impressions",
				Body:       str("Need a second viewing before scoring it."),
				MovieID:    MovieArrivalID,
				ReviewerID: domain.PlaceholderReviewerID,
			},
		},
	}
}
