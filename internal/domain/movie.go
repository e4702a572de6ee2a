package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of Movie.ReleaseDate.
const DateLayout = "2006-01-02"

// Movie is read-only reference data used to populate the review form.
type Movie struct {
	ID          string     `json:"id"                    yaml:"id"`
	Title       string     `json:"title"                 yaml:"title"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty" yaml:"releaseDate,omitempty"`
}

// Label renders the movie for a selector, e.g. "Alien (1979)".
func (m Movie) Label() string {
	if m.ReleaseDate == nil || m.ReleaseDate.IsZero() {
		return m.Title
	}
	return fmt.Sprintf("%s (%d)", m.Title, m.ReleaseDate.Year())
}

// ParseReleaseDate accepts a plain date or an RFC 3339 timestamp.
// Empty input yields nil.
func ParseReleaseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("parse release date %q: %w", raw, err)
	}
	return &t, nil
}
