package devapi

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/moviereviews/internal/domain"
)

// Store is the in-memory data behind the dev API. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	movies  []domain.Movie
	users   map[string]domain.UserRef
	reviews []domain.Review
	newID   func() string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users: make(map[string]domain.UserRef),
		newID: func() string { return uuid.New().String() },
	}
}

// NewSeededStore returns a store holding the default sample data.
func NewSeededStore() *Store {
	s := NewStore()
	s.Seed(SeedData())
	return s
}

// Seed replaces the store contents.
func (s *Store) Seed(d Data) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.movies = slices.Clone(d.Movies)
	s.reviews = slices.Clone(d.Reviews)
	s.users = make(map[string]domain.UserRef, len(d.Users))
	for _, u := range d.Users {
		s.users[u.ID] = u
	}
}

// Ping implements the health checker.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Movies returns every movie in insertion order.
func (s *Store) Movies() []domain.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.movies)
}

// Movie returns one movie or domain.ErrNotFound.
func (s *Store) Movie(id string) (domain.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.movieLocked(id)
}

func (s *Store) movieLocked(id string) (domain.Movie, error) {
	i := slices.IndexFunc(s.movies, func(m domain.Movie) bool { return m.ID == id })
	if i < 0 {
		return domain.Movie{}, fmt.Errorf("movie %s: %w", id, domain.ErrNotFound)
	}
	return s.movies[i], nil
}

// User returns the reviewer with the given ID, if known.
func (s *Store) User(id string) (domain.UserRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// Reviews returns every review with its movie and reviewer embedded.
func (s *Store) Reviews() []domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Review, len(s.reviews))
	for i, r := range s.reviews {
		out[i] = s.embedLocked(r)
	}
	return out
}

// CreateReview validates and stores a new review.
func (s *Store) CreateReview(in domain.CreateReviewInput) (domain.Review, error) {
	in = in.Normalized()
	if err := in.Validate(); err != nil {
		return domain.Review{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.movieLocked(in.MovieID); err != nil {
		return domain.Review{}, err
	}

	rating := in.Rating
	r := domain.Review{
		ID:         s.newID(),
		Title:      in.Title,
		Rating:     &rating,
		MovieID:    in.MovieID,
		ReviewerID: in.UserReviewerID,
	}
	if in.Body != "" {
		body := in.Body
		r.Body = &body
	}
	s.reviews = append(s.reviews, r)
	return s.embedLocked(r), nil
}

func (s *Store) embedLocked(r domain.Review) domain.Review {
	if m, err := s.movieLocked(r.MovieID); err == nil {
		r.Movie = &domain.MovieRef{ID: m.ID, Title: m.Title}
	}
	if u, ok := s.users[r.ReviewerID]; ok {
		r.Reviewer = &u
	}
	return r
}
