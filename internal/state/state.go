// Package state holds the client-side review state: the actions that change
// it, the reducer that applies them, the store that serialises dispatches and
// the effects that talk to the API.
package state

import "github.com/heartmarshall/moviereviews/internal/domain"

// State is the whole client state. Values handed out by the store are
// snapshots; the slices in them must be treated as read-only.
type State struct {
	Reviews      []domain.Review
	Movies       []domain.Movie
	Loading      bool
	Error        *string
	IsDialogOpen bool
}

// InitialState returns the state a store starts from.
func InitialState() State {
	return State{
		Reviews: []domain.Review{},
		Movies:  []domain.Movie{},
	}
}

// ErrorMessage returns the current error or "".
func (s State) ErrorMessage() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}
