package state

// Reduce returns the state that results from applying a to s. It is pure:
// s is never modified and unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchReviews, FetchMovies, CreateReview:
		s.Loading = true
		s.Error = nil

	case ReviewsLoaded:
		s.Reviews = nonNil(a.Reviews)
		s.Loading = false

	case MoviesLoaded:
		s.Movies = nonNil(a.Movies)
		s.Loading = false

	case ReviewsLoadError:
		s.Error = errorPtr(a.Message)
		s.Loading = false

	case MoviesLoadError:
		s.Error = errorPtr(a.Message)
		s.Loading = false

	case ReviewCreated:
		s.Loading = false
		s.IsDialogOpen = false

	case ReviewCreateError:
		s.Error = errorPtr(a.Message)
		s.Loading = false

	case OpenDialog:
		s.IsDialogOpen = true
		s.Error = nil

	case CloseDialog:
		s.IsDialogOpen = false
		s.Error = nil
	}
	return s
}

func errorPtr(msg string) *string {
	return &msg
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
