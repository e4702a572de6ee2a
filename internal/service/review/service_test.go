package review

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/moviereviews/internal/domain"
	"github.com/heartmarshall/moviereviews/internal/state"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockDispatcher struct {
	mu      sync.Mutex
	actions []state.Action
}

func (m *mockDispatcher) Dispatch(a state.Action) {
	m.mu.Lock()
	m.actions = append(m.actions, a)
	m.mu.Unlock()
}

func (m *mockDispatcher) dispatched() []state.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]state.Action(nil), m.actions...)
}

type mockIdentity struct {
	reviewerIDFunc func(ctx context.Context) (string, error)
}

func (m *mockIdentity) ReviewerID(ctx context.Context) (string, error) {
	return m.reviewerIDFunc(ctx)
}

func fixedIdentity(id string) *mockIdentity {
	return &mockIdentity{reviewerIDFunc: func(context.Context) (string, error) { return id, nil }}
}

func newTestService(identity identityResolver) (*Service, *mockDispatcher) {
	d := &mockDispatcher{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(log, d, identity), d
}

// ---------------------------------------------------------------------------
// Intents
// ---------------------------------------------------------------------------

func TestService_LoadDispatchesBothFetches(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(fixedIdentity(domain.PlaceholderReviewerID))
	svc.Load(context.Background())

	assert.Equal(t, []state.Action{state.FetchReviews{}, state.FetchMovies{}}, d.dispatched())
}

func TestService_DialogAndRefresh(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(fixedIdentity(domain.PlaceholderReviewerID))
	svc.OpenDialog(context.Background())
	svc.CloseDialog(context.Background())
	svc.Refresh(context.Background())

	assert.Equal(t, []state.Action{state.OpenDialog{}, state.CloseDialog{}, state.FetchReviews{}}, d.dispatched())
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestService_Submit_TrimsAndDispatches(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(fixedIdentity(domain.PlaceholderReviewerID))

	got, err := svc.Submit(context.Background(), SubmitInput{
		Title:   "  Great  ",
		Body:    "\tLoved it\n",
		Rating:  4,
		MovieID: "m1",
	})
	require.NoError(t, err)

	want := domain.CreateReviewInput{
		Title:          "Great",
		Body:           "Loved it",
		Rating:         4,
		MovieID:        "m1",
		UserReviewerID: domain.PlaceholderReviewerID,
	}
	assert.Equal(t, want, got)
	assert.Equal(t, []state.Action{state.CreateReview{Input: want}}, d.dispatched())
}

func TestService_Submit_EmptyBodyAllowed(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(fixedIdentity("u1"))
	got, err := svc.Submit(context.Background(), SubmitInput{Title: "t", Rating: 3, MovieID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "", got.Body)
	assert.Len(t, d.dispatched(), 1)
}

func TestService_Submit_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      SubmitInput
		wantFields []string
	}{
		{"blank title", SubmitInput{Title: "   ", Rating: 3, MovieID: "m1"}, []string{"title"}},
		{"no movie", SubmitInput{Title: "t", Rating: 3}, []string{"movieId"}},
		{"rating too low", SubmitInput{Title: "t", Rating: 0, MovieID: "m1"}, []string{"rating"}},
		{"rating too high", SubmitInput{Title: "t", Rating: 6, MovieID: "m1"}, []string{"rating"}},
		{"everything missing", SubmitInput{}, []string{"title", "movieId", "rating"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, d := newTestService(fixedIdentity("u1"))
			_, err := svc.Submit(context.Background(), tt.input)
			require.ErrorIs(t, err, domain.ErrValidation)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			for _, f := range tt.wantFields {
				assert.True(t, verr.HasField(f), "missing field error for %s: %v", f, verr.Errors)
			}
			assert.Empty(t, d.dispatched())
		})
	}
}

func TestService_Submit_UsesDomainValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(fixedIdentity("u1"))
	_, err := svc.Submit(context.Background(), SubmitInput{Title: " ", Rating: 9})

	want := domain.CreateReviewInput{Rating: 9, UserReviewerID: "u1"}.Validate()
	require.Error(t, want)
	assert.Equal(t, want.Error(), err.Error())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []domain.FieldError{
		{Field: "title", Message: "required"},
		{Field: "rating", Message: "must be between 1 and 5"},
		{Field: "movieId", Message: "required"},
	}, verr.Errors)
}

func TestService_Submit_IdentityError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("token expired")
	svc, d := newTestService(&mockIdentity{reviewerIDFunc: func(context.Context) (string, error) {
		return "", wantErr
	}})

	_, err := svc.Submit(context.Background(), SubmitInput{Title: "t", Rating: 3, MovieID: "m1"})
	require.ErrorIs(t, err, wantErr)
	assert.Empty(t, d.dispatched())
}

func TestService_Submit_EmptyReviewerRejected(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(fixedIdentity(""))
	_, err := svc.Submit(context.Background(), SubmitInput{Title: "t", Rating: 3, MovieID: "m1"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, d.dispatched())
}

// ---------------------------------------------------------------------------
// Form
// ---------------------------------------------------------------------------

func TestForm_DefaultsAndReset(t *testing.T) {
	t.Parallel()

	f := NewForm()
	assert.Equal(t, domain.DefaultRating, f.Rating)
	assert.False(t, f.CanSubmit())

	f.Title = "t"
	assert.False(t, f.CanSubmit())
	f.MovieID = "m1"
	assert.True(t, f.CanSubmit())

	f.Body = "b"
	f.SetRating(5)
	f.Reset()
	assert.Equal(t, NewForm(), f)
}

func TestForm_SetRatingClamps(t *testing.T) {
	t.Parallel()

	f := NewForm()
	f.SetRating(9)
	assert.Equal(t, domain.MaxRating, f.Rating)
	f.SetRating(-1)
	assert.Equal(t, domain.MinRating, f.Rating)
}

func TestForm_Input(t *testing.T) {
	t.Parallel()

	f := Form{Title: "t", Body: "b", Rating: 2, MovieID: "m"}
	assert.Equal(t, SubmitInput{Title: "t", Body: "b", Rating: 2, MovieID: "m"}, f.Input())
}
