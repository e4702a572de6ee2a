package reviewsapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/moviereviews/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---------------------------------------------------------------------------
// Mock
// ---------------------------------------------------------------------------

type mockExecutor struct {
	doFunc func(ctx context.Context, operationName string, variables map[string]any, out any) error
}

func (m *mockExecutor) Do(ctx context.Context, operationName string, variables map[string]any, out any) error {
	return m.doFunc(ctx, operationName, variables, out)
}

// respondWith decodes raw into out the way the GraphQL client does.
func respondWith(raw string) func(context.Context, string, map[string]any, any) error {
	return func(_ context.Context, _ string, _ map[string]any, out any) error {
		return json.Unmarshal([]byte(raw), out)
	}
}

// ---------------------------------------------------------------------------
// AllMovieReviews
// ---------------------------------------------------------------------------

func TestAPI_AllMovieReviews_MapsNodesAndDropsNulls(t *testing.T) {
	t.Parallel()

	exec := &mockExecutor{doFunc: respondWith(`{"allMovieReviews":{"nodes":[
		{"id":"r1","title":"Great","body":"Loved it","rating":5,"movieId":"m1","userReviewerId":"u1",
		 "movieByMovieId":{"id":"m1","title":"Alien"},"userByUserReviewerId":{"id":"u1","name":"Ripley"}},
		null,
		{"id":"r2","title":"Meh","body":null,"rating":null,"movieId":"m2","userReviewerId":"u2",
		 "movieByMovieId":null,"userByUserReviewerId":null}
	]}}`)}

	api := NewWithExecutor(exec, newTestLogger())
	reviews, err := api.AllMovieReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	r1 := reviews[0]
	assert.Equal(t, "r1", r1.ID)
	require.NotNil(t, r1.Body)
	assert.Equal(t, "Loved it", *r1.Body)
	assert.Equal(t, 5, r1.RatingValue())
	assert.Equal(t, "Alien", r1.MovieTitle())
	assert.Equal(t, "Ripley", r1.ReviewerName())

	r2 := reviews[1]
	assert.Nil(t, r2.Body)
	assert.Nil(t, r2.Rating)
	assert.Nil(t, r2.Movie)
	assert.Equal(t, "m2", r2.MovieTitle())
}

func TestAPI_AllMovieReviews_NullConnection(t *testing.T) {
	t.Parallel()

	api := NewWithExecutor(&mockExecutor{doFunc: respondWith(`{"allMovieReviews":null}`)}, newTestLogger())
	reviews, err := api.AllMovieReviews(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestAPI_AllMovieReviews_Error(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	api := NewWithExecutor(&mockExecutor{doFunc: func(context.Context, string, map[string]any, any) error {
		return wantErr
	}}, newTestLogger())

	_, err := api.AllMovieReviews(context.Background())
	assert.ErrorIs(t, err, wantErr)
}

// ---------------------------------------------------------------------------
// AllMovies
// ---------------------------------------------------------------------------

func TestAPI_AllMovies_ParsesReleaseDates(t *testing.T) {
	t.Parallel()

	exec := &mockExecutor{doFunc: respondWith(`{"allMovies":{"nodes":[
		{"id":"m1","title":"Alien","releaseDate":"1979-05-25"},
		{"id":"m2","title":"Untitled","releaseDate":null},
		{"id":"m3","title":"Odd","releaseDate":"someday"},
		null
	]}}`)}

	api := NewWithExecutor(exec, newTestLogger())
	movies, err := api.AllMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 3)

	assert.Equal(t, "Alien (1979)", movies[0].Label())
	assert.Equal(t, "Untitled", movies[1].Label())
	assert.Nil(t, movies[2].ReleaseDate)
	assert.Equal(t, "Odd", movies[2].Label())
}

// ---------------------------------------------------------------------------
// CreateMovieReview
// ---------------------------------------------------------------------------

func TestAPI_CreateMovieReview_SendsNestedInput(t *testing.T) {
	t.Parallel()

	var gotOp string
	var gotVars map[string]any
	exec := &mockExecutor{doFunc: func(ctx context.Context, op string, vars map[string]any, out any) error {
		gotOp, gotVars = op, vars
		return respondWith(`{"createMovieReview":{"movieReview":{"id":"r9"}}}`)(ctx, op, vars, out)
	}}

	api := NewWithExecutor(exec, newTestLogger())
	id, err := api.CreateMovieReview(context.Background(), domain.CreateReviewInput{
		Title:          "Great",
		Body:           "",
		Rating:         4,
		MovieID:        "m1",
		UserReviewerID: domain.PlaceholderReviewerID,
	})
	require.NoError(t, err)
	assert.Equal(t, "r9", id)
	assert.Equal(t, opCreateMovieReview, gotOp)

	review := gotVars["input"].(map[string]any)["movieReview"].(map[string]any)
	assert.Equal(t, map[string]any{
		"title":          "Great",
		"body":           "",
		"rating":         4,
		"movieId":        "m1",
		"userReviewerId": domain.PlaceholderReviewerID,
	}, review)
}

func TestAPI_CreateMovieReview_Error(t *testing.T) {
	t.Parallel()

	api := NewWithExecutor(&mockExecutor{doFunc: func(context.Context, string, map[string]any, any) error {
		return errors.New("movie not found")
	}}, newTestLogger())

	_, err := api.CreateMovieReview(context.Background(), domain.CreateReviewInput{Title: "x", Rating: 3, MovieID: "m"})
	require.EqualError(t, err, "movie not found")
}

// ---------------------------------------------------------------------------
// End to end over HTTP
// ---------------------------------------------------------------------------

func TestNew_RoundTripOverHTTP(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OperationName string `json:"operationName"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		switch req.OperationName {
		case opAllMovies:
			w.Write([]byte(`{"data":{"allMovies":{"nodes":[{"id":"m1","title":"Alien","releaseDate":"1979-05-25"}]}}}`))
		case opCreateMovieReview:
			w.Write([]byte(`{"errors":[{"message":"Failed to create"}]}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	api, err := New(srv.URL, newTestLogger())
	require.NoError(t, err)

	movies, err := api.AllMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Alien", movies[0].Title)

	_, err = api.CreateMovieReview(context.Background(), domain.CreateReviewInput{
		Title: "t", Rating: 3, MovieID: "m1", UserReviewerID: domain.PlaceholderReviewerID,
	})
	require.EqualError(t, err, "Failed to create")

	_, err = api.AllMovieReviews(context.Background())
	require.Error(t, err)
}
