package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/moviereviews/internal/auth"
	"github.com/heartmarshall/moviereviews/internal/domain"
	"github.com/heartmarshall/moviereviews/pkg/ctxutil"
)

type tokenValidatorFunc func(token string) (auth.Identity, error)

func (f tokenValidatorFunc) ValidateAccessToken(token string) (auth.Identity, error) {
	return f(token)
}

func TestAuth(t *testing.T) {
	t.Parallel()

	reviewer := uuid.New()
	validator := tokenValidatorFunc(func(token string) (auth.Identity, error) {
		if token == "valid-token" {
			return auth.Identity{UserID: reviewer, Name: "Ripley"}, nil
		}
		return auth.Identity{}, errors.New("invalid token")
	})

	tests := []struct {
		name         string
		header       string
		wantStatus   int
		wantReviewer bool
	}{
		{"valid token", "Bearer valid-token", http.StatusOK, true},
		{"no header is anonymous", "", http.StatusOK, false},
		{"other scheme is anonymous", "Basic dXNlcjpwYXNz", http.StatusOK, false},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotReviewer bool
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := ctxutil.ReviewerIDFromCtx(r.Context())
				gotReviewer = ok && id == reviewer
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Auth(validator)(handler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantReviewer, gotReviewer)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "unauthorized", firstErrorMessage(t, rec))
			}
		})
	}
}

func TestRequireReviewer(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, RequireReviewer(context.Background()), domain.ErrUnauthorized)

	ctx := ctxutil.WithReviewerID(context.Background(), uuid.New())
	require.NoError(t, RequireReviewer(ctx))
}
