package middleware

import (
	"context"

	"github.com/heartmarshall/moviereviews/internal/domain"
	"github.com/heartmarshall/moviereviews/pkg/ctxutil"
)

// RequireReviewer returns domain.ErrUnauthorized if no reviewer is on the
// context. Use in resolvers, not as HTTP middleware.
func RequireReviewer(ctx context.Context) error {
	if _, ok := ctxutil.ReviewerIDFromCtx(ctx); !ok {
		return domain.ErrUnauthorized
	}
	return nil
}
