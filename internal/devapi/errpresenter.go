package devapi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/moviereviews/internal/domain"
	"github.com/heartmarshall/moviereviews/pkg/ctxutil"
)

// NewErrorPresenter returns a gqlgen error presenter that maps domain errors
// to client-facing messages and GraphQL error codes. Parse and validation
// errors produced by gqlgen carry no cause and pass through untouched.
func NewErrorPresenter(log *slog.Logger) graphql.ErrorPresenterFunc {
	return func(ctx context.Context, err error) *gqlerror.Error {
		var protoErr *gqlerror.Error
		if errors.As(err, &protoErr) && protoErr.Err == nil {
			return protoErr
		}

		gqlErr := graphql.DefaultErrorPresenter(ctx, err)

		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			gqlErr.Message = ve.Error()
			gqlErr.Extensions = map[string]any{"code": "VALIDATION", "fields": ve.Errors}

		case errors.Is(err, domain.ErrUnauthorized):
			gqlErr.Message = "unauthorized"
			gqlErr.Extensions = map[string]any{"code": "UNAUTHENTICATED"}

		case errors.Is(err, domain.ErrNotFound):
			gqlErr.Message = "movie not found"
			gqlErr.Extensions = map[string]any{"code": "NOT_FOUND"}

		default:
			// Unexpected error: log it, return a generic message to the client.
			log.ErrorContext(ctx, "unexpected resolver error",
				slog.String("error", err.Error()),
				slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
			)
			gqlErr.Message = "internal error"
			gqlErr.Extensions = map[string]any{"code": "INTERNAL"}
		}

		return gqlErr
	}
}
