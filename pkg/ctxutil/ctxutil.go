package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	reviewerIDKey ctxKey = "reviewer_id"
	requestIDKey  ctxKey = "request_id"
	operationKey  ctxKey = "operation"
)

// WithReviewerID stores the acting reviewer in the context.
func WithReviewerID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, reviewerIDKey, id)
}

// ReviewerIDFromCtx extracts the reviewer ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func ReviewerIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(reviewerIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithOperation records the GraphQL operation name being executed.
func WithOperation(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operationKey, name)
}

// OperationFromCtx returns the GraphQL operation name, or "" if absent.
func OperationFromCtx(ctx context.Context) string {
	name, _ := ctx.Value(operationKey).(string)
	return name
}
