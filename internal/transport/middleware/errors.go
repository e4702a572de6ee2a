package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// writeGraphQLError answers with a GraphQL-shaped error body so clients can
// surface the message the same way as resolver errors.
func writeGraphQLError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(graphql.Response{
		Errors: gqlerror.List{{Message: message}},
	})
}
