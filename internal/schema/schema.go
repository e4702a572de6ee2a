// Package schema embeds the GraphQL schema of the movie reviews API. The
// client validates its documents against it and the dev API serves it.
package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var source string

var (
	loadOnce sync.Once
	loaded   *ast.Schema
	loadErr  error
)

// Source returns the raw SDL.
func Source() string { return source }

// Load parses and validates the embedded schema. The result is cached.
func Load() (*ast.Schema, error) {
	loadOnce.Do(func() {
		loaded, loadErr = gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: source})
		if loadErr != nil {
			loadErr = fmt.Errorf("schema: load: %w", loadErr)
		}
	})
	return loaded, loadErr
}
