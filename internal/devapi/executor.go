package devapi

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

const queryCacheSize = 100

// NewGraphQLHandler serves the schema over HTTP POST. Parsing, validation
// and variable coercion happen in gqlgen before Exec is reached.
func NewGraphQLHandler(schema *ast.Schema, resolver *Resolver, logger *slog.Logger) *handler.Server {
	log := logger.With("component", "devapi_graphql")

	srv := handler.New(&executableSchema{schema: schema, resolver: resolver})
	srv.AddTransport(transport.POST{})
	srv.SetQueryCache(lru.New[*ast.QueryDocument](queryCacheSize))
	srv.SetErrorPresenter(NewErrorPresenter(log))
	srv.SetRecoverFunc(func(ctx context.Context, v any) error {
		return fmt.Errorf("resolver panic: %v", v)
	})
	return srv
}

// executableSchema resolves root fields through Resolver and projects the
// returned value trees onto the requested selection sets.
type executableSchema struct {
	schema   *ast.Schema
	resolver *Resolver
}

var _ graphql.ExecutableSchema = (*executableSchema)(nil)

func (e *executableSchema) Schema() *ast.Schema { return e.schema }

func (e *executableSchema) Complexity(context.Context, string, string, int, map[string]any) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)

	var (
		root      *ast.Definition
		resolvers map[string]rootResolver
	)
	switch opCtx.Operation.Operation {
	case ast.Query:
		root, resolvers = e.schema.Query, e.resolver.query
	case ast.Mutation:
		root, resolvers = e.schema.Mutation, e.resolver.mutation
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "%s operations are not supported", opCtx.Operation.Operation))
	}

	first := true
	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false

		data := e.executeRoot(ctx, opCtx, root, resolvers)
		var buf bytes.Buffer
		data.MarshalGQL(&buf)
		return &graphql.Response{Data: buf.Bytes()}
	}
}

// executeRoot resolves root fields one after another, which keeps mutations
// serial.
func (e *executableSchema) executeRoot(ctx context.Context, opCtx *graphql.OperationContext, root *ast.Definition, resolvers map[string]rootResolver) graphql.Marshaler {
	fields := graphql.CollectFields(opCtx, opCtx.Operation.SelectionSet, []string{root.Name})
	out := graphql.NewFieldSet(fields)

	for i, f := range fields {
		fctx := graphql.WithPathContext(ctx, graphql.NewPathWithField(f.Alias))
		out.Values[i] = graphql.Null

		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString(root.Name)
			continue
		case "__schema", "__type":
			graphql.AddError(fctx, gqlerror.Errorf("introspection disabled"))
			continue
		}

		resolve, ok := resolvers[f.Name]
		if !ok {
			graphql.AddErrorf(fctx, "field %s is not implemented", f.Name)
			continue
		}

		value, err := callResolver(fctx, resolve, f.ArgumentMap(opCtx.Variables))
		if err != nil {
			graphql.AddError(fctx, err)
			continue
		}
		out.Values[i] = e.complete(fctx, opCtx, value, f.Definition.Type, f.Selections)
	}
	return out
}

func callResolver(ctx context.Context, resolve rootResolver, args map[string]any) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = graphql.Recover(ctx, rec)
		}
	}()
	return resolve(ctx, args)
}

// complete projects a resolved value onto the selection set for its type.
func (e *executableSchema) complete(ctx context.Context, opCtx *graphql.OperationContext, value any, typ *ast.Type, set ast.SelectionSet) graphql.Marshaler {
	if value == nil {
		return graphql.Null
	}

	if typ.Elem != nil {
		items, ok := value.([]any)
		if !ok {
			graphql.AddErrorf(ctx, "expected a list, got %T", value)
			return graphql.Null
		}
		out := make(graphql.Array, len(items))
		for i, item := range items {
			ictx := graphql.WithPathContext(ctx, graphql.NewPathWithIndex(i))
			out[i] = e.complete(ictx, opCtx, item, typ.Elem, set)
		}
		return out
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return marshalScalar(ctx, value)
	}

	fields := graphql.CollectFields(opCtx, set, []string{typ.Name()})
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		if f.Name == "__typename" {
			out.Values[i] = graphql.MarshalString(typ.Name())
			continue
		}
		fctx := graphql.WithPathContext(ctx, graphql.NewPathWithField(f.Alias))
		out.Values[i] = e.complete(fctx, opCtx, obj[f.Name], f.Definition.Type, f.Selections)
	}
	return out
}

func marshalScalar(ctx context.Context, v any) graphql.Marshaler {
	switch v := v.(type) {
	case string:
		return graphql.MarshalString(v)
	case int:
		return graphql.MarshalInt(v)
	case bool:
		return graphql.MarshalBoolean(v)
	default:
		graphql.AddErrorf(ctx, "cannot marshal %T", v)
		return graphql.Null
	}
}
