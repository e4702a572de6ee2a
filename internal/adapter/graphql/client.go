// Package graphql is a small GraphQL-over-HTTP client. Operations are
// registered up front, validated against the API schema, and executed by
// operation name. Nothing is cached: every call goes to the network.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gqlgen "github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
	"github.com/vektah/gqlparser/v2/validator/rules"

	"github.com/heartmarshall/moviereviews/pkg/ctxutil"
)

const defaultTimeout = 10 * time.Second

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Request is the JSON body of a GraphQL POST.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type operation struct {
	query string
	def   *ast.OperationDefinition
}

// Client executes registered GraphQL operations against one endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	schema     *ast.Schema
	operations map[string]operation
	token      string
	log        *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			clone := *hc
			c.httpClient = &clone
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithBearerToken sends the token in the Authorization header of every request.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient creates a Client for endpoint. The schema is used to validate
// documents passed to Register and variables passed to Do.
func NewClient(endpoint string, schema *ast.Schema, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
		schema:     schema,
		operations: make(map[string]operation),
		log:        logger.With("adapter", "graphql"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.Transport = &headerTransport{base: c.httpClient.Transport, token: c.token}
	return c
}

// Register parses a document, validates it against the schema and makes
// every named operation in it available to Do.
func (c *Client) Register(document string) error {
	doc, errs := gqlparser.LoadQueryWithRules(c.schema, document, rules.NewDefaultRules())
	if len(errs) > 0 {
		return fmt.Errorf("graphql: invalid document: %w", errs)
	}
	for _, op := range doc.Operations {
		if op.Name == "" {
			return errors.New("graphql: anonymous operations cannot be registered")
		}
		if _, dup := c.operations[op.Name]; dup {
			return fmt.Errorf("graphql: operation %s registered twice", op.Name)
		}
		c.operations[op.Name] = operation{query: document, def: op}
	}
	return nil
}

// Do executes the named operation and decodes its data into out.
// A response carrying GraphQL errors yields a *ResponseError.
func (c *Client) Do(ctx context.Context, operationName string, variables map[string]any, out any) error {
	op, ok := c.operations[operationName]
	if !ok {
		return fmt.Errorf("graphql: unknown operation %s", operationName)
	}
	if _, err := validator.VariableValues(c.schema, op.def, variables); err != nil {
		return fmt.Errorf("graphql: %s: variables: %w", operationName, err)
	}

	ctx = ctxutil.WithOperation(ctx, operationName)
	body, err := json.Marshal(Request{
		Query:         op.query,
		OperationName: operationName,
		Variables:     variables,
	})
	if err != nil {
		return fmt.Errorf("graphql: %s: encode request: %w", operationName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("graphql: %s: create request: %w", operationName, err)
	}

	start := time.Now()
	c.log.DebugContext(ctx, "graphql request", slog.String("operation", operationName))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "graphql request failed",
			slog.String("operation", operationName),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("graphql: %s: %w", operationName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("graphql: %s: read body: %w", operationName, err)
	}

	var envelope gqlgen.Response
	decodeErr := json.Unmarshal(raw, &envelope)

	c.log.DebugContext(ctx, "graphql response",
		slog.String("operation", operationName),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
		slog.Int("errors", len(envelope.Errors)),
	)

	// Servers commonly answer errors with a 4xx status and a normal envelope;
	// prefer the GraphQL messages when they are present.
	if decodeErr == nil && len(envelope.Errors) > 0 {
		return &ResponseError{Operation: operationName, Status: resp.StatusCode, Errors: envelope.Errors}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Operation: operationName, Status: resp.StatusCode}
	}
	if decodeErr != nil {
		return fmt.Errorf("graphql: %s: decode response: %w", operationName, decodeErr)
	}

	if out == nil || len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("graphql: %s: decode data: %w", operationName, err)
	}
	return nil
}

// ResponseError carries the errors list of a GraphQL response.
type ResponseError struct {
	Operation string
	Status    int
	Errors    gqlerror.List
}

// Error returns the first server message, which is what users get to see.
func (e *ResponseError) Error() string {
	for _, ge := range e.Errors {
		if ge != nil && ge.Message != "" {
			return ge.Message
		}
	}
	return fmt.Sprintf("graphql: %s failed", e.Operation)
}

// Unwrap exposes the individual GraphQL errors to errors.Is/As.
func (e *ResponseError) Unwrap() error { return e.Errors }

// StatusError is returned for a non-2xx response without GraphQL errors.
type StatusError struct {
	Operation string
	Status    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graphql: unexpected status %d", e.Status)
}
