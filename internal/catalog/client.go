// Package catalog talks to the commerce backend's admin GraphQL API.
// It exposes exactly the operations the reconciliation engine needs:
// product/variant lookup and creation,
// absolute inventory sets, variant component links, price updates and
// a few shop-level reads.  Every response is decoded into a typed
// struct; a shape the backend was not supposed to return surfaces as
// ErrUpstreamShape instead of a silent zero value.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrValidation wraps userErrors reported by a backend mutation:
// malformed input or a constraint violation.  Fatal for the operation
// in progress.
var ErrValidation = errors.New("backend validation error")

// ErrUpstreamShape signals a response that decoded but did not carry
// the fields the operation requires.
var ErrUpstreamShape = errors.New("unexpected backend response shape")

// ErrNotFound signals an id-addressed object that no longer exists on
// the backend, typically a product deleted since its id was cached.
var ErrNotFound = errors.New("backend object not found")

// Client is a thin GraphQL-over-HTTP client.  It is safe for
// concurrent use, but the batch engine deliberately calls it from a
// single goroutine (find-or-create by title is not race-safe).
type Client struct {
	endpoint string
	token    string
	httpc    *http.Client

	// DefaultLocation, when set from config, short-circuits the
	// location lookup.
	DefaultLocation string
}

// New builds a client for the given admin API endpoint and access token.
func New(endpoint, token string) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// userError is the field-level error shape shared by all mutations.
type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func userErrorsToErr(op string, errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if len(e.Field) > 0 {
			msgs = append(msgs, strings.Join(e.Field, ".")+": "+e.Message)
		} else {
			msgs = append(msgs, e.Message)
		}
	}
	return fmt.Errorf("%s: %w: %s", op, ErrValidation, strings.Join(msgs, "; "))
}

// do executes one GraphQL call and decodes data into out.  Transport
// failures, non-2xx statuses and GraphQL-level errors all propagate
// with their original message preserved.
func (c *Client) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: backend returned %d: %s", op, resp.StatusCode, truncate(raw, 512))
	}

	var env gqlEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrUpstreamShape, err)
	}
	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("%s: graphql: %s", op, strings.Join(msgs, "; "))
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s: %w: %v", op, ErrUpstreamShape, err)
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
