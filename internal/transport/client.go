// Package transport implements the outbound REST client for the marketplace
// backend. It attaches the persisted credential as a bearer token, maps error
// payloads to displayable messages and reports authorization failures through
// an explicit callback instead of a hidden global redirect.
package transport

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

	"github.com/avtohub/avtohub/internal/errs"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// GenericMessage is the fallback shown when the backend provides no message
// (network failure, malformed error body, etc.).
const GenericMessage = "an unexpected error occurred"

// TokenSource supplies the persisted credential and can erase it.
type TokenSource interface {
	Load() (string, error)
	Clear() error
}

// Client is a thin JSON-over-HTTP client bound to one backend base URL.
type Client struct {
	base           string
	http           *http.Client
	tokens         TokenSource
	log            *zap.Logger
	onUnauthorized func()
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (timeouts live there).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the request logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithUnauthorizedHandler registers the callback invoked after any request is
// rejected as unauthorized. The persisted token is already cleared when it
// runs; the application decides how to bounce the user to login.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New returns a Client for the given base URL (including any /api prefix).
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: 10 * time.Second},
		tokens: tokens,
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// APIError carries the backend's status and message alongside a sentinel for
// errors.Is branching.
type APIError struct {
	Status int
	Msg    string // backend-provided, may be empty
	Err    error  // sentinel classification, may be nil
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("backend: %d %s", e.Status, e.Msg)
	}
	return fmt.Sprintf("backend: %d", e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// Message collapses any error into the single displayable string the views
// render: the backend's own message when present, else the generic fallback.
func Message(err error) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Msg != "" {
		return ae.Msg
	}
	return GenericMessage
}

// Get issues a GET and decodes the 2xx body into out (out may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with in as the JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// Put issues a PUT with in as the JSON body.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

// Delete issues a DELETE; the response body is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if rid, err := uuid.NewV4(); err == nil {
		req.Header.Set("X-Request-ID", rid.String())
	}
	if tok, err := c.tokens.Load(); err == nil && tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("http request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("http",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode, Msg: errorMessage(resp.Body)}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		apiErr.Err = errs.ErrUnauthorized
		// stale credential discovered reactively: erase it and let the
		// application route the user back to login
		_ = c.tokens.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	case http.StatusForbidden:
		apiErr.Err = errs.ErrForbidden
	case http.StatusNotFound:
		apiErr.Err = errs.ErrNotFound
	case http.StatusConflict:
		apiErr.Err = errs.ErrAlreadyExists
	}
	return apiErr
}

// errorMessage extracts the backend's error envelope: {"message": "..."}.
func errorMessage(r io.Reader) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&env); err != nil {
		return ""
	}
	return env.Message
}
