// Package apiclient is the one path from cafefront to the cafe API for JSON
// calls.
//
// It attaches the session's bearer token unless the call is anonymous,
// turns a 401 into ErrUnauthorized after clearing that session, and maps
// every other failure onto RequestFailedError or NetworkError:
//
//	ctx = apiclient.WithSession(ctx, store)
//	var items []models.MenuItem
//	err := client.Request(ctx, "/menu/", apiclient.Options{}, &items)
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shashiranjanraj/cafefront/config"
	outbound "github.com/shashiranjanraj/cafefront/pkg/http"
	"github.com/shashiranjanraj/cafefront/pkg/event"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
	"github.com/shashiranjanraj/cafefront/pkg/metrics"
)

// Session is the slice of the browser session the client needs.
type Session interface {
	Token() string
	Clear()
}

type sessionKey struct{}

// WithSession attaches sess to ctx. Calls made with a ctx that carries no
// session are anonymous.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFrom returns the session attached with WithSession, or nil.
func SessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}

// Options tunes a single call. The zero value is an authenticated GET.
type Options struct {
	Method    string
	Body      interface{}
	Anonymous bool
	Headers   map[string]string
}

// Client talks to one cafe API base URL.
type Client struct {
	baseURL string
	timeout time.Duration
}

// New returns a client for baseURL. A zero timeout leaves calls bounded only
// by the caller's context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// NewFromConfig reads API_URL and API_TIMEOUT.
func NewFromConfig() *Client {
	return New(config.APIURL(), config.APITimeout())
}

// BaseURL is the API root this client calls.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout is the per-call limit.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Request calls path and decodes a success body into out (skipped when out
// is nil). Nothing is retried.
func (c *Client) Request(ctx context.Context, path string, opts Options, out interface{}) error {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}
	op := method + " " + path

	req := outbound.New(method, c.baseURL+path).
		WithContext(ctx).
		Timeout(c.timeout).
		Headers(opts.Headers)

	if opts.Body != nil {
		raw, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("apiclient: %s: encode body: %w", op, err)
		}
		req.Body(json.RawMessage(raw))
	}

	sess := SessionFrom(ctx)
	if !opts.Anonymous && sess != nil {
		if token := sess.Token(); token != "" {
			req.Bearer(token)
		}
	}

	endpoint := Endpoint(path)
	start := time.Now()
	resp, err := req.Send()
	if err != nil {
		metrics.ObserveUpstream(method, endpoint, 0, start)
		logger.WithCtx(ctx).Warn("apiclient: transport failure", "op", op, "error", err)
		return &NetworkError{Op: op, Err: err}
	}
	metrics.ObserveUpstream(method, endpoint, resp.StatusCode, start)
	logger.WithCtx(ctx).Debug("apiclient: call",
		"op", op,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		if sess != nil && sess.Token() != "" {
			sess.Clear()
			event.Fire(event.SessionCleared, event.SessionClearedPayload{Reason: "unauthorized"})
		}
		return ErrUnauthorized
	}

	if !resp.OK() {
		return &RequestFailedError{Status: resp.StatusCode, Detail: parseDetail(resp.Raw)}
	}

	if out == nil {
		return nil
	}
	if err := resp.JSON(out); err != nil {
		return &NetworkError{Op: op, Parse: true, Err: err}
	}
	return nil
}

// Endpoint collapses numeric path segments so metrics stay low-cardinality:
// "/menu/12" becomes "/menu/{id}".
func Endpoint(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
