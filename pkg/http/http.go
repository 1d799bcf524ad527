// Package http provides the fluent outgoing HTTP client cafefront uses to
// reach the cafe API.
//
//	resp, err := http.New("GET", baseURL+"/menu/").
//	    WithContext(ctx).
//	    Bearer(token).
//	    Send()
//
//	var items []models.MenuItem
//	err = resp.JSON(&items)
//
//	// Form body, as the login endpoint expects
//	resp, err := http.Post(baseURL+"/auth/login").
//	    Form(url.Values{"username": {u}, "password": {p}}).
//	    Send()
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	gohttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shashiranjanraj/cafefront/pkg/reqid"
)

var defaultTransport gohttp.RoundTripper = &gohttp.Transport{
	Proxy:               gohttp.ProxyFromEnvironment,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 50,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is shared by every outgoing request. Tests swap its
// Transport to intercept calls:
//
//	http.DefaultClient.Transport = mock
//	defer http.ResetTransport()
var DefaultClient = &gohttp.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the production transport on DefaultClient.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// ------------------- Request -------------------

// Request is a fluent HTTP request builder.
type Request struct {
	method  string
	url     string
	headers map[string]string
	body    interface{}
	timeout time.Duration
	ctx     context.Context
}

func Post(url string) *Request { return New(gohttp.MethodPost, url) }

// New starts a request with an arbitrary method.
func New(method, url string) *Request {
	if method == "" {
		method = gohttp.MethodGet
	}
	return &Request{
		method:  strings.ToUpper(method),
		url:     url,
		headers: map[string]string{"Accept": "application/json"},
		timeout: 30 * time.Second,
		ctx:     context.Background(),
	}
}

// Header adds a single header to the request.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Headers merges a map of headers.
func (r *Request) Headers(h map[string]string) *Request {
	for k, v := range h {
		r.headers[k] = v
	}
	return r
}

// Bearer sets the Authorization: Bearer <token> header.
func (r *Request) Bearer(token string) *Request {
	return r.Header("Authorization", "Bearer "+token)
}

// Body sets the request body. Structs and maps are sent as JSON, url.Values
// as a form, string and []byte verbatim.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// Form sets an application/x-www-form-urlencoded body.
func (r *Request) Form(values url.Values) *Request {
	r.body = values
	return r
}

// Timeout sets the per-attempt timeout. Zero disables it.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// WithContext sets the parent context. A request ID found in ctx is forwarded.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx != nil {
		r.ctx = ctx
	}
	return r
}

// ------------------- Send -------------------

// Send executes the request once. A non-2xx status is not an error; check
// Response.OK.
func (r *Request) Send() (*Response, error) {
	return r.do()
}

func (r *Request) do() (*Response, error) {
	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	ctx := r.ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	if id := reqid.FromCtx(r.ctx); id != "" && req.Header.Get(reqid.Header) == "" {
		req.Header.Set(reqid.Header, id)
	}

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: send: %w", err)
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
	}, nil
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if r.body == nil {
		return nil, "", nil
	}
	switch v := r.body.(type) {
	case url.Values:
		return strings.NewReader(v.Encode()), "application/x-www-form-urlencoded", nil
	case string:
		return bytes.NewBufferString(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("http: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// ------------------- Response -------------------

// Response wraps the HTTP response with convenience methods.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}
