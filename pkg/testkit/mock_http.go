// Package testkit fakes the cafe API for tests.
//
// MockTransport implements http.RoundTripper. It answers outgoing calls from
// canned routes and records each call, so tests can assert which endpoints
// were hit, with which headers and bodies, and how often:
//
//	api := testkit.NewMockTransport().
//	    OnJSON("GET", "/menu/", 200, menu)
//	testkit.Install(t, api)
//	// ... exercise the code ...
//	assert.Len(t, api.CallsTo("GET", "/menu/"), 1)
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	outbound "github.com/shashiranjanraj/cafefront/pkg/http"
)

// Call is one recorded outgoing request.
type Call struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Authorization returns the Authorization header of the call, or "".
func (c Call) Authorization() string {
	return c.Header.Get("Authorization")
}

type route struct {
	method string
	path   string
	status int
	body   []byte
	err    error
	hits   int
}

// MockTransport answers requests by method and path. Later registrations
// for the same method and path take precedence.
type MockTransport struct {
	mu     sync.Mutex
	routes []*route
	calls  []Call
	delays map[string]time.Duration
}

func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// On registers a raw response body for method and path.
func (mt *MockTransport) On(method, path string, status int, body string) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.routes = append(mt.routes, &route{method: method, path: path, status: status, body: []byte(body)})
	return mt
}

// OnJSON registers v, marshalled to JSON, as the response for method and path.
func (mt *MockTransport) OnJSON(method, path string, status int, v interface{}) *MockTransport {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testkit: marshal mock body: %v", err))
	}
	return mt.On(method, path, status, string(b))
}

// OnError makes calls to method and path fail at the transport level.
func (mt *MockTransport) OnError(method, path string, err error) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.routes = append(mt.routes, &route{method: method, path: path, err: err})
	return mt
}

// Delay holds every answer for method and path back by d, as a slow API would.
func (mt *MockTransport) Delay(method, path string, d time.Duration) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.delays == nil {
		mt.delays = map[string]time.Duration{}
	}
	mt.delays[method+" "+path] = d
	return mt
}

// RoundTrip records the request and returns the matching canned response.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}

	mt.mu.Lock()
	delay := mt.delays[req.Method+" "+req.URL.Path]
	mt.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}

	mt.mu.Lock()
	defer mt.mu.Unlock()

	mt.calls = append(mt.calls, Call{
		Method: req.Method,
		Path:   req.URL.Path,
		Header: req.Header.Clone(),
		Body:   body,
	})

	for i := len(mt.routes) - 1; i >= 0; i-- {
		rt := mt.routes[i]
		if rt.method != req.Method || rt.path != req.URL.Path {
			continue
		}
		rt.hits++
		if rt.err != nil {
			return nil, rt.err
		}
		return &http.Response{
			StatusCode: rt.status,
			Status:     fmt.Sprintf("%d %s", rt.status, http.StatusText(rt.status)),
			Body:       io.NopCloser(bytes.NewReader(rt.body)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Request:    req,
		}, nil
	}

	return &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Body:       io.NopCloser(strings.NewReader(`{"detail":"no mock configured"}`)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// Calls returns every recorded request in order.
func (mt *MockTransport) Calls() []Call {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return append([]Call(nil), mt.calls...)
}

// CallsTo returns the recorded requests for method and path.
func (mt *MockTransport) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range mt.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets the recorded calls but keeps the routes.
func (mt *MockTransport) Reset() {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.calls = nil
}

// Unused lists the registered routes that were never hit.
func (mt *MockTransport) Unused() []string {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var out []string
	for _, rt := range mt.routes {
		if rt.hits == 0 {
			out = append(out, rt.method+" "+rt.path)
		}
	}
	return out
}

// Install puts mt on the shared outgoing client for the duration of the test.
func Install(t testing.TB, mt *MockTransport) {
	t.Helper()
	outbound.DefaultClient.Transport = mt
	t.Cleanup(outbound.ResetTransport)
}
