// Package ctx provides a request context for cafefront page handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helpers for params, forms, the session
// and the post/redirect/get flow:
//
//	func (ctl *OrderController) Submit(c *ctx.Context) {
//	    if err := ctl.orders.Place(c.Context(), cart); err != nil {
//	        c.Flash("error", "Failed to place order: "+apiclient.Message(err))
//	    }
//	    c.Redirect(http.StatusSeeOther, "/")
//	}
//
//	router.Post("/orders", "orders.submit", ctx.Wrap(ctl.Submit))
package ctx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/cafefront/pkg/bind"
	"github.com/shashiranjanraj/cafefront/pkg/middleware"
	"github.com/shashiranjanraj/cafefront/pkg/session"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // written status code (0 = not written yet)
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/cart/items/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamInt returns a URL path parameter parsed as an int.
func (c *Context) ParamInt(key string) (int, error) {
	n, err := strconv.Atoi(c.Param(key))
	if err != nil {
		return 0, fmt.Errorf("ctx: param %q is not an integer", key)
	}
	return n, nil
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// PostForm returns a form field from an application/x-www-form-urlencoded body.
func (c *Context) PostForm(key string) string {
	return c.R.PostFormValue(key)
}

// ClientIP returns the real client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string {
	return middleware.ClientIP(c.R)
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Session ──────────────────────────────────────────────────────────────────

// Session returns the browser's session.
func (c *Context) Session() *session.Session {
	return session.FromCtx(c.R)
}

// Flash queues a message for the next rendered page. kind is "success" or
// "error".
func (c *Context) Flash(kind, message string) {
	c.Session().Flash(kind, message)
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// Bind decodes the posted form into dest and validates it. The returned map
// holds field errors for re-rendering the form; err is set only when the
// body itself is unreadable.
func (c *Context) Bind(dest any) (map[string]string, error) {
	return bind.Form(c.R, dest)
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// Status writes just the HTTP status code with an empty body.
func (c *Context) Status(code int) {
	c.status = code
	c.W.WriteHeader(code)
}

// HTML writes a pre-rendered page.
func (c *Context) HTML(code int, body []byte) {
	c.W.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.W.WriteHeader(code)
	c.status = code
	c.W.Write(body) //nolint:errcheck
}

// JSON writes a JSON response with the given status code.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	c.status = code
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

// String writes a plain-text response.
func (c *Context) String(code int, format string, args ...any) {
	c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.W.WriteHeader(code)
	c.status = code
	fmt.Fprintf(c.W, format, args...)
}

// Redirect sends an HTTP redirect response.
func (c *Context) Redirect(code int, url string) {
	c.status = code
	http.Redirect(c.W, c.R, url, code)
}

// WrittenStatus returns the HTTP status code that was written to the response,
// or 0 if no response has been written yet.
func (c *Context) WrittenStatus() int { return c.status }
