// Package session provides HTTP session management backed by the cache
// (Redis or memory).
//
// The browser only ever holds an opaque, random session id. Values live in
// the cache under that id and are written back automatically before the
// response headers go out, so handlers never call Save themselves. A save
// only writes the keys this request touched, so two requests from the same
// browser that change different keys never undo each other.
//
//	r.Use(session.Middleware(session.DefaultOptions()))
//
//	sess := session.FromCtx(r)
//	sess.Set("role", "admin")
//	sess.Flash("error", "Access denied")
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/cafefront/config"
	"github.com/shashiranjanraj/cafefront/pkg/cache"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
)

// ------------------- Options -------------------

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions reads the cookie name, TTL and secure flag from config.
func DefaultOptions() Options {
	return Options{
		CookieName: config.SessionCookie(),
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     config.SessionSecure(),
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// ------------------- Session -------------------

type ctxKey struct{}

const flashPrefix = "_flash_"

// Stored sessions are rewritten under a short lock so concurrent saves merge.
const (
	saveLockTTL  = 5 * time.Second
	saveLockWait = 2 * time.Second
)

// Session is an in-request session handle. It is safe for concurrent use by
// the goroutines serving one request.
type Session struct {
	mu      sync.Mutex
	id      string
	staleID string
	data    map[string]string
	dirty   map[string]struct{} // keys set or deleted by this request
	reset   bool                // Invalidate: the stored values are discarded
	opts    Options
	changed bool
}

func storeKey(id string) string { return "cafefront:session:" + id }

// New returns an empty session with a fresh id.
func New(opts Options) *Session {
	return &Session{id: uuid.NewString(), data: map[string]string{}, dirty: map[string]struct{}{}, opts: opts}
}

// Load fetches the session stored under id. Unknown, expired or malformed
// ids yield a fresh empty session.
func Load(id string, opts Options) *Session {
	if _, err := uuid.Parse(id); err != nil {
		return New(opts)
	}

	var data map[string]string
	if !cache.Get(storeKey(id), &data) || data == nil {
		return New(opts)
	}
	return &Session{id: id, data: data, dirty: map[string]struct{}{}, opts: opts}
}

// ID returns the session ID.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Set stores a value under key.
func (s *Session) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.dirty[key] = struct{}{}
	s.changed = true
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// GetString returns the value under key, or "".
func (s *Session) GetString(key string) string {
	v, _ := s.Get(key)
	return v
}

// Delete removes a key from the session.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		delete(s.data, key)
		s.dirty[key] = struct{}{}
		s.changed = true
	}
}

// Flash stores a message shown once, on the next page that reads it.
func (s *Session) Flash(key, message string) {
	s.Set(flashPrefix+key, message)
}

// GetFlash retrieves and removes a flash value.
func (s *Session) GetFlash(key string) (string, bool) {
	v, ok := s.Get(flashPrefix + key)
	if ok {
		s.Delete(flashPrefix + key)
	}
	return v, ok
}

// Regenerate moves the data to a new id. Call it when privileges change.
func (s *Session) Regenerate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staleID == "" {
		s.staleID = s.id
	}
	s.id = uuid.NewString()
	s.changed = true
}

// Invalidate drops every value and rotates the id (logout).
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.data = map[string]string{}
	s.dirty = map[string]struct{}{}
	s.reset = true
	s.mu.Unlock()
	s.Regenerate()
}

// Reload re-reads the stored values and replays this request's own changes
// on top. Call it once a lock guarantees no other request is writing the
// same keys.
func (s *Session) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reset {
		return
	}
	s.data = s.merge(s.stored())
}

// source is the id the stored values currently live under.
func (s *Session) source() string {
	if s.staleID != "" {
		return s.staleID
	}
	return s.id
}

func (s *Session) stored() map[string]string {
	var data map[string]string
	if !cache.Get(storeKey(s.source()), &data) || data == nil {
		return map[string]string{}
	}
	return data
}

// merge applies the dirty keys onto base and returns it.
func (s *Session) merge(base map[string]string) map[string]string {
	for k := range s.dirty {
		if v, ok := s.data[k]; ok {
			base[k] = v
		} else {
			delete(base, k)
		}
	}
	return base
}

// Save persists a changed session and writes the cookie. It is a no-op for
// untouched sessions.
func (s *Session) Save(w http.ResponseWriter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.changed {
		return nil
	}

	release, err := cache.Lock(context.Background(), "session:"+s.source(), saveLockTTL, saveLockWait)
	if err != nil {
		logger.Warn("session: saving without lock", "error", err)
	} else {
		defer release()
	}

	data := s.data
	if !s.reset {
		data = s.merge(s.stored())
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := cache.Set(storeKey(s.id), json.RawMessage(raw), s.opts.TTL); err != nil {
		return fmt.Errorf("session: store: %w", err)
	}

	if s.staleID != "" {
		if err := cache.Del(storeKey(s.staleID)); err != nil {
			return fmt.Errorf("session: drop old id: %w", err)
		}
		s.staleID = ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    s.id,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})

	s.data = data
	s.dirty = map[string]struct{}{}
	s.reset = false
	s.changed = false
	return nil
}

// ------------------- Middleware -------------------

// autoSaveWriter saves the session right before the response headers are
// sent, which is the last moment a Set-Cookie can still be added.
type autoSaveWriter struct {
	http.ResponseWriter
	r    *http.Request
	sess *Session
	done bool
}

func (w *autoSaveWriter) save() {
	if w.done {
		return
	}
	w.done = true
	if err := w.sess.Save(w.ResponseWriter); err != nil {
		logger.WithCtx(w.r.Context()).Error("session: save failed", "error", err)
	}
}

func (w *autoSaveWriter) WriteHeader(code int) {
	w.save()
	w.ResponseWriter.WriteHeader(code)
}

func (w *autoSaveWriter) Write(b []byte) (int, error) {
	w.save()
	return w.ResponseWriter.Write(b)
}

func (w *autoSaveWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Middleware loads (or creates) the session for every request and injects it
// into the request context. Handlers call session.FromCtx(r) to access it.
func Middleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *Session
			if cookie, err := r.Cookie(opts.CookieName); err == nil {
				sess = Load(cookie.Value, opts)
			} else {
				sess = New(opts)
			}

			sw := &autoSaveWriter{ResponseWriter: w, r: r, sess: sess}
			next.ServeHTTP(sw, r.WithContext(WithSession(r.Context(), sess)))
			sw.save()
		})
	}
}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromCtx retrieves the session from the request context.
// Returns an empty (unsaved) session if none is present.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	return New(DefaultOptions())
}
