package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/cafefront/pkg/cache"
	"github.com/shashiranjanraj/cafefront/pkg/middleware"
	"github.com/shashiranjanraj/cafefront/pkg/session"
)

func TestRateLimitPerClient(t *testing.T) {
	h := middleware.RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2"))
}

func TestRateLimiterAllow(t *testing.T) {
	rl := middleware.NewRateLimiter(1, time.Minute)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:1234"
	assert.Equal(t, "192.0.2.7", middleware.ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.ClientIP(req))
}

func TestRecoveryReturns500(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestInFlightRejectsDuplicateSubmission(t *testing.T) {
	prev := cache.Current()
	cache.Use(cache.NewMemory())
	t.Cleanup(func() { cache.Use(prev) })

	sess := session.New(session.Options{CookieName: "s", TTL: time.Hour, Path: "/"})
	guard := middleware.InFlight("orders", "/", time.Minute)

	var inner int
	var nested *httptest.ResponseRecorder
	h := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner++
		// A second submission arriving while the first is still running.
		nested = httptest.NewRecorder()
		guard(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { inner++ })).ServeHTTP(nested, r)
		w.WriteHeader(http.StatusSeeOther)
	}))

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req = req.WithContext(session.WithSession(req.Context(), sess))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1, inner)
	require.NotNil(t, nested)
	assert.Equal(t, http.StatusSeeOther, nested.Code)
	assert.Equal(t, "/", nested.Header().Get("Location"))
	msg, _ := sess.GetFlash("error")
	assert.Equal(t, middleware.InFlightMessage, msg)

	// Released once the first request finished.
	h2 := guard(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { inner++ }))
	h2.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, 2, inner)
}

func TestSerializeQueuesAndSeesEarlierWrites(t *testing.T) {
	prev := cache.Current()
	cache.Use(cache.NewMemory())
	t.Cleanup(func() { cache.Use(prev) })

	opts := session.Options{CookieName: "s", TTL: time.Hour, Path: "/"}
	seed := session.New(opts)
	seed.Set("count", "0")
	require.NoError(t, seed.Save(httptest.NewRecorder()))

	// Each request reads the counter, dawdles, then writes it back.
	h := middleware.Serialize("cart", "/", time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		n, _ := strconv.Atoi(sess.GetString("count"))
		time.Sleep(10 * time.Millisecond)
		sess.Set("count", strconv.Itoa(n+1))
		w.WriteHeader(http.StatusSeeOther)
	}))

	const workers = 5
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Every request loads its own snapshot up front, as session.Middleware does.
			sess := session.Load(seed.ID(), opts)
			req := httptest.NewRequest(http.MethodPost, "/cart/items/1", nil)
			req = req.WithContext(session.WithSession(req.Context(), sess))
			h.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	assert.Equal(t, strconv.Itoa(workers), session.Load(seed.ID(), opts).GetString("count"))
}

func TestSerializeGivesUpAfterTTL(t *testing.T) {
	prev := cache.Current()
	cache.Use(cache.NewMemory())
	t.Cleanup(func() { cache.Use(prev) })

	sess := session.New(session.Options{CookieName: "s", TTL: time.Hour, Path: "/"})
	ok, err := cache.Acquire("serial:cart:"+sess.ID(), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	var ran bool
	h := middleware.Serialize("cart", "/", 20*time.Millisecond)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		ran = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/cart/clear", nil)
	req = req.WithContext(session.WithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, ran)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	msg, _ := sess.GetFlash("error")
	assert.Equal(t, middleware.InFlightMessage, msg)
}
