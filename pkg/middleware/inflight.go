package middleware

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/cafefront/pkg/cache"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
	"github.com/shashiranjanraj/cafefront/pkg/session"
)

// InFlightMessage is flashed when a duplicate submission is rejected.
const InFlightMessage = "Request already in progress"

// InFlight lets one request per session through for scope at a time. A second
// submission while the first is still running is not queued: it gets the
// flash InFlightMessage and a redirect to redirectTo. ttl bounds how long a
// crashed holder can block the session.
//
// Must run after session.Middleware.
func InFlight(scope, redirectTo string, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromCtx(r)
			key := "inflight:" + scope + ":" + sess.ID()

			ok, err := cache.Acquire(key, ttl)
			if err != nil {
				// Fail open when the cache is down.
				logger.WithCtx(r.Context()).Warn("inflight: lock unavailable", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				sess.Flash("error", InFlightMessage)
				http.Redirect(w, r, redirectTo, http.StatusSeeOther)
				return
			}
			defer func() {
				if err := cache.Release(key); err != nil {
					logger.WithCtx(r.Context()).Warn("inflight: release failed", "scope", scope, "error", err)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
