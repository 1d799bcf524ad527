package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/shashiranjanraj/cafefront/pkg/cache"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
	"github.com/shashiranjanraj/cafefront/pkg/session"
)

// Serialize runs the requests of one session for scope one after another.
// Unlike InFlight the second request is not rejected: it waits for the first,
// then reloads the session so it sees the first one's writes. The session is
// saved before the lock is let go. A request still waiting after ttl gets the
// flash InFlightMessage and a redirect to redirectTo.
//
// Must run after session.Middleware.
func Serialize(scope, redirectTo string, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromCtx(r)
			log := logger.WithCtx(r.Context())

			release, err := cache.Lock(r.Context(), "serial:"+scope+":"+sess.ID(), ttl, ttl)
			switch {
			case errors.Is(err, cache.ErrLockTimeout):
				sess.Flash("error", InFlightMessage)
				http.Redirect(w, r, redirectTo, http.StatusSeeOther)
				return
			case err != nil && r.Context().Err() != nil:
				// Client went away while queued.
				return
			case err != nil:
				// Fail open when the cache is down.
				log.Warn("serialize: lock unavailable", "scope", scope, "error", err)
			default:
				defer release()
			}

			sess.Reload()
			next.ServeHTTP(w, r)
			if err := sess.Save(w); err != nil {
				log.Error("serialize: session save failed", "scope", scope, "error", err)
			}
		})
	}
}
