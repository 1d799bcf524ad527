// Package kernel assembles cafefront's HTTP handler: the global middleware
// stack, the operational endpoints and the web routes.
package kernel

import (
	"context"
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"github.com/shashiranjanraj/cafefront/app/routes"
	"github.com/shashiranjanraj/cafefront/app/views"
	"github.com/shashiranjanraj/cafefront/config"
	"github.com/shashiranjanraj/cafefront/pkg/cache"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
	"github.com/shashiranjanraj/cafefront/pkg/metrics"
	"github.com/shashiranjanraj/cafefront/pkg/middleware"
	"github.com/shashiranjanraj/cafefront/pkg/reqid"
	"github.com/shashiranjanraj/cafefront/pkg/response"
	"github.com/shashiranjanraj/cafefront/pkg/router"
	"github.com/shashiranjanraj/cafefront/pkg/session"
)

// NewRouter builds the router with every route registered. route:list uses
// it as well, so it must not touch the network.
func NewRouter(v *views.Renderer) *router.Router {
	registerListeners()

	r := router.New()

	// Outermost first:
	//  1. metrics   - total latency including every other middleware
	//  2. recovery  - panics become a 500 instead of a dropped connection
	//  3. reqid     - before anything logs
	//  4. logger
	//  5. session   - cookie to cache-backed session
	//  6. csrf      - only when CSRF_ENABLED
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(session.DefaultOptions()))
	if config.CSRFEnabled() {
		r.Use(csrfMiddleware())
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Not Found")
	})

	r.Get("/healthz", "health", health)
	r.Get("/metrics", "metrics", metrics.Handler())

	routes.RegisterWeb(r, v)
	return r
}

// Handler parses the templates and returns the full handler.
func Handler() (http.Handler, error) {
	v, err := views.New()
	if err != nil {
		return nil, err
	}
	return NewRouter(v).Handler(), nil
}

func csrfMiddleware() router.Middleware {
	key := sha256.Sum256([]byte("csrf:" + config.AppKey()))
	secure := config.SessionSecure()

	protect := csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName("_token"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.WithCtx(r.Context()).Warn("csrf: rejected", "reason", csrf.FailureReason(r))
			response.Error(w, http.StatusForbidden, "Forbidden - CSRF token invalid")
		})),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		// Without TLS the origin checks must not assume https.
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

func health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	d := cache.Current()
	status := "ok"
	if _, _, err := d.Get(ctx, "healthz"); err != nil {
		logger.WithCtx(r.Context()).Warn("healthz: cache unreachable", "driver", d.Name(), "error", err)
		status = "degraded"
	}
	response.Success(w, map[string]string{"status": status, "cache": d.Name()})
}
