package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/cafefront/pkg/router"
)

func tag(name string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupMiddlewareOrderAndParams(t *testing.T) {
	r := router.New()
	admin := r.Group("/admin", tag("group"))
	admin.Post("/menu/{id}/delete", "admin.menu.delete", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(chi.URLParam(req, "id")))
	}, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/menu/9/delete", nil))

	assert.Equal(t, "9", rec.Body.String())
	assert.Equal(t, []string{"group", "route"}, rec.Header().Values("X-Chain"))
}

func TestMethodMismatchIs405(t *testing.T) {
	r := router.New()
	r.Post("/orders", "orders.submit", func(w http.ResponseWriter, _ *http.Request) {})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestURLAndRoutes(t *testing.T) {
	r := router.New()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.Get("/", "menu.index", noop)
	r.Post("/cart/items/{id}", "cart.add", noop)
	r.Get("/healthz", "", noop)

	url, err := r.URL("cart.add", map[string]string{"id": "4"})
	require.NoError(t, err)
	assert.Equal(t, "/cart/items/4", url)

	_, err = r.URL("cart.add", nil)
	assert.Error(t, err)
	_, err = r.URL("missing", nil)
	assert.Error(t, err)

	assert.Equal(t, []router.Route{
		{Method: http.MethodGet, Path: "/", Name: "menu.index"},
		{Method: http.MethodPost, Path: "/cart/items/{id}", Name: "cart.add"},
		{Method: http.MethodGet, Path: "/healthz", Name: ""},
	}, r.Routes())
}
