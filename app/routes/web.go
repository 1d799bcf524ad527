package routes

import (
	"time"

	"github.com/shashiranjanraj/cafefront/app/controllers"
	"github.com/shashiranjanraj/cafefront/app/repositories"
	"github.com/shashiranjanraj/cafefront/app/services"
	"github.com/shashiranjanraj/cafefront/app/views"
	"github.com/shashiranjanraj/cafefront/config"
	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
	"github.com/shashiranjanraj/cafefront/pkg/ctx"
	"github.com/shashiranjanraj/cafefront/pkg/middleware"
	"github.com/shashiranjanraj/cafefront/pkg/rbac"
	"github.com/shashiranjanraj/cafefront/pkg/router"
)

// RegisterWeb wires the customer and admin pages onto r. Session middleware
// must already be installed on r.
func RegisterWeb(r *router.Router, v *views.Renderer) {
	api := apiclient.NewFromConfig()
	menuRepo := repositories.NewMenuRepository(api)
	catalog := services.NewCatalogService(menuRepo, config.CatalogTTL())
	orders := services.NewOrderService(repositories.NewOrderRepository(api))
	auth := services.NewAuthService(repositories.NewAuthRepository(api.BaseURL(), api.Timeout()))

	menuController := controllers.NewMenuController(catalog, orders, v)
	orderController := controllers.NewOrderController(orders)
	authController := controllers.NewAuthController(auth, v)
	adminController := controllers.NewAdminController(services.NewMenuAdminService(menuRepo, catalog), v)

	// A lock outlives the slowest upstream call it guards.
	lockTTL := api.Timeout() + 5*time.Second

	// Requests that rewrite the cart run one at a time per session.
	cartLock := middleware.Serialize("cart", "/", lockTTL)

	r.Get("/", "menu.index", ctx.Wrap(menuController.Index))
	r.Post("/cart/items/{id}", "cart.add", ctx.Wrap(menuController.AddToCart), cartLock)
	r.Post("/cart/clear", "cart.clear", ctx.Wrap(menuController.ClearCart), cartLock)
	r.Post("/orders", "orders.submit", ctx.Wrap(orderController.Submit),
		middleware.InFlight("orders", "/", lockTTL), cartLock)

	r.Get("/login", "auth.login", ctx.Wrap(authController.Show))
	r.Post("/login", "auth.attempt", ctx.Wrap(authController.Attempt),
		middleware.RateLimit(config.LoginRateLimit(), time.Minute))
	r.Get("/logout", "auth.logout", ctx.Wrap(authController.Logout))

	admin := r.Group("/admin", rbac.RequireRole(services.RoleAdmin))
	admin.Get("/", "admin.index", ctx.Wrap(adminController.Index))

	menu := admin.Group("/menu", middleware.InFlight("admin.menu", "/admin", lockTTL))
	menu.Post("/", "admin.menu.store", ctx.Wrap(adminController.Store))
	menu.Post("/update", "admin.menu.update", ctx.Wrap(adminController.Update))
	menu.Post("/{id}/delete", "admin.menu.delete", ctx.Wrap(adminController.Destroy))
}
