package services_test

import (
	"context"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/cafefront/app/models"
	"github.com/shashiranjanraj/cafefront/app/repositories"
	"github.com/shashiranjanraj/cafefront/app/services"
	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
	"github.com/shashiranjanraj/cafefront/pkg/cache"
	"github.com/shashiranjanraj/cafefront/pkg/event"
	"github.com/shashiranjanraj/cafefront/pkg/session"
	"github.com/shashiranjanraj/cafefront/pkg/testkit"
)

const base = "http://api.test"

var menuJSON = []map[string]any{
	{"id": 1, "name": "Tea", "price": 20, "category": "Drinks", "is_available": true},
	{"id": 2, "name": "Cake", "price": 150, "category": "", "is_available": false},
	{"id": 3, "name": "Coffee", "price": 35, "category": "Drinks", "is_available": true},
}

func setup(t *testing.T) *testkit.MockTransport {
	t.Helper()
	prev := cache.Current()
	cache.Use(cache.NewMemory())
	t.Cleanup(func() { cache.Use(prev) })
	t.Cleanup(event.Flush)

	mt := testkit.NewMockTransport()
	testkit.Install(t, mt)
	return mt
}

func newStore() *services.SessionStore {
	return services.NewSessionStore(session.New(session.Options{CookieName: "s", TTL: time.Hour, Path: "/"}))
}

func client() *apiclient.Client { return apiclient.New(base, time.Second) }

func TestSessionStoreLifecycle(t *testing.T) {
	store := newStore()
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, "", store.Subject())

	require.NoError(t, store.SetSession("opaque-token", services.RoleAdmin))
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "opaque-token", store.Token())
	assert.True(t, store.HasRole("admin"))
	assert.False(t, store.HasRole(""))

	cart := store.Cart()
	cart.AddItem([]models.MenuItem{{ID: 1, Name: "Tea", Price: decimal.NewFromInt(20)}}, 1)
	store.SaveCart(cart)

	store.ClearSession()
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, "", store.Role())
	assert.Equal(t, 1, store.Cart().Count(), "cart outlives sign-out")

	store.SaveCart(&models.Cart{})
	assert.True(t, store.Cart().IsEmpty())
}

func TestCatalogCachesMenu(t *testing.T) {
	mt := setup(t)
	mt.OnJSON(http.MethodGet, "/menu/", http.StatusOK, menuJSON)

	catalog := services.NewCatalogService(repositories.NewMenuRepository(client()), time.Minute)
	ctx := newStore().Context(context.Background())

	first, err := catalog.Menu(ctx)
	require.NoError(t, err)
	second, err := catalog.Menu(ctx)
	require.NoError(t, err)

	assert.Len(t, second, len(first))
	call := testkit.AssertCalledOnce(t, mt, http.MethodGet, "/menu/")
	assert.Empty(t, call.Authorization())

	catalog.Forget()
	_, err = catalog.Menu(ctx)
	require.NoError(t, err)
	assert.Len(t, mt.CallsTo(http.MethodGet, "/menu/"), 2)
}

func TestAvailableAndCategories(t *testing.T) {
	items := []models.MenuItem{
		{ID: 1, Name: "Tea", Category: "Drinks", IsAvailable: true},
		{ID: 2, Name: "Cake", IsAvailable: true},
		{ID: 3, Name: "Soup", Category: "Drinks", IsAvailable: false},
		{ID: 4, Name: "Coffee", Category: "Drinks", IsAvailable: true},
	}

	available := services.Available(items)
	assert.Len(t, available, 3)

	cats := services.Categories(available)
	require.Len(t, cats, 2)
	assert.Equal(t, "Drinks", cats[0].Name)
	assert.Equal(t, "Tea", cats[0].Items[0].Name)
	assert.Equal(t, "Coffee", cats[0].Items[1].Name)
	assert.Equal(t, "General", cats[1].Name)
}

func TestPlaceEmptyOrderMakesNoCall(t *testing.T) {
	mt := setup(t)
	orders := services.NewOrderService(repositories.NewOrderRepository(client()))

	_, err := orders.Place(context.Background(), &models.Cart{})
	assert.ErrorIs(t, err, services.ErrEmptyOrder)
	testkit.AssertNoCalls(t, mt)
}

func TestPlaceOrderClearsCartAndFiresEvent(t *testing.T) {
	mt := setup(t)
	mt.OnJSON(http.MethodPost, "/orders/", http.StatusCreated, map[string]any{"id": 11, "total_amount": 40, "items": []any{}})

	var placed []event.OrderPlacedPayload
	event.Listen(event.OrderPlaced, func(p interface{}) { placed = append(placed, p.(event.OrderPlacedPayload)) })

	cart := &models.Cart{}
	menu := []models.MenuItem{{ID: 1, Name: "Tea", Price: decimal.NewFromInt(20)}}
	cart.AddItem(menu, 1)
	cart.AddItem(menu, 1)

	orders := services.NewOrderService(repositories.NewOrderRepository(client()))
	order, err := orders.Place(newStore().Context(context.Background()), cart)
	require.NoError(t, err)

	assert.Equal(t, 11, order.ID)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, []event.OrderPlacedPayload{{OrderID: 11, Lines: 1, Guest: true}}, placed)
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	mt := setup(t)
	mt.On(http.MethodPost, "/orders/", http.StatusNotFound, `{"detail":"Menu item 1 not available"}`)

	cart := &models.Cart{}
	cart.AddItem([]models.MenuItem{{ID: 1, Name: "Tea", Price: decimal.NewFromInt(20)}}, 1)

	orders := services.NewOrderService(repositories.NewOrderRepository(client()))
	_, err := orders.Place(context.Background(), cart)

	assert.Equal(t, "Menu item 1 not available", apiclient.Message(err))
	assert.Equal(t, 1, cart.Count())
}

func TestHistoryForGuestMakesNoCall(t *testing.T) {
	mt := setup(t)
	orders := services.NewOrderService(repositories.NewOrderRepository(client()))

	_, err := orders.History(newStore().Context(context.Background()))
	assert.ErrorIs(t, err, services.ErrGuestHistory)
	testkit.AssertNoCalls(t, mt)
}

func TestLoginSetsAdminSession(t *testing.T) {
	mt := setup(t)
	mt.OnJSON(http.MethodPost, "/auth/login", http.StatusOK, map[string]string{"access_token": "tok"})

	fired := 0
	event.Listen(event.LoginSucceeded, func(interface{}) { fired++ })

	store := newStore()
	svc := services.NewAuthService(repositories.NewAuthRepository(base, time.Second))
	require.NoError(t, svc.Login(context.Background(), store, "admin", "pw"))

	assert.Equal(t, "tok", store.Token())
	assert.Equal(t, services.RoleAdmin, store.Role())
	assert.Equal(t, 1, fired)

	svc.Logout(store)
	assert.False(t, store.IsAuthenticated())
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	mt := setup(t)
	mt.On(http.MethodPost, "/auth/login", http.StatusUnauthorized, `{"detail":"Incorrect username or password"}`)

	var failed []event.LoginPayload
	event.Listen(event.LoginFailed, func(p interface{}) { failed = append(failed, p.(event.LoginPayload)) })

	store := newStore()
	svc := services.NewAuthService(repositories.NewAuthRepository(base, time.Second))
	err := svc.Login(context.Background(), store, "admin", "nope")

	assert.ErrorIs(t, err, repositories.ErrInvalidCredentials)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, "", store.Role())
	assert.Equal(t, []event.LoginPayload{{Username: "admin", Reason: "invalid_credentials"}}, failed)
}

func TestAdminCreateRejectsBadPriceWithoutCall(t *testing.T) {
	mt := setup(t)
	repo := repositories.NewMenuRepository(client())
	admin := services.NewMenuAdminService(repo, services.NewCatalogService(repo, time.Minute))

	_, err := admin.Create(context.Background(), models.MenuItemInput{Name: "Tea", Price: math.NaN()})
	assert.ErrorIs(t, err, models.ErrInvalidPrice)
	testkit.AssertNoCalls(t, mt)
}

func TestAdminChangesRefreshCatalog(t *testing.T) {
	mt := setup(t)
	mt.OnJSON(http.MethodGet, "/menu/", http.StatusOK, menuJSON)
	mt.OnJSON(http.MethodDelete, "/menu/1", http.StatusOK, map[string]string{"detail": "deleted"})

	repo := repositories.NewMenuRepository(client())
	catalog := services.NewCatalogService(repo, time.Minute)
	admin := services.NewMenuAdminService(repo, catalog)

	store := newStore()
	require.NoError(t, store.SetSession("tok", services.RoleAdmin))
	ctx := store.Context(context.Background())

	_, err := catalog.Menu(ctx)
	require.NoError(t, err)
	require.NoError(t, admin.Delete(ctx, 1))
	_, err = catalog.Menu(ctx)
	require.NoError(t, err)

	assert.Len(t, mt.CallsTo(http.MethodGet, "/menu/"), 2)
	assert.Equal(t, "Bearer tok", testkit.AssertCalledOnce(t, mt, http.MethodDelete, "/menu/1").Authorization())
}
