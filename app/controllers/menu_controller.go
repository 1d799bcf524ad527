package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/cafefront/app/models"
	"github.com/shashiranjanraj/cafefront/app/services"
	"github.com/shashiranjanraj/cafefront/app/views"
	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
	"github.com/shashiranjanraj/cafefront/pkg/collection"
	"github.com/shashiranjanraj/cafefront/pkg/ctx"
	"github.com/shashiranjanraj/cafefront/pkg/event"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
)

// MenuController serves the customer page: menu, cart and order history.
type MenuController struct {
	catalog *services.CatalogService
	orders  *services.OrderService
	views   *views.Renderer
}

func NewMenuController(catalog *services.CatalogService, orders *services.OrderService, v *views.Renderer) *MenuController {
	return &MenuController{catalog: catalog, orders: orders, views: v}
}

// Index renders the menu page. The menu and the order history are fetched
// concurrently and fail independently.
func (ctl *MenuController) Index(c *ctx.Context) {
	store := services.SessionFor(c.R)
	reqCtx := store.Context(c.Context())

	var (
		menu       []models.MenuItem
		history    []models.Order
		menuErr    error
		historyErr error
		g          errgroup.Group
	)
	g.Go(func() error {
		menu, menuErr = ctl.catalog.Menu(reqCtx)
		return nil
	})
	g.Go(func() error {
		history, historyErr = ctl.orders.History(reqCtx)
		return nil
	})
	_ = g.Wait()

	cart := store.Cart()
	page := views.MenuPage{
		Layout:    layout(c, "Menu"),
		CartLines: cart.Lines(),
		CartTotal: cart.Total(),
	}

	if menuErr != nil {
		logger.WithCtx(c.Context()).Warn("menu: load failed", "error", menuErr)
		page.MenuError = apiclient.Message(menuErr)
	} else {
		page.Categories = collection.Map(services.Categories(services.Available(menu)), func(mc services.MenuCategory) views.Category {
			return views.Category{Name: mc.Name, Items: mc.Items}
		})
	}

	switch {
	case errors.Is(historyErr, services.ErrGuestHistory):
		page.HistoryMessage = historyErr.Error()
	case historyErr != nil:
		page.HistoryMessage = "Error loading orders: " + apiclient.Message(historyErr)
	default:
		page.History = historyView(history, menu)
	}

	render(c, ctl.views, http.StatusOK, "menu", page)
}

// AddToCart adds one unit of the item to the cart. Unknown ids are ignored.
func (ctl *MenuController) AddToCart(c *ctx.Context) {
	id, err := c.ParamInt("id")
	if err != nil {
		back(c, "/")
		return
	}

	menu, err := ctl.catalog.Menu(c.Context())
	if err != nil {
		c.Flash("error", apiclient.Message(err))
		back(c, "/")
		return
	}

	store := services.SessionFor(c.R)
	cart := store.Cart()
	if cart.AddItem(menu, id) {
		store.SaveCart(cart)
		line, _ := collection.First(cart.Lines(), func(l models.CartLine) bool { return l.MenuItemID == id })
		event.Fire(event.CartItemAdded, event.CartItemAddedPayload{MenuItemID: id, Quantity: line.Quantity})
	}
	back(c, "/")
}

func (ctl *MenuController) ClearCart(c *ctx.Context) {
	services.SessionFor(c.R).SaveCart(&models.Cart{})
	back(c, "/")
}

// historyView labels order lines with the item name when the menu knows it.
func historyView(orders []models.Order, menu []models.MenuItem) []views.HistoryOrder {
	names := make(map[int]string, len(menu))
	for _, m := range menu {
		names[m.ID] = m.Name
	}
	return collection.Map(orders, func(o models.Order) views.HistoryOrder {
		return views.HistoryOrder{
			ID:        o.ID,
			CreatedAt: o.CreatedAt,
			Status:    o.Status,
			Total:     o.TotalAmount,
			Lines: collection.Map(o.Items, func(l models.OrderLine) views.HistoryLine {
				label, ok := names[l.MenuItemID]
				if !ok {
					label = "#" + strconv.Itoa(l.MenuItemID)
				}
				return views.HistoryLine{Quantity: l.Quantity, Label: label, UnitPrice: l.UnitPrice}
			}),
		}
	})
}
