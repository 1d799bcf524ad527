package controllers

import (
	"errors"

	"github.com/shashiranjanraj/cafefront/app/services"
	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
	"github.com/shashiranjanraj/cafefront/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Submit places the cart as a guest order.
func (ctl *OrderController) Submit(c *ctx.Context) {
	store := services.SessionFor(c.R)
	cart := store.Cart()

	_, err := ctl.orders.Place(store.Context(c.Context()), cart)
	switch {
	case errors.Is(err, services.ErrEmptyOrder):
		c.Flash("error", err.Error())
	case err != nil:
		c.Flash("error", "Failed to place order: "+apiclient.Message(err))
	default:
		store.SaveCart(cart)
		c.Flash("success", "Order placed successfully!")
	}
	back(c, "/")
}
