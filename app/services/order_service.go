package services

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/cafefront/app/models"
	"github.com/shashiranjanraj/cafefront/app/repositories"
	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
	"github.com/shashiranjanraj/cafefront/pkg/event"
)

var (
	ErrEmptyOrder   = errors.New("Order is empty")
	ErrGuestHistory = errors.New("Guest users cannot see order history.")
)

type OrderService struct {
	orders *repositories.OrderRepository
}

func NewOrderService(orders *repositories.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// Place submits cart as a guest order and empties it on success. An empty
// cart is rejected before any call is made. On failure the cart is untouched.
func (s *OrderService) Place(ctx context.Context, cart *models.Cart) (models.Order, error) {
	if cart.IsEmpty() {
		return models.Order{}, ErrEmptyOrder
	}

	order, err := s.orders.Place(ctx, models.OrderRequest{Items: cart.OrderItems()})
	if err != nil {
		return models.Order{}, err
	}

	event.Fire(event.OrderPlaced, event.OrderPlacedPayload{
		OrderID: order.ID,
		Lines:   len(cart.Lines()),
		Guest:   !signedIn(ctx),
	})
	cart.Clear()
	return order, nil
}

// History lists the signed-in user's orders. Guests get ErrGuestHistory
// without a call.
func (s *OrderService) History(ctx context.Context) ([]models.Order, error) {
	if !signedIn(ctx) {
		return nil, ErrGuestHistory
	}
	return s.orders.Mine(ctx)
}

func signedIn(ctx context.Context) bool {
	sess := apiclient.SessionFrom(ctx)
	return sess != nil && sess.Token() != ""
}
