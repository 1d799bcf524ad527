package repositories

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/cafefront/app/models"
	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
)

// OrderRepository places and lists orders through the cafe API.
type OrderRepository struct {
	api *apiclient.Client
}

func NewOrderRepository(api *apiclient.Client) *OrderRepository {
	return &OrderRepository{api: api}
}

// Place submits an order. Always anonymous: guests may check out.
func (r *OrderRepository) Place(ctx context.Context, req models.OrderRequest) (models.Order, error) {
	var order models.Order
	err := r.api.Request(ctx, "/orders/", apiclient.Options{
		Method:    http.MethodPost,
		Body:      req,
		Anonymous: true,
	}, &order)
	return order, err
}

// Mine lists the signed-in user's orders.
func (r *OrderRepository) Mine(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.api.Request(ctx, "/orders/", apiclient.Options{}, &orders)
	return orders, err
}
