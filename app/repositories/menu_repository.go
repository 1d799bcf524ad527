package repositories

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/cafefront/app/models"
	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
)

// MenuRepository reads and writes menu items through the cafe API.
type MenuRepository struct {
	api *apiclient.Client
}

func NewMenuRepository(api *apiclient.Client) *MenuRepository {
	return &MenuRepository{api: api}
}

// All lists every menu item. Anonymous calls skip the bearer token.
func (r *MenuRepository) All(ctx context.Context, anonymous bool) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.api.Request(ctx, "/menu/", apiclient.Options{Anonymous: anonymous}, &items)
	return items, err
}

// Create adds an item. Requires an admin session.
func (r *MenuRepository) Create(ctx context.Context, in models.MenuItemInput) (models.MenuItem, error) {
	var item models.MenuItem
	err := r.api.Request(ctx, "/menu/", apiclient.Options{Method: http.MethodPost, Body: in}, &item)
	return item, err
}

// Update applies a partial change to item id.
func (r *MenuRepository) Update(ctx context.Context, id int, patch models.MenuItemPatch) (models.MenuItem, error) {
	var item models.MenuItem
	err := r.api.Request(ctx, fmt.Sprintf("/menu/%d", id), apiclient.Options{Method: http.MethodPut, Body: patch}, &item)
	return item, err
}

// Delete removes item id.
func (r *MenuRepository) Delete(ctx context.Context, id int) error {
	return r.api.Request(ctx, fmt.Sprintf("/menu/%d", id), apiclient.Options{Method: http.MethodDelete}, nil)
}
