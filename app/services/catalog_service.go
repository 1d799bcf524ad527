package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/cafefront/app/models"
	"github.com/shashiranjanraj/cafefront/app/repositories"
	"github.com/shashiranjanraj/cafefront/pkg/cache"
	"github.com/shashiranjanraj/cafefront/pkg/collection"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
)

const catalogKey = "catalog:menu"

// MenuCategory is one heading on the customer menu.
type MenuCategory struct {
	Name  string
	Items []models.MenuItem
}

// CatalogService serves the public menu from a short-lived cache.
type CatalogService struct {
	menu *repositories.MenuRepository
	ttl  time.Duration
}

// NewCatalogService caches the menu for ttl. A ttl of zero disables caching.
func NewCatalogService(menu *repositories.MenuRepository, ttl time.Duration) *CatalogService {
	return &CatalogService{menu: menu, ttl: ttl}
}

// Menu returns the full menu, fetched anonymously.
func (s *CatalogService) Menu(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if s.ttl > 0 && cache.Get(catalogKey, &items) {
		return items, nil
	}

	items, err := s.menu.All(ctx, true)
	if err != nil {
		return nil, err
	}

	if s.ttl > 0 {
		if err := cache.Set(catalogKey, items, s.ttl); err != nil {
			logger.WithCtx(ctx).Warn("catalog: cache write failed", "error", err)
		}
	}
	return items, nil
}

// Forget drops the cached menu so the next read sees admin changes.
func (s *CatalogService) Forget() {
	if err := cache.Forget(catalogKey); err != nil {
		logger.Warn("catalog: cache delete failed", "error", err)
	}
}

// Available keeps the items customers may order.
func Available(items []models.MenuItem) []models.MenuItem {
	return collection.Filter(items, func(m models.MenuItem) bool { return m.IsAvailable })
}

// Categories groups items by category, headings sorted by name. Items keep
// the API's order inside a heading.
func Categories(items []models.MenuItem) []MenuCategory {
	groups := collection.GroupBy(items, func(m models.MenuItem) string {
		if m.Category == "" {
			return "General"
		}
		return m.Category
	})
	return collection.Map(collection.SortedKeys(groups), func(name string) MenuCategory {
		return MenuCategory{Name: name, Items: groups[name]}
	})
}
