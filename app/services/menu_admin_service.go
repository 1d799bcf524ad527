package services

import (
	"context"

	"github.com/shashiranjanraj/cafefront/app/models"
	"github.com/shashiranjanraj/cafefront/app/repositories"
)

// MenuAdminService backs the admin panel. Every call is authenticated and
// successful changes drop the cached public menu.
type MenuAdminService struct {
	menu    *repositories.MenuRepository
	catalog *CatalogService
}

func NewMenuAdminService(menu *repositories.MenuRepository, catalog *CatalogService) *MenuAdminService {
	return &MenuAdminService{menu: menu, catalog: catalog}
}

func (s *MenuAdminService) List(ctx context.Context) ([]models.MenuItem, error) {
	return s.menu.All(ctx, false)
}

func (s *MenuAdminService) Create(ctx context.Context, in models.MenuItemInput) (models.MenuItem, error) {
	if err := in.Validate(); err != nil {
		return models.MenuItem{}, err
	}
	item, err := s.menu.Create(ctx, in)
	if err == nil {
		s.catalog.Forget()
	}
	return item, err
}

func (s *MenuAdminService) Update(ctx context.Context, id int, patch models.MenuItemPatch) (models.MenuItem, error) {
	if err := patch.Validate(); err != nil {
		return models.MenuItem{}, err
	}
	item, err := s.menu.Update(ctx, id, patch)
	if err == nil {
		s.catalog.Forget()
	}
	return item, err
}

func (s *MenuAdminService) Delete(ctx context.Context, id int) error {
	err := s.menu.Delete(ctx, id)
	if err == nil {
		s.catalog.Forget()
	}
	return err
}
