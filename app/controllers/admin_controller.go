package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/cafefront/app/models"
	"github.com/shashiranjanraj/cafefront/app/services"
	"github.com/shashiranjanraj/cafefront/app/views"
	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
	"github.com/shashiranjanraj/cafefront/pkg/collection"
	"github.com/shashiranjanraj/cafefront/pkg/ctx"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
)

// SelectItemMessage is flashed when an update is submitted without an item.
const SelectItemMessage = "Select an item"

// AdminController serves the menu admin panel. Routes are expected to sit
// behind rbac.RequireRole(services.RoleAdmin).
type AdminController struct {
	admin *services.MenuAdminService
	views *views.Renderer
}

func NewAdminController(admin *services.MenuAdminService, v *views.Renderer) *AdminController {
	return &AdminController{admin: admin, views: v}
}

type createItemForm struct {
	Name        string `form:"name" validate:"required,max=100"`
	Description string `form:"description" validate:"max=500"`
	Price       string `form:"price" validate:"required,numeric,gte=0"`
	Category    string `form:"category" validate:"max=50"`
	IsAvailable bool   `form:"is_available"`
}

// Blank fields are left out of the update.
type updateItemForm struct {
	ID          string `form:"id"`
	Name        string `form:"name" validate:"max=100"`
	Description string `form:"description" validate:"max=500"`
	Price       string `form:"price" validate:"nullable,numeric,gte=0"`
	Category    string `form:"category" validate:"max=50"`
	IsAvailable bool   `form:"is_available"`
}

func (ctl *AdminController) Index(c *ctx.Context) {
	ctl.renderIndex(c, http.StatusOK, views.AdminForm{IsAvailable: true}, nil)
}

func (ctl *AdminController) renderIndex(c *ctx.Context, status int, form views.AdminForm, errs map[string]string) {
	store := services.SessionFor(c.R)

	items, err := ctl.admin.List(store.Context(c.Context()))
	if unauthorized(c, err) {
		return
	}

	page := views.AdminPage{
		Subject: store.Subject(),
		Items:   items,
		Form:    form,
		Errors:  errs,
	}
	if err != nil {
		logger.WithCtx(c.Context()).Warn("admin: menu load failed", "error", err)
		page.LoadError = apiclient.Message(err)
	}
	page.Layout = layout(c, "Admin")
	render(c, ctl.views, status, "admin", page)
}

// Store creates a menu item. Invalid input re-renders the form with field
// errors and never reaches the API.
func (ctl *AdminController) Store(c *ctx.Context) {
	var form createItemForm
	errs, err := c.Bind(&form)
	if err != nil {
		c.Flash("error", err.Error())
		back(c, "/admin")
		return
	}
	if len(errs) > 0 {
		ctl.renderIndex(c, http.StatusUnprocessableEntity, views.AdminForm{
			Name:        form.Name,
			Description: form.Description,
			Price:       form.Price,
			Category:    form.Category,
			IsAvailable: form.IsAvailable,
		}, errs)
		return
	}

	price, _ := strconv.ParseFloat(form.Price, 64)
	store := services.SessionFor(c.R)
	_, err = ctl.admin.Create(store.Context(c.Context()), models.MenuItemInput{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		Category:    form.Category,
		IsAvailable: form.IsAvailable,
	})
	if unauthorized(c, err) {
		return
	}
	if err != nil {
		c.Flash("error", "Failed to add item: "+apiclient.Message(err))
	} else {
		c.Flash("success", "Menu item added")
	}
	back(c, "/admin")
}

// Update patches the selected item with the non-blank fields.
func (ctl *AdminController) Update(c *ctx.Context) {
	var form updateItemForm
	errs, err := c.Bind(&form)
	if err != nil {
		c.Flash("error", err.Error())
		back(c, "/admin")
		return
	}

	id, convErr := strconv.Atoi(form.ID)
	if form.ID == "" || convErr != nil {
		c.Flash("error", SelectItemMessage)
		back(c, "/admin")
		return
	}
	if len(errs) > 0 {
		c.Flash("error", firstError(errs))
		back(c, "/admin")
		return
	}

	patch := models.MenuItemPatch{
		Name:        optional(form.Name),
		Description: optional(form.Description),
		Category:    optional(form.Category),
		IsAvailable: form.IsAvailable,
	}
	if form.Price != "" {
		price, _ := strconv.ParseFloat(form.Price, 64)
		patch.Price = &price
	}

	store := services.SessionFor(c.R)
	_, err = ctl.admin.Update(store.Context(c.Context()), id, patch)
	if unauthorized(c, err) {
		return
	}
	if err != nil {
		c.Flash("error", "Failed to update item: "+apiclient.Message(err))
	} else {
		c.Flash("success", "Menu item updated")
	}
	back(c, "/admin")
}

func (ctl *AdminController) Destroy(c *ctx.Context) {
	id, err := c.ParamInt("id")
	if err != nil {
		c.Flash("error", SelectItemMessage)
		back(c, "/admin")
		return
	}

	store := services.SessionFor(c.R)
	err = ctl.admin.Delete(store.Context(c.Context()), id)
	if unauthorized(c, err) {
		return
	}
	if err != nil {
		c.Flash("error", "Failed to delete item: "+apiclient.Message(err))
	} else {
		c.Flash("success", "Menu item deleted")
	}
	back(c, "/admin")
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// firstError picks the message of the alphabetically first field so the
// flash is stable across requests.
func firstError(errs map[string]string) string {
	keys := collection.SortedKeys(errs)
	if len(keys) == 0 {
		return ""
	}
	return errs[keys[0]]
}
