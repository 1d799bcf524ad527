package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/shashiranjanraj/cafefront/app/services"
	"github.com/shashiranjanraj/cafefront/app/views"
	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
	"github.com/shashiranjanraj/cafefront/pkg/ctx"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
	"github.com/shashiranjanraj/cafefront/pkg/response"
)

var flashKinds = []string{"success", "error"}

// layout collects the chrome every page shares. It consumes pending flashes,
// so call it once per rendered page, after any API call that may sign the
// visitor out.
func layout(c *ctx.Context, title string) views.Layout {
	store := services.SessionFor(c.R)
	l := views.Layout{
		Title:    title,
		CSRF:     csrf.TemplateField(c.R),
		SignedIn: store.IsAuthenticated(),
		IsAdmin:  store.HasRole(services.RoleAdmin),
	}
	for _, kind := range flashKinds {
		if msg, ok := c.Session().GetFlash(kind); ok {
			l.Flashes = append(l.Flashes, views.Flash{Kind: kind, Message: msg})
		}
	}
	return l
}

func render(c *ctx.Context, v *views.Renderer, status int, page string, data any) {
	body, err := v.Render(page, data)
	if err != nil {
		logger.WithCtx(c.Context()).Error("render failed", "page", page, "error", err)
		response.Error(c.W, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.HTML(status, body)
}

// unauthorized sends the visitor back to the menu when the API rejected the
// session. The API client has already dropped the token.
func unauthorized(c *ctx.Context, err error) bool {
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		return false
	}
	c.Flash("error", apiclient.ErrUnauthorized.Error())
	c.Redirect(http.StatusSeeOther, "/")
	return true
}

func back(c *ctx.Context, to string) {
	c.Redirect(http.StatusSeeOther, to)
}
