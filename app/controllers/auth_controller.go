package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/cafefront/app/repositories"
	"github.com/shashiranjanraj/cafefront/app/services"
	"github.com/shashiranjanraj/cafefront/app/views"
	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
	"github.com/shashiranjanraj/cafefront/pkg/ctx"
)

type AuthController struct {
	auth  *services.AuthService
	views *views.Renderer
}

func NewAuthController(auth *services.AuthService, v *views.Renderer) *AuthController {
	return &AuthController{auth: auth, views: v}
}

func (ctl *AuthController) Show(c *ctx.Context) {
	render(c, ctl.views, http.StatusOK, "login", views.LoginPage{Layout: layout(c, "Login")})
}

// Attempt signs in as admin. Failures re-render the form with the reason
// and leave the session untouched.
func (ctl *AuthController) Attempt(c *ctx.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	store := services.SessionFor(c.R)

	err := ctl.auth.Login(c.Context(), store, username, password)
	if err == nil {
		back(c, "/admin")
		return
	}

	status, msg := http.StatusBadGateway, apiclient.Message(err)
	if errors.Is(err, repositories.ErrInvalidCredentials) {
		status, msg = http.StatusUnauthorized, err.Error()
	}
	render(c, ctl.views, status, "login", views.LoginPage{
		Layout:   layout(c, "Login"),
		Username: username,
		Message:  msg,
	})
}

func (ctl *AuthController) Logout(c *ctx.Context) {
	ctl.auth.Logout(services.SessionFor(c.R))
	back(c, "/")
}
