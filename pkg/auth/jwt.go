// Package auth reads the access token handed out by the cafe API.
//
// cafefront never validates tokens. The API signs and checks them; this
// package only peeks at the claims so pages can show who is signed in.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the access token cafefront displays.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Inspect decodes the token payload without verifying its signature.
// Opaque (non-JWT) tokens return ok == false.
func Inspect(token string) (Claims, bool) {
	if token == "" {
		return Claims{}, false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, false
	}

	var c Claims
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, true
}

// Subject returns the token's "sub" claim, or "" when it cannot be read.
func Subject(token string) string {
	c, _ := Inspect(token)
	return c.Subject
}
