package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/cafefront/app/models"
	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
	"github.com/shashiranjanraj/cafefront/pkg/auth"
	"github.com/shashiranjanraj/cafefront/pkg/crypt"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
	"github.com/shashiranjanraj/cafefront/pkg/rbac"
	"github.com/shashiranjanraj/cafefront/pkg/session"
)

// RoleAdmin is the only role this client ever signs in with.
const RoleAdmin = "admin"

const (
	tokenKey = "token"
	cartKey  = "cart"
)

// SessionStore is the typed view of one browser's session: the access
// token, the role and the cart. It implements apiclient.Session.
type SessionStore struct {
	sess *session.Session
}

func NewSessionStore(sess *session.Session) *SessionStore {
	return &SessionStore{sess: sess}
}

// SessionFor returns the store for the request's session.
func SessionFor(r *http.Request) *SessionStore {
	return NewSessionStore(session.FromCtx(r))
}

// Context attaches the store to ctx so API calls made with it carry the token.
func (s *SessionStore) Context(ctx context.Context) context.Context {
	return apiclient.WithSession(ctx, s)
}

func (s *SessionStore) IsAuthenticated() bool {
	return s.Token() != ""
}

// SetSession stores the token, encrypted, and the role. The session id is
// rotated since privileges just changed.
func (s *SessionStore) SetSession(token, role string) error {
	enc, err := crypt.Encrypt(token)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	s.sess.Regenerate()
	s.sess.Set(tokenKey, enc)
	s.sess.Set(rbac.RoleKey, role)
	return nil
}

// Token returns the access token, or "" when there is none or it cannot be
// decrypted (for example after APP_KEY changed).
func (s *SessionStore) Token() string {
	enc := s.sess.GetString(tokenKey)
	if enc == "" {
		return ""
	}
	token, err := crypt.Decrypt(enc)
	if err != nil {
		return ""
	}
	return token
}

func (s *SessionStore) Role() string {
	return s.sess.GetString(rbac.RoleKey)
}

func (s *SessionStore) HasRole(role string) bool {
	return role != "" && s.Role() == role
}

// Subject is the signed-in user's name as read from the token. Display only.
func (s *SessionStore) Subject() string {
	return auth.Subject(s.Token())
}

// ClearSession removes the token and the role. The cart survives.
func (s *SessionStore) ClearSession() {
	s.sess.Delete(tokenKey)
	s.sess.Delete(rbac.RoleKey)
}

// Clear is ClearSession under the name apiclient.Session expects.
func (s *SessionStore) Clear() { s.ClearSession() }

// Cart loads the cart kept in the session. A missing or unreadable cart is
// an empty one.
func (s *SessionStore) Cart() *models.Cart {
	cart := &models.Cart{}
	raw := s.sess.GetString(cartKey)
	if raw == "" {
		return cart
	}
	if err := json.Unmarshal([]byte(raw), cart); err != nil {
		logger.Warn("session store: dropping unreadable cart", "error", err)
		return &models.Cart{}
	}
	return cart
}

// SaveCart writes cart back into the session.
func (s *SessionStore) SaveCart(cart *models.Cart) {
	if cart.IsEmpty() {
		s.sess.Delete(cartKey)
		return
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		logger.Error("session store: encode cart", "error", err)
		return
	}
	s.sess.Set(cartKey, string(raw))
}
