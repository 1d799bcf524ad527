package services

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/cafefront/app/repositories"
	"github.com/shashiranjanraj/cafefront/pkg/event"
)

type AuthService struct {
	auth *repositories.AuthRepository
}

func NewAuthService(auth *repositories.AuthRepository) *AuthService {
	return &AuthService{auth: auth}
}

// Login trades credentials for a token and signs store in as admin. On any
// failure store is left as it was.
func (s *AuthService) Login(ctx context.Context, store *SessionStore, username, password string) error {
	token, err := s.auth.Login(ctx, username, password)
	if err != nil {
		reason := "unreachable"
		if errors.Is(err, repositories.ErrInvalidCredentials) {
			reason = "invalid_credentials"
		}
		event.Fire(event.LoginFailed, event.LoginPayload{Username: username, Reason: reason})
		return err
	}

	if err := store.SetSession(token, RoleAdmin); err != nil {
		return err
	}
	event.Fire(event.LoginSucceeded, event.LoginPayload{Username: username})
	return nil
}

// Logout signs store out.
func (s *AuthService) Logout(store *SessionStore) {
	if !store.IsAuthenticated() && store.Role() == "" {
		return
	}
	store.ClearSession()
	event.Fire(event.SessionCleared, event.SessionClearedPayload{Reason: "logout"})
}
