package repositories

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
	outbound "github.com/shashiranjanraj/cafefront/pkg/http"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
	"github.com/shashiranjanraj/cafefront/pkg/metrics"
)

// ErrInvalidCredentials is any non-2xx answer from the login endpoint.
var ErrInvalidCredentials = errors.New("Invalid credentials")

const loginOp = "POST /auth/login"

// AuthRepository exchanges credentials for an access token. The login
// endpoint takes a form body, so it goes straight through pkg/http instead
// of the JSON API client. Transport and decode failures still come back as
// *apiclient.NetworkError so callers can use apiclient.Message.
type AuthRepository struct {
	baseURL string
	timeout time.Duration
}

func NewAuthRepository(baseURL string, timeout time.Duration) *AuthRepository {
	return &AuthRepository{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// Login posts username and password as given, empty or not.
func (r *AuthRepository) Login(ctx context.Context, username, password string) (string, error) {
	start := time.Now()
	resp, err := outbound.Post(r.baseURL+"/auth/login").
		WithContext(ctx).
		Timeout(r.timeout).
		Form(url.Values{"username": {username}, "password": {password}}).
		Send()
	if err != nil {
		metrics.ObserveUpstream("POST", "/auth/login", 0, start)
		return "", &apiclient.NetworkError{Op: loginOp, Err: err}
	}
	metrics.ObserveUpstream("POST", "/auth/login", resp.StatusCode, start)

	if !resp.OK() {
		logger.WithCtx(ctx).Info("login rejected", "status", resp.StatusCode)
		return "", ErrInvalidCredentials
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := resp.JSON(&body); err != nil {
		return "", &apiclient.NetworkError{Op: loginOp, Parse: true, Err: err}
	}
	if body.AccessToken == "" {
		return "", &apiclient.NetworkError{Op: loginOp, Parse: true, Err: errors.New("no access_token in response")}
	}
	return body.AccessToken, nil
}
