// Package auth supplies bearer credentials for outbound transport requests.
// Connections wire a TokenSource into their PrepareRequest implementation so
// every negotiate/connect/poll request carries a fresh Authorization header.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource yields the bearer token to attach to an outbound request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Authorize attaches a bearer token from the source to the request. A nil
// source is a no-op.
func Authorize(req *http.Request, src TokenSource) error {
	if src == nil {
		return nil
	}
	token, err := src.Token(req.Context())
	if err != nil {
		return fmt.Errorf("auth: resolve token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// StaticTokenSource always returns the same token.
type StaticTokenSource string

func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}

// TokenExpiry extracts the expiry claim from a JWT without verifying the
// signature. Clients hold tokens they did not mint; verification is the
// server's job, the client only needs to know when to refresh.
func TokenExpiry(tokenStr string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("auth: token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}

// RefreshFunc obtains a new token, e.g. from an identity service.
type RefreshFunc func(ctx context.Context) (string, error)

// RefreshingTokenSource serves a JWT and refreshes it ahead of expiry.
// Safe for concurrent use.
type RefreshingTokenSource struct {
	refresh      RefreshFunc
	refreshAhead time.Duration

	mu      sync.Mutex
	current string
	expiry  time.Time
}

// NewRefreshingTokenSource builds a source that refreshes refreshAhead before
// the current token expires (default 30s when zero).
func NewRefreshingTokenSource(refresh RefreshFunc, refreshAhead time.Duration) (*RefreshingTokenSource, error) {
	if refresh == nil {
		return nil, errors.New("auth: refresh func is required")
	}
	if refreshAhead <= 0 {
		refreshAhead = 30 * time.Second
	}
	return &RefreshingTokenSource{refresh: refresh, refreshAhead: refreshAhead}, nil
}

func (s *RefreshingTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != "" && time.Until(s.expiry) > s.refreshAhead {
		return s.current, nil
	}

	token, err := s.refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("auth: refresh token: %w", err)
	}
	expiry, err := TokenExpiry(token)
	if err != nil {
		return "", err
	}
	s.current = token
	s.expiry = expiry
	return token, nil
}
