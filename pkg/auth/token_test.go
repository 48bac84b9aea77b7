package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "transport-client",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestAuthorizeSetsBearerHeader(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.test/negotiate", nil)
	require.NoError(t, err)

	require.NoError(t, Authorize(req, StaticTokenSource("abc")))
	assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
}

func TestAuthorizeNilSourceIsNoop(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.test/negotiate", nil)
	require.NoError(t, err)

	require.NoError(t, Authorize(req, nil))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestAuthorizeEmptyTokenLeavesHeaderUnset(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.test/negotiate", nil)
	require.NoError(t, err)

	require.NoError(t, Authorize(req, StaticTokenSource("")))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestAuthorizeSourceFailurePropagates(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.test/negotiate", nil)
	require.NoError(t, err)

	cause := errors.New("identity service down")
	src := RefreshFunc(func(context.Context) (string, error) { return "", cause })

	err = Authorize(req, tokenSourceFunc(src))
	assert.ErrorIs(t, err, cause)
}

// tokenSourceFunc adapts a RefreshFunc for tests that need a failing source.
type tokenSourceFunc RefreshFunc

func (f tokenSourceFunc) Token(ctx context.Context) (string, error) {
	return RefreshFunc(f)(ctx)
}

func TestTokenExpiry(t *testing.T) {
	token := mintToken(t, time.Hour)

	expiry, err := TokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)
}

func TestTokenExpiryMissingClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = TokenExpiry(token)
	assert.Error(t, err)
}

func TestTokenExpiryGarbage(t *testing.T) {
	_, err := TokenExpiry("not-a-jwt")
	assert.Error(t, err)
}

func TestRefreshingTokenSourceCachesUntilNearExpiry(t *testing.T) {
	refreshes := 0
	fresh := mintToken(t, time.Hour)
	src, err := NewRefreshingTokenSource(func(context.Context) (string, error) {
		refreshes++
		return fresh, nil
	}, 30*time.Second)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		token, err := src.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, fresh, token)
	}
	assert.Equal(t, 1, refreshes, "token far from expiry is reused")
}

func TestRefreshingTokenSourceRefreshesNearExpiry(t *testing.T) {
	refreshes := 0
	src, err := NewRefreshingTokenSource(func(context.Context) (string, error) {
		refreshes++
		// Always within the refresh-ahead window, so every call refreshes.
		return mintToken(t, 10*time.Second), nil
	}, 30*time.Second)
	require.NoError(t, err)

	_, err = src.Token(context.Background())
	require.NoError(t, err)
	_, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, refreshes)
}

func TestRefreshingTokenSourceRequiresFunc(t *testing.T) {
	_, err := NewRefreshingTokenSource(nil, 0)
	assert.Error(t, err)
}

func TestRefreshingTokenSourcePropagatesRefreshFailure(t *testing.T) {
	cause := errors.New("boom")
	src, err := NewRefreshingTokenSource(func(context.Context) (string, error) {
		return "", cause
	}, 0)
	require.NoError(t, err)

	_, err = src.Token(context.Background())
	assert.ErrorIs(t, err, cause)
}
