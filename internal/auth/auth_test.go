package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret:     "test-secret",
		Issuer:     "grindex.test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
}

func TestIssueAndParsePair(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()

	pair, err := IssuePair(cfg, userID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	access, err := ParseAccess(pair.AccessToken, cfg)
	require.NoError(t, err)
	require.Equal(t, userID, access.UserID)
	require.Equal(t, TokenTypeAccess, access.TokenType)

	refresh, err := ParseRefresh(pair.RefreshToken, cfg)
	require.NoError(t, err)
	require.Equal(t, userID, refresh.UserID)
}

// A refresh token must never pass as a bearer credential, and vice versa.
func TestTokenTypeEnforced(t *testing.T) {
	cfg := testConfig()
	pair, err := IssuePair(cfg, uuid.New())
	require.NoError(t, err)

	_, err = ParseAccess(pair.RefreshToken, cfg)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseRefresh(pair.AccessToken, cfg)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	pair, err := IssuePair(cfg, uuid.New())
	require.NoError(t, err)

	other := cfg
	other.Secret = "different"
	_, err = ParseAccess(pair.AccessToken, other)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	cfg := testConfig()
	pair, err := IssuePair(cfg, uuid.New())
	require.NoError(t, err)

	other := cfg
	other.Issuer = "someone.else"
	_, err = ParseAccess(pair.AccessToken, other)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.NoError(t, CheckPassword(hash, "correct horse battery staple"))
	require.Error(t, CheckPassword(hash, "wrong"))
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	mw := NewMiddleware(testConfig(), nil)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})

	rr := httptest.NewRecorder()
	mw.Wrap(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/activities", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
}

func TestMiddlewarePassesValidToken(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()
	pair, err := IssuePair(cfg, userID)
	require.NoError(t, err)

	var seen *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := FromContext(r.Context())
		require.True(t, ok)
		seen = claims
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/activities", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)

	rr := httptest.NewRecorder()
	NewMiddleware(cfg, nil).Wrap(next).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)
	require.Equal(t, userID, seen.UserID)
}

func TestMiddlewareSkipsExemptRoutes(t *testing.T) {
	skip := func(r *http.Request) bool { return r.URL.Path == "/healthz" }

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	rr := httptest.NewRecorder()
	NewMiddleware(testConfig(), skip).Wrap(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.True(t, called)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestMiddlewareRejectsRefreshTokenAsBearer(t *testing.T) {
	cfg := testConfig()
	pair, err := IssuePair(cfg, uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/activities", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)

	rr := httptest.NewRecorder()
	NewMiddleware(cfg, nil).Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run with a refresh token")
	})).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
