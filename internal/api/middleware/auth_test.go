package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerceprecision/cpe-api/internal/config"
	"github.com/commerceprecision/cpe-api/internal/service/auth"
)

const testJWTSecret = "thisisasecretkeythatis32charslong!!"

func newTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()

	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   testJWTSecret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	})
	require.NoError(t, err)
	return svc
}

// okHandler records the user ID the middleware put in the context.
func okHandler(captured *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := GetUserID(r); ok {
			*captured = userID
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t)
	userID := uuid.New()
	token, err := jwtService.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	var captured uuid.UUID
	handler := NewAuthMiddleware(jwtService).Authenticate(okHandler(&captured))

	r := httptest.NewRequest("GET", "/questions", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, captured)
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	t.Parallel()

	handler := NewAuthMiddleware(newTestJWTService(t)).Authenticate(okHandler(&uuid.UUID{}))

	r := httptest.NewRequest("GET", "/questions", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header required")
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	t.Parallel()

	handler := NewAuthMiddleware(newTestJWTService(t)).Authenticate(okHandler(&uuid.UUID{}))

	for _, header := range []string{"Bearer", "Basic dXNlcjpwYXNz", "Bearer a b"} {
		r := httptest.NewRequest("GET", "/questions", nil)
		r.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header: %q", header)
	}
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	t.Parallel()

	handler := NewAuthMiddleware(newTestJWTService(t)).Authenticate(okHandler(&uuid.UUID{}))

	r := httptest.NewRequest("GET", "/questions", nil)
	r.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t)
	refreshToken, err := jwtService.GenerateRefreshToken(context.Background(), uuid.New())
	require.NoError(t, err)

	handler := NewAuthMiddleware(jwtService).Authenticate(okHandler(&uuid.UUID{}))

	r := httptest.NewRequest("GET", "/questions", nil)
	r.Header.Set("Authorization", "Bearer "+refreshToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Access token required")
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	// Hand-craft a token whose expiry is well past any clock skew allowance.
	now := time.Now().UTC().Add(-2 * time.Hour)
	claims := jwt.MapClaims{
		"uid":  uuid.New().String(),
		"type": "access",
		"sub":  uuid.New().String(),
		"iat":  now.Unix(),
		"exp":  now.Add(time.Minute).Unix(),
		"jti":  uuid.New().String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	handler := NewAuthMiddleware(newTestJWTService(t)).Authenticate(okHandler(&uuid.UUID{}))

	r := httptest.NewRequest("GET", "/questions", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}
