package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := tok.SignedString(key)
	require.NoError(t, err)
	return signed
}

func runProtected(key *rsa.PrivateKey, authHeader string) (*httptest.ResponseRecorder, string) {
	var gotUserID string
	handler := AuthMiddleware(&key.PublicKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v := r.Context().Value(ContextKeyUserID); v != nil {
			gotUserID = v.(string)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, gotUserID
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	key := newTestKey(t)
	userID := uuid.NewString()
	token := signToken(t, key, jwt.MapClaims{
		"sub": userID,
		"iss": TokenIssuer,
		"exp": float64(time.Now().Add(time.Hour).Unix()),
	})

	rec, gotUserID := runProtected(key, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	key := newTestKey(t)

	rec, _ := runProtected(key, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized")
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	key := newTestKey(t)
	token := signToken(t, key, jwt.MapClaims{
		"sub": uuid.NewString(),
		"iss": TokenIssuer,
		"exp": float64(time.Now().Add(-time.Hour).Unix()),
	})

	rec, _ := runProtected(key, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsWrongIssuer(t *testing.T) {
	key := newTestKey(t)
	token := signToken(t, key, jwt.MapClaims{
		"sub": uuid.NewString(),
		"iss": "someone-else",
		"exp": float64(time.Now().Add(time.Hour).Unix()),
	})

	rec, _ := runProtected(key, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsWrongKey(t *testing.T) {
	key := newTestKey(t)
	otherKey := newTestKey(t)
	token := signToken(t, otherKey, jwt.MapClaims{
		"sub": uuid.NewString(),
		"iss": TokenIssuer,
		"exp": float64(time.Now().Add(time.Hour).Unix()),
	})

	rec, _ := runProtected(key, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsMissingSubject(t *testing.T) {
	key := newTestKey(t)
	token := signToken(t, key, jwt.MapClaims{
		"iss": TokenIssuer,
		"exp": float64(time.Now().Add(time.Hour).Unix()),
	})

	rec, _ := runProtected(key, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
