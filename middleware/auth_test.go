package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protectedHandler(roles ...string) http.Handler {
	var ok http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if len(roles) > 0 {
		ok = Authorize(roles...)(ok)
	}
	return Authenticate(testSecret)(ok)
}

func doRequest(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	token := signedToken(t, testSecret, jwt.MapClaims{
		"user_id": 1,
		"role":    RoleOrganizer,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	rec := doRequest(protectedHandler(), token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	rec := doRequest(protectedHandler(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	token := signedToken(t, "other-secret", jwt.MapClaims{"user_id": 1, "role": RoleOrganizer})
	rec := doRequest(protectedHandler(), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	token := signedToken(t, testSecret, jwt.MapClaims{
		"user_id": 1,
		"role":    RoleOrganizer,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	rec := doRequest(protectedHandler(), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthorizeChecksRole(t *testing.T) {
	organizer := signedToken(t, testSecret, jwt.MapClaims{"user_id": 1, "role": RoleOrganizer})
	player := signedToken(t, testSecret, jwt.MapClaims{"user_id": 2, "role": RolePlayer})

	handler := protectedHandler(RoleOrganizer, RoleAdmin)
	assert.Equal(t, http.StatusNoContent, doRequest(handler, organizer).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(handler, player).Code)
}

func TestClaimsHelpers(t *testing.T) {
	ctx := contextWithClaims(context.Background(), jwt.MapClaims{"user_id": float64(5), "role": RoleAdmin})

	id, err := GetUserIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, id)

	role, err := GetUserRoleFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = GetUserIDFromContext(context.Background())
	assert.Error(t, err)
}
