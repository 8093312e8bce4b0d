package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jarolccis/agreements-core-api/internal/config"
	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/errs"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAudience = "agreements-api"

func newTestAuth(t *testing.T) (*AuthMiddleware, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	log := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Auth: config.AuthConfig{
				PublicKey: string(publicPEM),
				Audience:  testAudience,
			},
		},
		Logger: &log,
	}

	return NewAuthMiddleware(s), key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func invokeAuth(t *testing.T, auth *AuthMiddleware, authorization string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/agreements/1", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	next := func(c echo.Context) error { return nil }
	return c, auth.RequireAuth(next)(c)
}

func TestRequireAuthValidToken(t *testing.T) {
	auth, key := newTestAuth(t)

	token := signToken(t, key, jwt.MapClaims{
		"sub":   "user-1",
		"aud":   testAudience,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"email": "buyer@tottus.pe",
		"bu_id": 1,
		"realm_access": map[string]any{
			"roles": []string{domain.RoleAccessAgreements},
		},
		"resource_access": map[string]any{
			testAudience: map[string]any{
				"roles": []string{domain.RoleCreateAgreements},
			},
		},
	})

	c, err := invokeAuth(t, auth, "Bearer "+token)
	require.NoError(t, err)

	user, ok := GetUser(c)
	require.True(t, ok)
	assert.Equal(t, "buyer@tottus.pe", user.Email)
	assert.Equal(t, int32(1), user.BusinessUnitID)
	assert.True(t, user.HasRole(domain.RoleAccessAgreements))
	assert.True(t, user.HasRole(domain.RoleCreateAgreements))
	assert.Equal(t, "buyer@tottus.pe", GetUserID(c))
}

func TestRequireAuthMissingToken(t *testing.T) {
	auth, _ := newTestAuth(t)

	for _, header := range []string{"", "Token abc", "Bearer"} {
		_, err := invokeAuth(t, auth, header)
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr, "header %q", header)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	auth, key := newTestAuth(t)

	token := signToken(t, key, jwt.MapClaims{
		"sub": "user-1",
		"aud": testAudience,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := invokeAuth(t, auth, "Bearer "+token)
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}

func TestRequireAuthWrongAudience(t *testing.T) {
	auth, key := newTestAuth(t)

	token := signToken(t, key, jwt.MapClaims{
		"sub": "user-1",
		"aud": "another-api",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := invokeAuth(t, auth, "Bearer "+token)
	require.Error(t, err)
}

func TestRequireAuthWrongKey(t *testing.T) {
	auth, _ := newTestAuth(t)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	token := signToken(t, otherKey, jwt.MapClaims{
		"sub": "user-1",
		"aud": testAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err = invokeAuth(t, auth, "Bearer "+token)
	require.Error(t, err)
}

func TestRequireRoles(t *testing.T) {
	auth, _ := newTestAuth(t)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/agreements", nil), httptest.NewRecorder())
	c.Set(UserKey, domain.User{
		Email: "buyer@tottus.pe",
		Roles: []string{domain.RoleAccessAgreements},
	})

	next := func(c echo.Context) error { return nil }

	err := auth.RequireRoles(domain.RoleAccessAgreements)(next)(c)
	assert.NoError(t, err)

	err = auth.RequireRoles(domain.RoleAccessAgreements, domain.RoleCreateAgreements)(next)(c)
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
}

func TestRequireRolesWithoutUser(t *testing.T) {
	auth, _ := newTestAuth(t)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	next := func(c echo.Context) error { return nil }
	err := auth.RequireRoles(domain.RoleAccessAgreements)(next)(c)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}
