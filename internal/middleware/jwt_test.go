package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autospa/carwash-booking/internal/auth"
	"github.com/autospa/carwash-booking/internal/model"
)

func newAuthedContext(t *testing.T, header string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRequireAuthMissingHeader(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	c, rec := newAuthedContext(t, "")

	err := RequireAuth(tokens)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	c, rec := newAuthedContext(t, "Bearer garbage")

	err := RequireAuth(tokens)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthWrongSecret(t *testing.T) {
	raw, _, err := auth.NewTokenService("other-secret").Issue(1, model.RoleClient)
	require.NoError(t, err)

	c, rec := newAuthedContext(t, "Bearer "+raw)
	err = RequireAuth(auth.NewTokenService("test-secret"))(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthValidToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	raw, _, err := tokens.Issue(42, model.RoleClient)
	require.NoError(t, err)

	c, rec := newAuthedContext(t, "Bearer "+raw)
	var seen auth.Identity
	handler := func(c echo.Context) error {
		ident, ok := CurrentIdentity(c)
		require.True(t, ok)
		seen = ident
		return c.NoContent(http.StatusOK)
	}

	err = RequireAuth(tokens)(handler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), seen.UserID)
	assert.Equal(t, model.RoleClient, seen.Role)
}

func TestOptionalAuthNoHeaderIsGuest(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	c, rec := newAuthedContext(t, "")

	handler := func(c echo.Context) error {
		_, ok := CurrentIdentity(c)
		assert.False(t, ok)
		return c.NoContent(http.StatusOK)
	}
	err := OptionalAuth(tokens)(handler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuthInvalidTokenRejected(t *testing.T) {
	// A presented-but-invalid token must not be downgraded to guest.
	tokens := auth.NewTokenService("test-secret")
	c, rec := newAuthedContext(t, "Bearer nope")

	err := OptionalAuth(tokens)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		identity *auth.Identity
		allowed  []model.Role
		want     int
	}{
		{"admin allowed", &auth.Identity{UserID: 1, Role: model.RoleAdmin}, []model.Role{model.RoleAdmin}, http.StatusOK},
		{"client forbidden on admin route", &auth.Identity{UserID: 2, Role: model.RoleClient}, []model.Role{model.RoleAdmin}, http.StatusForbidden},
		{"no identity forbidden", nil, []model.Role{model.RoleAdmin}, http.StatusForbidden},
		{"client allowed on client route", &auth.Identity{UserID: 3, Role: model.RoleClient}, []model.Role{model.RoleClient, model.RoleAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newAuthedContext(t, "")
			if tt.identity != nil {
				SetIdentity(c, *tt.identity)
			}
			err := RequireRole(tt.allowed...)(okHandler)(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
