package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{"username": "alice", "password": "password"}
	rec, c := env.doJSON(http.MethodPost, "/auth/register", body)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "user", user.Role)
	require.NotZero(t, user.ID)
	require.NotContains(t, rec.Body.String(), "password", "hash must never be serialized")

	// Same username again conflicts.
	_, c = env.doJSON(http.MethodPost, "/auth/register", body)
	err := env.Auth.Register(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusConflict, he.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(http.MethodPost, "/auth/register", map[string]string{"username": "alice"})
	err := env.Auth.Register(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestLoginSetsSessionCookies(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(http.MethodPost, "/auth/register", map[string]string{"username": "alice", "password": "password"})
	require.NoError(t, env.Auth.Register(c))

	rec, c := env.doJSON(http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "password"})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	names := make(map[string]string, len(cookies))
	for _, ck := range cookies {
		names[ck.Name] = ck.Value
	}
	require.NotEmpty(t, names["accessToken"])
	require.NotEmpty(t, names["refreshToken"])

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, false, resp["is_admin"])

	var stored models.RefreshToken
	require.NoError(t, env.DB.Where("token = ?", names["refreshToken"]).First(&stored).Error)
	require.False(t, stored.Revoked)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(http.MethodPost, "/auth/register", map[string]string{"username": "alice", "password": "password"})
	require.NoError(t, env.Auth.Register(c))

	_, c = env.doJSON(http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "wrong"})
	err := env.Auth.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(http.MethodPost, "/auth/register", map[string]string{"username": "alice", "password": "password"})
	require.NoError(t, env.Auth.Register(c))

	rec, c := env.doJSON(http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "password"})
	require.NoError(t, env.Auth.Login(c))

	var refresh string
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "refreshToken" {
			refresh = ck.Value
		}
	}
	require.NotEmpty(t, refresh)

	rec, c = env.doJSON(http.MethodPost, "/auth/logout", nil, &http.Cookie{Name: "refreshToken", Value: refresh})
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.RefreshToken
	require.NoError(t, env.DB.Where("token = ?", refresh).First(&stored).Error)
	require.True(t, stored.Revoked)

	// Logging out again is harmless.
	rec, c = env.doJSON(http.MethodPost, "/auth/logout", nil, &http.Cookie{Name: "refreshToken", Value: refresh})
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)
}
