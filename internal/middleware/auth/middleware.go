package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

type TokenMiddleware struct {
	Auth      *service.AuthService
	JWTSecret []byte

	// DemoUserID is used when the request carries no usable session. The
	// storefront allows anonymous carts; they all belong to this user.
	DemoUserID uint
}

// WithUser resolves the requesting user from the access cookie, rotating
// through the refresh cookie when the access token has expired. Identity is
// always placed into the echo context; handlers never reach for globals.
func (m *TokenMiddleware) WithUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, role, ok := m.resolve(c)
		if !ok {
			userID, role = m.DemoUserID, "user"
		}
		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		return next(c)
	}
}

// RequireAdmin must run after WithUser.
func (m *TokenMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get(ContextRole).(string); role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin only")
		}
		return next(c)
	}
}

func (m *TokenMiddleware) resolve(c echo.Context) (uint, string, bool) {
	if cookie, err := c.Cookie("accessToken"); err == nil {
		if claims, err := tokens.AccessClaimsFromToken(cookie.Value, m.JWTSecret); err == nil {
			if id, err := claims.UserID(); err == nil {
				return id, claims.Role, true
			}
		}
	}

	cookie, err := c.Cookie("refreshToken")
	if err != nil {
		return 0, "", false
	}

	res, err := m.Auth.Rotate(c.Request().Context(), cookie.Value)
	if err != nil {
		return 0, "", false
	}

	c.SetCookie(CreateCookie("accessToken", res.AccessToken, "/", res.AccessExp))
	c.SetCookie(CreateCookie("refreshToken", res.RefreshToken, "/", res.RefreshExp))
	return res.User.ID, res.User.Role, true
}

// UserID reads the identity placed by WithUser.
func UserID(c echo.Context) uint {
	id, _ := c.Get(ContextUserID).(uint)
	return id
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
