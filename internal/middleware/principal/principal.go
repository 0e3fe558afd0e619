// Package principal turns a validated JWT into the acting identity for the
// authorization engine. The user record is re-read per request so a role
// change (or a deleted account) takes effect immediately, not at token
// expiry.
package principal

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"reviewhub/internal/auth"
	"reviewhub/internal/authz"
	"reviewhub/internal/handler"
	"reviewhub/internal/repository"
)

// NewClaims is the claims factory for the echo-jwt middleware.
func NewClaims(c echo.Context) jwt.Claims {
	return new(auth.Claims)
}

// Loader resolves JWT claims to a fresh principal.
type Loader struct {
	users repository.UserRepository
}

// NewLoader builds a Loader on top of the user repository.
func NewLoader(users repository.UserRepository) *Loader {
	return &Loader{users: users}
}

// Middleware stores the resolved principal in the request context. It must
// run after the JWT middleware has validated the token.
func (l *Loader) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := l.users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "load principal")
			}

			c.Set(handler.PrincipalKey, authz.Principal{
				ID:            user.ID,
				Role:          user.Role,
				Authenticated: true,
			})
			return next(c)
		}
	}
}
