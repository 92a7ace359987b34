package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chirp/social-api/internal/core/domain"
	"github.com/chirp/social-api/internal/core/ports"
)

const (
	// SessionCookie is the cookie carrying the session token.
	SessionCookie = "jwt"
	// UserKey is the echo context key holding the authenticated *domain.User.
	UserKey = "user"
)

var (
	errNoSession      = echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized access, please login")
	errInvalidSession = echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized access, invalid token")
)

// UserLookup resolves the subject of a session token.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Session requires a valid session cookie, resolves its user and stores it
// under UserKey for the handlers.
func Session(sessions ports.SessionIssuer, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return errNoSession
			}

			userID, err := sessions.Verify(cookie.Value)
			if err != nil {
				return errInvalidSession
			}

			user, err := users.GetByID(c.Request().Context(), userID)
			if err != nil {
				return err
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Session.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(UserKey).(*domain.User)
	return user, ok && user != nil
}
