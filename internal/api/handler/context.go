package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/chirp/social-api/internal/api/middleware"
	"github.com/chirp/social-api/internal/core/domain"
)

var errNoSessionUser = &domain.AuthError{Msg: "Unauthorized access, please login"}

// currentUser returns the user the Session middleware resolved. Handlers on
// protected routes can rely on it; the error only fires when a route was
// registered without the middleware.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, errNoSessionUser
	}
	return user, nil
}
