package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chirp/social-api/internal/api/metrics"
	"github.com/chirp/social-api/internal/core/domain"
	"github.com/chirp/social-api/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	sessions     ports.SessionIssuer
	secureCookie bool
}

// NewAuthHandler returns an AuthHandler. secureCookie marks the session
// cookie Secure and should be set in production.
func NewAuthHandler(authService ports.AuthService, sessions ports.SessionIssuer, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, secureCookie: secureCookie}
}

// Signup creates a new user account and starts a session.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Header       201   {string}  Set-Cookie  "jwt session cookie"
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Signup(c.Request().Context(), toSignupInput(req))
	if err != nil {
		return err
	}

	metrics.SignupsTotal.Inc()
	c.SetCookie(sessionCookie(token, h.sessions.TTL(), h.secureCookie))
	return c.JSON(http.StatusCreated, user)
}

// Login authenticates a user and starts a session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  domain.User
// @Header       200   {string}  Set-Cookie  "jwt session cookie"
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(sessionCookie(token, h.sessions.TTL(), h.secureCookie))
	return c.JSON(http.StatusOK, user)
}

// Logout clears the session cookie.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(expiredSessionCookie(h.secureCookie))
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}

// GetMe returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/auth/getMe [get]
func (h *AuthHandler) GetMe(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
