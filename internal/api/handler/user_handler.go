package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chirp/social-api/internal/api/metrics"
	"github.com/chirp/social-api/internal/core/ports"
)

// UserHandler handles profile and follow graph requests.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Profile handles GET /api/users/profile/:username.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  domain.User
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/users/profile/{username} [get]
func (h *UserHandler) Profile(c echo.Context) error {
	user, err := h.service.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Follow handles POST /api/users/follow/:id and toggles the follow state.
//
// @Summary      Follow or unfollow a user
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Target user id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/follow/{id} [post]
func (h *UserHandler) Follow(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	res, err := h.service.ToggleFollow(c.Request().Context(), me.ID, c.Param("id"))
	if err != nil {
		return err
	}

	if res.Following {
		metrics.FollowsTotal.WithLabelValues("follow").Inc()
		return c.JSON(http.StatusOK, messageResponse{Message: "Followed successfully"})
	}
	metrics.FollowsTotal.WithLabelValues("unfollow").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Unfollowed successfully"})
}

// Suggested handles GET /api/users/suggested.
//
// @Summary      Suggested users to follow
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  errorResponse
// @Router       /api/users/suggested [get]
func (h *UserHandler) Suggested(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	users, err := h.service.Suggested(c.Request().Context(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilUsers(users))
}

// Update handles POST /api/users/update.
//
// @Summary      Update the current user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/users/update [post]
func (h *UserHandler) Update(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), me.ID, toUpdateProfileInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
