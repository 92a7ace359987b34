package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chirp/social-api/internal/core/ports"
)

type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /api/notifications. Listing marks every notification read.
//
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Security     CookieAuth
// @Success      200  {array}   notificationResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNotificationResponses(items))
}

// DeleteAll handles DELETE /api/notifications.
//
// @Summary      Delete all notifications
// @Tags         notifications
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/notifications [delete]
func (h *NotificationHandler) DeleteAll(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteAll(c.Request().Context(), me.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Notifications deleted successfully"})
}
