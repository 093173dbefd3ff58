package webapi

import (
	"github.com/labstack/echo/v4"
	"github.com/teamup-uiuc/teamup/pkg/notify"
)

type NotificationsController struct {
	hub *notify.Hub
}

func NewNotificationsController(hub *notify.Hub) *NotificationsController {
	return &NotificationsController{hub: hub}
}

// StreamSSE holds the connection open and writes the acting user's events as
// Server-Sent Events.
func (c *NotificationsController) StreamSSE(ctx echo.Context) error {
	userID, err := actingUserID(ctx, 0)
	if err != nil {
		return err
	}

	c.hub.SSE().HandleSSE(ctx.Response(), ctx.Request(), userID)
	return nil
}

func (c *NotificationsController) StreamWebSocket(ctx echo.Context) error {
	userID, err := actingUserID(ctx, 0)
	if err != nil {
		return err
	}

	// The upgrader has already written an error response when this fails.
	_ = c.hub.WebSocket().HandleWebSocket(ctx.Response(), ctx.Request(), userID)
	return nil
}
