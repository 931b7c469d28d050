package rest

import (
	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

// currentUser pulls the ids the auth middleware stored on the context.
func currentUser(c echo.Context) (userID uint64, sessionID string) {
	if v, ok := c.Get("user_id").(uint64); ok {
		userID = v
	}
	if v, ok := c.Get("session_id").(string); ok {
		sessionID = v
	}

	return userID, sessionID
}
