package middleware

import (
	"net/http"

	"resellPilot/pkg/logger"

	jsonres "resellPilot/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo HTTPErrorHandler: anything that escapes a
// handler is logged and turned into a uniform error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("unhandled request error",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	if jsonErr := c.JSON(code, jsonres.Error(http.StatusText(code), message, nil)); jsonErr != nil {
		logger.Error("failed to write error response", jsonErr)
	}
}
