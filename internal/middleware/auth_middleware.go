package middleware

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resellPilot/pkg/logger"
	"resellPilot/pkg/utils"

	jsonres "resellPilot/pkg/response"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware validates the bearer token and exposes the current
// user id plus a session id scoping the advisor dismissal set.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing authorization header", nil,
				))
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid authorization format", nil,
				))
			}

			tokenString := tokenParts[1]

			claims, err := utils.ParseJWT(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			expAt, err := claims.GetExpirationTime()
			if err != nil || time.Now().After(expAt.Time) {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Status Forbidden", nil,
				))
			}

			userID, err := strconv.ParseUint(claims.UserID, 10, 64)
			if err != nil {
				logger.Error("Invalid user ID in token", err)
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Invalid user ID in token", nil,
				))
			}

			c.Set("user_id", userID)
			c.Set("role", claims.Role)
			c.Set("session_id", sessionID(claims.ID, tokenString))

			return next(c)
		}
	}
}

// sessionID prefers the token's jti; tokens without one fall back to a
// hash of the token itself so one login still maps to one session.
func sessionID(jti, token string) string {
	if jti != "" {
		return jti
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(token))

	return fmt.Sprintf("%016x", h.Sum64())
}
