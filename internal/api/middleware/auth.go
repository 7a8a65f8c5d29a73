package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/serraej/member-evaluations/internal/core/ports"
)

// Context keys set by Auth.
const (
	KeyUserID    = "user_id"
	KeySessionID = "session_id"
	KeyRole      = "role"
	KeyName      = "name"
)

// TokenVerifier checks a bearer token and its session liveness.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*ports.Claims, error)
}

// Auth validates the bearer token and injects its claims into the context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}

			c.Set(KeyUserID, claims.UserID)
			c.Set(KeySessionID, claims.SessionID)
			c.Set(KeyRole, claims.Role)
			c.Set(KeyName, claims.Name)

			return next(c)
		}
	}
}
