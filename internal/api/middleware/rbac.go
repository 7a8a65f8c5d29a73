package middleware

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

// RBAC lets the request through only when the role set by Auth is one of
// roles. A caller without a profile has no role and is always refused.
func RBAC(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(KeyRole).(string)
			if role == "" || !slices.Contains(roles, role) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
