package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/serraej/member-evaluations/internal/api/middleware"
	"github.com/serraej/member-evaluations/internal/core/ports"
)

// ctxSubmitter extracts the identity injected by the Auth middleware and
// fails fast before any service call when it is missing.
func ctxSubmitter(c echo.Context) (ports.Submitter, error) {
	userID, _ := c.Get(middleware.KeyUserID).(string)
	if userID == "" {
		return ports.Submitter{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	name, _ := c.Get(middleware.KeyName).(string)
	return ports.Submitter{ID: userID, Name: name}, nil
}

func ctxSessionID(c echo.Context) string {
	sid, _ := c.Get(middleware.KeySessionID).(string)
	return sid
}
