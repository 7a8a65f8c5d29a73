package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/serraej/member-evaluations/internal/api/metrics"
	"github.com/serraej/member-evaluations/internal/core/domain"
	"github.com/serraej/member-evaluations/internal/core/ports"
)

// MemberHandler serves the member rosters read from the workspace directory.
type MemberHandler struct {
	directory ports.DirectoryService
	auth      ports.AuthService
}

func NewMemberHandler(directory ports.DirectoryService, auth ports.AuthService) *MemberHandler {
	return &MemberHandler{directory: directory, auth: auth}
}

// List handles GET /v1/members: the members of the caller's assessoria,
// without the caller.
//
// @Summary      Members the caller can evaluate
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        assessoria  query     string  false  "Override the profile assessoria"
// @Success      200         {object}  memberListResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Failure      502         {object}  errorResponse
// @Router       /v1/members [get]
func (h *MemberHandler) List(c echo.Context) error {
	who, err := ctxSubmitter(c)
	if err != nil {
		return err
	}

	identity, err := h.auth.Me(c.Request().Context(), who.ID)
	if err != nil {
		return err
	}
	if identity.Profile == nil {
		return domain.ErrProfileNotFound
	}

	category := c.QueryParam("assessoria")
	if category == "" {
		category = identity.Profile.Assessoria
	}

	people, err := h.listMembers(c, ports.DirectoryQuery{
		Category:    category,
		ExcludeName: identity.Profile.NotionName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberListResponse(people))
}

// All handles GET /v1/members/all, used by the sign-up name picker.
//
// @Summary      All members
// @Tags         members
// @Produce      json
// @Success      200  {object}  memberListResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/members/all [get]
func (h *MemberHandler) All(c echo.Context) error {
	people, err := h.listMembers(c, ports.DirectoryQuery{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberListResponse(people))
}

// Grouped handles GET /api/get-members: every member bucketed by category.
//
// @Summary      Members grouped by category
// @Tags         members
// @Produce      json
// @Success      200  {object}  groupedMembersResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/get-members [get]
func (h *MemberHandler) Grouped(c echo.Context) error {
	start := time.Now()
	groups, err := h.directory.GroupedMembers(c.Request().Context())
	observeDirectory(start, err)
	if err != nil {
		return err
	}

	resp := groupedMembersResponse{Groups: make(map[string][]personResponse, len(groups))}
	for group, people := range groups {
		out := make([]personResponse, 0, len(people))
		for _, p := range people {
			out = append(out, toPersonResponse(p, group))
		}
		resp.Groups[group] = out
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *MemberHandler) listMembers(c echo.Context, q ports.DirectoryQuery) ([]domain.Person, error) {
	start := time.Now()
	people, err := h.directory.ListMembers(c.Request().Context(), q)
	observeDirectory(start, err)
	return people, err
}

func observeDirectory(start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.DirectoryQueryDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
