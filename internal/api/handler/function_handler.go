package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/serraej/member-evaluations/internal/core/ports"
)

// FunctionHandler keeps the request/response contract of the two
// member-listing functions the browser client calls directly.
type FunctionHandler struct {
	directory ports.DirectoryService
}

func NewFunctionHandler(directory ports.DirectoryService) *FunctionHandler {
	return &FunctionHandler{directory: directory}
}

// functionCORSHeaders are the headers the member functions have always
// answered preflights with.
var functionCORSHeaders = map[string]string{
	echo.HeaderAccessControlAllowOrigin:  "*",
	echo.HeaderAccessControlAllowHeaders: "authorization, x-client-info, apikey, content-type",
	echo.HeaderAccessControlAllowMethods: "GET, POST, OPTIONS",
}

// Preflight answers OPTIONS with "ok" and the function CORS headers.
func (h *FunctionHandler) Preflight(c echo.Context) error {
	for k, v := range functionCORSHeaders {
		c.Response().Header().Set(k, v)
	}
	return c.String(http.StatusOK, "ok")
}

// NotionMembers handles POST /functions/v1/get-notion-members.
//
// @Summary      Members of one assessoria
// @Tags         functions
// @Accept       json
// @Produce      json
// @Param        body  body      notionMembersRequest  true  "Assessoria and optional name to exclude"
// @Success      200   {object}  membersResponse
// @Failure      400   {object}  errorResponse
// @Failure      405   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /functions/v1/get-notion-members [post]
func (h *FunctionHandler) NotionMembers(c echo.Context) error {
	var req notionMembersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Assessoria) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Assessoria é obrigatória")
	}

	start := time.Now()
	names, err := h.directory.MemberNames(c.Request().Context(), ports.DirectoryQuery{
		Category:    req.Assessoria,
		ExcludeName: req.ExcludeName,
	})
	observeDirectory(start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, membersResponse{Members: names})
}

// AllNotionMembers handles GET /functions/v1/get-all-notion-members.
//
// @Summary      All member names, deduplicated and sorted
// @Tags         functions
// @Produce      json
// @Success      200  {object}  membersResponse
// @Failure      502  {object}  errorResponse
// @Router       /functions/v1/get-all-notion-members [get]
func (h *FunctionHandler) AllNotionMembers(c echo.Context) error {
	start := time.Now()
	names, err := h.directory.MemberNames(c.Request().Context(), ports.DirectoryQuery{})
	observeDirectory(start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, membersResponse{Members: names})
}
