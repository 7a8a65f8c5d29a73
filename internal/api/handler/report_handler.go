package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/serraej/member-evaluations/internal/api/metrics"
	"github.com/serraej/member-evaluations/internal/core/ports"
)

type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Get handles GET /v1/reports. Metrics always cover every record; q only
// narrows the detail list.
//
// @Summary      Evaluation dashboard
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Case-insensitive match on submitter or subject name"
// @Success      200  {object}  reportResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/reports [get]
func (h *ReportHandler) Get(c echo.Context) error {
	report, err := h.service.Load(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		metrics.ReportLoadsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.ReportLoadsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, reportResponse{Records: report.Records, Metrics: report.Metrics})
}
