package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/serraej/member-evaluations/internal/api/metrics"
	"github.com/serraej/member-evaluations/internal/core/domain"
	"github.com/serraej/member-evaluations/internal/core/ports"
)

// EvaluationHandler handles single submissions and the pending-draft workflow.
type EvaluationHandler struct {
	service ports.EvaluationService
}

func NewEvaluationHandler(service ports.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{service: service}
}

// Rubric handles GET /v1/rubric.
//
// @Summary      Active rating rubric
// @Tags         evaluations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  rubricResponse
// @Router       /v1/rubric [get]
func (h *EvaluationHandler) Rubric(c echo.Context) error {
	r := h.service.Rubric()
	return c.JSON(http.StatusOK, rubricResponse{Criteria: r.Criteria, Min: r.Min, Max: r.Max})
}

// Submit handles POST /v1/evaluations and persists exactly one evaluation.
//
// @Summary      Submit one evaluation
// @Tags         evaluations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      evaluationRequest  true  "Evaluation"
// @Success      201   {object}  evaluationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/evaluations [post]
func (h *EvaluationHandler) Submit(c echo.Context) error {
	who, err := ctxSubmitter(c)
	if err != nil {
		return err
	}

	var req evaluationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	e, err := h.service.SubmitOne(c.Request().Context(), who, evaluationToDraft(req))
	if err != nil {
		metrics.SubmissionErrorsTotal.WithLabelValues("single", errorReason(err)).Inc()
		return err
	}

	metrics.EvaluationsSubmittedTotal.WithLabelValues("single").Inc()
	return c.JSON(http.StatusCreated, toEvaluationResponse(e))
}

// ListDrafts handles GET /v1/drafts.
//
// @Summary      Pending evaluations of the caller
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  draftsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/drafts [get]
func (h *EvaluationHandler) ListDrafts(c echo.Context) error {
	who, err := ctxSubmitter(c)
	if err != nil {
		return err
	}

	drafts, err := h.service.ListDrafts(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draftsResponse{Drafts: drafts})
}

// SaveDraft handles PUT /v1/drafts/:subject_id. Saving again replaces the draft.
//
// @Summary      Save a pending evaluation
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        subject_id  path      string        true  "Stable subject id"
// @Param        body        body      draftRequest  true  "Draft"
// @Success      200         {object}  domain.Draft
// @Failure      400         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /v1/drafts/{subject_id} [put]
func (h *EvaluationHandler) SaveDraft(c echo.Context) error {
	who, err := ctxSubmitter(c)
	if err != nil {
		return err
	}

	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	saved, err := h.service.SaveDraft(c.Request().Context(), who, toDraft(c.Param("subject_id"), req))
	if err != nil {
		return err
	}

	metrics.DraftsSavedTotal.Inc()
	return c.JSON(http.StatusOK, saved)
}

// DiscardDraft handles DELETE /v1/drafts/:subject_id.
//
// @Summary      Discard a pending evaluation
// @Tags         drafts
// @Security     BearerAuth
// @Param        subject_id  path  string  true  "Stable subject id"
// @Success      204
// @Router       /v1/drafts/{subject_id} [delete]
func (h *EvaluationHandler) DiscardDraft(c echo.Context) error {
	who, err := ctxSubmitter(c)
	if err != nil {
		return err
	}

	if err := h.service.DiscardDraft(c.Request().Context(), who, c.Param("subject_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SubmitDrafts handles POST /v1/drafts/submit. It persists every pending draft
// in one batch. Drafts survive a failed batch.
//
// @Summary      Submit all pending evaluations
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  batchResponse
// @Failure      400  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/drafts/submit [post]
func (h *EvaluationHandler) SubmitDrafts(c echo.Context) error {
	who, err := ctxSubmitter(c)
	if err != nil {
		return err
	}

	res, err := h.service.SubmitBatch(c.Request().Context(), who)
	if err != nil {
		metrics.SubmissionErrorsTotal.WithLabelValues("batch", errorReason(err)).Inc()
		return err
	}

	metrics.EvaluationsSubmittedTotal.WithLabelValues("batch").Add(float64(res.Count))
	return c.JSON(http.StatusCreated, toBatchResponse(res))
}

func errorReason(err error) string {
	var ve *domain.ValidationError
	var ie *domain.InsertError
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &ie):
		return "insert"
	case errors.Is(err, domain.ErrNoPendingDrafts):
		return "empty"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return "upstream"
	default:
		return "other"
	}
}
