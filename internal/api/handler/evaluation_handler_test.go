package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/serraej/member-evaluations/internal/core/domain"
	"github.com/serraej/member-evaluations/internal/core/ports"
)

type stubEvaluationService struct {
	submitOneFn   func(ctx context.Context, who ports.Submitter, d domain.Draft) (*domain.Evaluation, error)
	saveDraftFn   func(ctx context.Context, who ports.Submitter, d domain.Draft) (*domain.Draft, error)
	listDraftsFn  func(ctx context.Context, who ports.Submitter) ([]domain.Draft, error)
	discardFn     func(ctx context.Context, who ports.Submitter, subjectID string) error
	submitBatchFn func(ctx context.Context, who ports.Submitter) (*ports.BatchResult, error)
}

func (s *stubEvaluationService) SubmitOne(ctx context.Context, who ports.Submitter, d domain.Draft) (*domain.Evaluation, error) {
	return s.submitOneFn(ctx, who, d)
}

func (s *stubEvaluationService) SaveDraft(ctx context.Context, who ports.Submitter, d domain.Draft) (*domain.Draft, error) {
	return s.saveDraftFn(ctx, who, d)
}

func (s *stubEvaluationService) ListDrafts(ctx context.Context, who ports.Submitter) ([]domain.Draft, error) {
	return s.listDraftsFn(ctx, who)
}

func (s *stubEvaluationService) DiscardDraft(ctx context.Context, who ports.Submitter, subjectID string) error {
	return s.discardFn(ctx, who, subjectID)
}

func (s *stubEvaluationService) SubmitBatch(ctx context.Context, who ports.Submitter) (*ports.BatchResult, error) {
	return s.submitBatchFn(ctx, who)
}

func (s *stubEvaluationService) Rubric() domain.Rubric {
	return domain.DefaultRubric()
}

var submittedAt = time.Date(2024, 5, 6, 14, 30, 0, 0, time.UTC)

const evaluationBody = `{"subject_name":"João","ratings":{"proatividade":5,"comunicacao":4,"tecnico":3,"equipe":5,"entregas":4},"comment":"Great work"}`

func TestEvaluationHandler_Submit_Created(t *testing.T) {
	e := newTestEcho()
	stub := &stubEvaluationService{
		submitOneFn: func(ctx context.Context, who ports.Submitter, d domain.Draft) (*domain.Evaluation, error) {
			if who.ID != "dir_carlos" || who.Name != "Carlos Diretor" {
				t.Fatalf("unexpected submitter: %+v", who)
			}
			if d.SubjectName != "João" || len(d.Ratings) != 5 || d.Comment != "Great work" {
				t.Fatalf("unexpected draft: %+v", d)
			}
			return &domain.Evaluation{
				ID:          "ev1",
				SubjectName: d.SubjectName,
				Ratings:     d.Ratings,
				Period:      domain.PeriodOf(submittedAt),
				CreatedAt:   submittedAt,
			}, nil
		},
	}
	handler := NewEvaluationHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/evaluations", evaluationBody), rec)
	authenticated(c, "dir_carlos", "Carlos Diretor", domain.RoleDirector)

	if err := handler.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp evaluationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Score != 4.2 || resp.Period != "2024-05-06" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEvaluationHandler_Submit_ValidationError(t *testing.T) {
	e := newTestEcho()
	stub := &stubEvaluationService{
		submitOneFn: func(ctx context.Context, who ports.Submitter, d domain.Draft) (*domain.Evaluation, error) {
			return nil, domain.DefaultRubric().Validate(who.ID, d)
		},
	}
	handler := NewEvaluationHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/evaluations", `{"ratings":{"tecnico":9}}`), httptest.NewRecorder())
	authenticated(c, "dir_carlos", "Carlos Diretor", domain.RoleDirector)

	var ve *domain.ValidationError
	if err := handler.Submit(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEvaluationHandler_Submit_Unauthenticated(t *testing.T) {
	e := newTestEcho()
	handler := NewEvaluationHandler(&stubEvaluationService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/evaluations", evaluationBody), httptest.NewRecorder())

	if code := statusOf(t, handler.Submit(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestEvaluationHandler_Submit_CommentTooLong(t *testing.T) {
	e := newTestEcho()
	handler := NewEvaluationHandler(&stubEvaluationService{})

	long := make([]byte, 4001)
	for i := range long {
		long[i] = 'a'
	}
	body := `{"subject_name":"João","comment":"` + string(long) + `"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/evaluations", body), httptest.NewRecorder())
	authenticated(c, "dir_carlos", "Carlos Diretor", domain.RoleDirector)

	if fields := invalidFields(t, handler.Submit(c)); len(fields) != 1 || fields[0] != "comment" {
		t.Fatalf("expected comment to be rejected, got %v", fields)
	}
}

func TestEvaluationHandler_SaveDraft_UsesPathID(t *testing.T) {
	e := newTestEcho()
	stub := &stubEvaluationService{
		saveDraftFn: func(ctx context.Context, who ports.Submitter, d domain.Draft) (*domain.Draft, error) {
			if d.SubjectID != "p-joao" || d.SubjectName != "João" {
				t.Fatalf("unexpected draft: %+v", d)
			}
			d.SavedAt = submittedAt
			return &d, nil
		},
	}
	handler := NewEvaluationHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/v1/drafts/p-joao", `{"subject_name":"João","ratings":{"tecnico":4}}`), rec)
	c.SetParamNames("subject_id")
	c.SetParamValues("p-joao")
	authenticated(c, "dir_carlos", "Carlos Diretor", domain.RoleDirector)

	if err := handler.SaveDraft(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEvaluationHandler_ListDrafts(t *testing.T) {
	e := newTestEcho()
	stub := &stubEvaluationService{
		listDraftsFn: func(ctx context.Context, who ports.Submitter) ([]domain.Draft, error) {
			return []domain.Draft{{SubjectID: "p1", SubjectName: "Ana"}, {SubjectID: "p2", SubjectName: "Bruna"}}, nil
		},
	}
	handler := NewEvaluationHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/drafts", nil), rec)
	authenticated(c, "dir_carlos", "Carlos Diretor", domain.RoleDirector)

	if err := handler.ListDrafts(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp draftsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Drafts) != 2 || resp.Drafts[1].SubjectName != "Bruna" {
		t.Fatalf("unexpected drafts: %+v", resp.Drafts)
	}
}

func TestEvaluationHandler_DiscardDraft(t *testing.T) {
	e := newTestEcho()
	var discarded string
	stub := &stubEvaluationService{
		discardFn: func(ctx context.Context, who ports.Submitter, subjectID string) error {
			discarded = subjectID
			return nil
		},
	}
	handler := NewEvaluationHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/v1/drafts/p1", nil), rec)
	c.SetParamNames("subject_id")
	c.SetParamValues("p1")
	authenticated(c, "dir_carlos", "Carlos Diretor", domain.RoleDirector)

	if err := handler.DiscardDraft(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || discarded != "p1" {
		t.Fatalf("expected 204 and p1 discarded, got %d %q", rec.Code, discarded)
	}
}

func TestEvaluationHandler_SubmitDrafts(t *testing.T) {
	e := newTestEcho()
	stub := &stubEvaluationService{
		submitBatchFn: func(ctx context.Context, who ports.Submitter) (*ports.BatchResult, error) {
			return &ports.BatchResult{BatchID: "b1", Period: domain.PeriodOf(submittedAt), Count: 3}, nil
		},
	}
	handler := NewEvaluationHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/drafts/submit", nil), rec)
	authenticated(c, "dir_carlos", "Carlos Diretor", domain.RoleDirector)

	if err := handler.SubmitDrafts(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp batchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.BatchID != "b1" || resp.Count != 3 || resp.Period != "2024-05-06" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEvaluationHandler_SubmitDrafts_InsertFailure(t *testing.T) {
	e := newTestEcho()
	stub := &stubEvaluationService{
		submitBatchFn: func(ctx context.Context, who ports.Submitter) (*ports.BatchResult, error) {
			return nil, &domain.InsertError{Cause: errors.New("connection reset")}
		},
	}
	handler := NewEvaluationHandler(stub)

	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/drafts/submit", nil), httptest.NewRecorder())
	authenticated(c, "dir_carlos", "Carlos Diretor", domain.RoleDirector)

	var ie *domain.InsertError
	if err := handler.SubmitDrafts(c); !errors.As(err, &ie) {
		t.Fatalf("expected InsertError, got %v", err)
	}
}

func TestErrorReason(t *testing.T) {
	cases := map[string]error{
		"validation": &domain.ValidationError{},
		"insert":     &domain.InsertError{Cause: errors.New("x")},
		"empty":      domain.ErrNoPendingDrafts,
		"upstream":   domain.ErrUpstreamUnavailable,
		"other":      errors.New("boom"),
	}
	for want, err := range cases {
		if got := errorReason(err); got != want {
			t.Errorf("errorReason(%v) = %q, want %q", err, got, want)
		}
	}
}
