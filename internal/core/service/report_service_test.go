package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

func TestReportService_Load_EmptyTable(t *testing.T) {
	svc := NewReportService(&stubEvaluationRepo{}, zerolog.Nop())

	report, err := svc.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Metrics.HasData || report.Metrics.Total != 0 || report.Metrics.AverageScore != 0 {
		t.Errorf("unexpected metrics: %+v", report.Metrics)
	}
	if report.Records == nil || len(report.Records) != 0 {
		t.Errorf("expected empty non-nil records, got %#v", report.Records)
	}
}

func TestReportService_Load_FetchError(t *testing.T) {
	svc := NewReportService(&stubEvaluationRepo{listErr: errors.New("timeout")}, zerolog.Nop())

	if _, err := svc.Load(context.Background(), ""); !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestReportService_Load_FilterKeepsMetricsUnfiltered(t *testing.T) {
	now := time.Now().UTC()
	repo := &stubEvaluationRepo{records: []domain.Evaluation{
		{ID: "1", SubmitterName: "Carlos Diretor", SubjectName: "Ana", Ratings: domain.Ratings{"tecnico": 4}, CreatedAt: now.Add(-time.Hour)},
		{ID: "2", SubmitterName: "Ana Diretora", SubjectName: "Bruna", Ratings: domain.Ratings{"tecnico": 2}, CreatedAt: now},
		{ID: "3", SubmitterName: "Carlos Diretor", SubjectName: "Davi", Ratings: domain.Ratings{"tecnico": 3}, CreatedAt: now.Add(-2 * time.Hour)},
	}}
	svc := NewReportService(repo, zerolog.Nop())

	report, err := svc.Load(context.Background(), "ANA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Records) != 2 {
		t.Fatalf("expected 2 matching records, got %d", len(report.Records))
	}
	if report.Records[0].ID != "2" {
		t.Errorf("expected newest first, got %s", report.Records[0].ID)
	}
	if report.Metrics.Total != 3 || report.Metrics.AverageScore != 3 {
		t.Errorf("expected metrics over all 3 records, got %+v", report.Metrics)
	}
}

// A submission made through the evaluation service shows up in the next
// report load with its score as the overall average.
func TestSubmitThenReport(t *testing.T) {
	repo := &stubEvaluationRepo{}
	evals := newEvalSvc(repo, newStubDraftStore())
	reports := NewReportService(repo, zerolog.Nop())
	ctx := context.Background()

	_, err := evals.SubmitOne(ctx, carlos, domain.Draft{
		SubjectName: "João",
		Ratings:     fullRatings(),
		Comment:     "Great work",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	report, err := reports.Load(ctx, "")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	m := report.Metrics
	if m.Total != 1 || !m.HasData {
		t.Fatalf("expected one record, got %+v", m)
	}
	if m.AverageScore != 4.2 {
		t.Errorf("expected average 4.2, got %v", m.AverageScore)
	}
	if len(m.ResponsesByMember) != 1 || m.ResponsesByMember[0].Name != "João" || m.ResponsesByMember[0].Count != 1 {
		t.Errorf("unexpected responses by member: %+v", m.ResponsesByMember)
	}
	if report.Records[0].Comment != "Great work" {
		t.Errorf("unexpected comment: %q", report.Records[0].Comment)
	}
}
