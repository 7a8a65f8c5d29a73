package ports

import (
	"context"
	"time"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

// Submitter identifies who is submitting, resolved from the session.
type Submitter struct {
	ID   string
	Name string
}

// BatchResult reports what a batch submission persisted.
type BatchResult struct {
	BatchID string
	Period  time.Time
	Count   int
}

type EvaluationService interface {
	SubmitOne(ctx context.Context, who Submitter, d domain.Draft) (*domain.Evaluation, error)
	SaveDraft(ctx context.Context, who Submitter, d domain.Draft) (*domain.Draft, error)
	ListDrafts(ctx context.Context, who Submitter) ([]domain.Draft, error)
	DiscardDraft(ctx context.Context, who Submitter, subjectID string) error
	SubmitBatch(ctx context.Context, who Submitter) (*BatchResult, error)
	Rubric() domain.Rubric
}

// Report is the dashboard view: all (filtered) records plus metrics over the
// unfiltered set.
type Report struct {
	Records []domain.Evaluation
	Metrics domain.Metrics
}

type ReportService interface {
	Load(ctx context.Context, query string) (*Report, error)
}
