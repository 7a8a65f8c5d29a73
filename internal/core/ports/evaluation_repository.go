package ports

import (
	"context"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

// EvaluationRepository is append-only storage for evaluation records.
type EvaluationRepository interface {
	Insert(ctx context.Context, e *domain.Evaluation) error
	// InsertMany stores all records or none of them.
	InsertMany(ctx context.Context, es []*domain.Evaluation) error
	// ListAll returns every record, newest first.
	ListAll(ctx context.Context) ([]domain.Evaluation, error)
}

// DraftStore holds the pending evaluations of each submitter keyed by the
// stable subject id.
type DraftStore interface {
	Save(ctx context.Context, submitterID string, d domain.Draft) error
	List(ctx context.Context, submitterID string) ([]domain.Draft, error)
	Delete(ctx context.Context, submitterID, subjectID string) error
	// Remove deletes the submitted drafts. A draft saved again after it was
	// read no longer equals its submitted copy and is kept.
	Remove(ctx context.Context, submitterID string, submitted []domain.Draft) error
}
