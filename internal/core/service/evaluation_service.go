package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/serraej/member-evaluations/internal/core/domain"
	"github.com/serraej/member-evaluations/internal/core/ports"
)

// SubjectVerifier confirms that a subject name is a current directory member.
type SubjectVerifier interface {
	KnownSubject(ctx context.Context, name string) (bool, error)
}

type EvaluationOption func(*EvaluationService)

// WithSubjectVerifier rejects submissions whose subject is not in the directory.
func WithSubjectVerifier(v SubjectVerifier) EvaluationOption {
	return func(s *EvaluationService) { s.verifier = v }
}

// WithClock overrides the time source used for created_at and period.
func WithClock(now func() time.Time) EvaluationOption {
	return func(s *EvaluationService) { s.now = now }
}

// EvaluationService validates and persists evaluations and manages the
// pending drafts of each submitter.
type EvaluationService struct {
	repo     ports.EvaluationRepository
	drafts   ports.DraftStore
	rubric   domain.Rubric
	verifier SubjectVerifier
	now      func() time.Time
	log      zerolog.Logger
}

func NewEvaluationService(
	repo ports.EvaluationRepository,
	drafts ports.DraftStore,
	rubric domain.Rubric,
	log zerolog.Logger,
	opts ...EvaluationOption,
) *EvaluationService {
	s := &EvaluationService{
		repo:   repo,
		drafts: drafts,
		rubric: rubric,
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EvaluationService) Rubric() domain.Rubric {
	return s.rubric
}

// SubmitOne validates a single evaluation and inserts exactly one row.
// Nothing reaches storage when validation fails.
func (s *EvaluationService) SubmitOne(ctx context.Context, who ports.Submitter, d domain.Draft) (*domain.Evaluation, error) {
	if err := s.rubric.Validate(who.ID, d); err != nil {
		return nil, err
	}
	if err := s.verifySubjects(ctx, []domain.Draft{d}); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	e := newEvaluation(who, d, now, "")

	if err := s.repo.Insert(ctx, e); err != nil {
		s.log.Error().Err(err).Str("submitter_id", who.ID).Str("subject", d.SubjectName).Msg("failed to insert evaluation")
		return nil, &domain.InsertError{Cause: err}
	}

	s.log.Info().Str("evaluation_id", e.ID).Str("submitter_id", who.ID).Str("subject", d.SubjectName).Msg("evaluation submitted")
	return e, nil
}

// SaveDraft stores (or replaces) the pending evaluation of one subject.
func (s *EvaluationService) SaveDraft(ctx context.Context, who ports.Submitter, d domain.Draft) (*domain.Draft, error) {
	if who.ID == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "submitter_id", Message: "is required"}}}
	}
	if err := s.rubric.ValidateDraft(d); err != nil {
		return nil, err
	}
	if d.Ratings == nil {
		d.Ratings = domain.Ratings{}
	}
	d.SavedAt = s.now().UTC()

	if err := s.drafts.Save(ctx, who.ID, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return &d, nil
}

func (s *EvaluationService) ListDrafts(ctx context.Context, who ports.Submitter) ([]domain.Draft, error) {
	drafts, err := s.drafts.List(ctx, who.ID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return drafts, nil
}

func (s *EvaluationService) DiscardDraft(ctx context.Context, who ports.Submitter, subjectID string) error {
	if err := s.drafts.Delete(ctx, who.ID, subjectID); err != nil {
		return fmt.Errorf("discard draft: %w", err)
	}
	return nil
}

// SubmitBatch persists every pending draft of the submitter in one bulk
// insert sharing a period and batch id. Drafts are cleared only after the
// insert is confirmed; on any failure they are left untouched for retry.
func (s *EvaluationService) SubmitBatch(ctx context.Context, who ports.Submitter) (*ports.BatchResult, error) {
	drafts, err := s.drafts.List(ctx, who.ID)
	if err != nil {
		return nil, fmt.Errorf("submit batch: load drafts: %w", err)
	}
	if len(drafts) == 0 {
		return nil, domain.ErrNoPendingDrafts
	}

	ve := &domain.ValidationError{}
	for _, d := range drafts {
		var dve *domain.ValidationError
		if err := s.rubric.Validate(who.ID, d); errors.As(err, &dve) {
			for _, f := range dve.Fields {
				ve.Fields = append(ve.Fields, domain.FieldError{
					Field:   fmt.Sprintf("drafts[%s].%s", d.SubjectID, f.Field),
					Message: f.Message,
				})
			}
		}
	}
	if len(ve.Fields) > 0 {
		return nil, ve
	}
	if err := s.verifySubjects(ctx, drafts); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	batchID := uuid.NewString()
	records := make([]*domain.Evaluation, 0, len(drafts))
	for _, d := range drafts {
		records = append(records, newEvaluation(who, d, now, batchID))
	}

	if err := s.repo.InsertMany(ctx, records); err != nil {
		s.log.Error().Err(err).Str("submitter_id", who.ID).Int("count", len(records)).Msg("batch insert failed, drafts kept")
		return nil, &domain.InsertError{Cause: err}
	}

	if err := s.drafts.Remove(ctx, who.ID, drafts); err != nil {
		s.log.Error().Err(err).Str("submitter_id", who.ID).Str("batch_id", batchID).Msg("batch stored but drafts not cleared")
	}

	s.log.Info().Str("submitter_id", who.ID).Str("batch_id", batchID).Int("count", len(records)).Msg("batch submitted")
	return &ports.BatchResult{BatchID: batchID, Period: domain.PeriodOf(now), Count: len(records)}, nil
}

func (s *EvaluationService) verifySubjects(ctx context.Context, drafts []domain.Draft) error {
	if s.verifier == nil {
		return nil
	}
	ve := &domain.ValidationError{}
	checked := make(map[string]bool, len(drafts))
	for _, d := range drafts {
		if _, done := checked[d.SubjectName]; done {
			continue
		}
		ok, err := s.verifier.KnownSubject(ctx, d.SubjectName)
		if err != nil {
			return fmt.Errorf("verify subject: %w", err)
		}
		checked[d.SubjectName] = ok
		if !ok {
			ve.Fields = append(ve.Fields, domain.FieldError{Field: "subject_name", Message: fmt.Sprintf("%q is not a known member", d.SubjectName)})
		}
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func newEvaluation(who ports.Submitter, d domain.Draft, now time.Time, batchID string) *domain.Evaluation {
	ratings := make(domain.Ratings, len(d.Ratings))
	for k, v := range d.Ratings {
		ratings[k] = v
	}
	return &domain.Evaluation{
		ID:            uuid.NewString(),
		BatchID:       batchID,
		SubmitterID:   who.ID,
		SubmitterName: who.Name,
		SubjectID:     d.SubjectID,
		SubjectName:   d.SubjectName,
		Period:        domain.PeriodOf(now),
		Ratings:       ratings,
		Comment:       d.Comment,
		Highlight:     d.Highlight,
		CreatedAt:     now,
	}
}
