package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/serraej/member-evaluations/internal/core/domain"
	"github.com/serraej/member-evaluations/internal/core/ports"
)

// ReportService re-reads every evaluation on each load and recomputes the
// dashboard aggregates. Nothing is cached.
type ReportService struct {
	repo ports.EvaluationRepository
	log  zerolog.Logger
}

func NewReportService(repo ports.EvaluationRepository, log zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, log: log}
}

// Load returns the records matching query together with metrics computed
// over the whole table. A storage failure is reported as domain.ErrFetch so
// callers can tell it apart from an empty table.
func (s *ReportService) Load(ctx context.Context, query string) (*ports.Report, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load evaluations")
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	if records == nil {
		records = []domain.Evaluation{}
	}

	return &ports.Report{
		Records: domain.FilterDetails(records, query),
		Metrics: domain.ComputeMetrics(records),
	}, nil
}
