package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

const insertEvaluation = `
INSERT INTO evaluations
	(id, batch_id, submitter_id, submitter_name, subject_id, subject_name, period, ratings, comment, highlight, created_at)
VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11)`

// querier is the part of *pgxpool.Pool the repository uses.
type querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type EvaluationRepository struct {
	pool querier
}

func NewEvaluationRepository(pool *pgxpool.Pool) *EvaluationRepository {
	return &EvaluationRepository{pool: pool}
}

func (r *EvaluationRepository) Insert(ctx context.Context, e *domain.Evaluation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	args, err := insertArgs(e)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, insertEvaluation, args...)
	return err
}

// InsertMany queues every row in one pgx batch inside a transaction, so the
// batch lands entirely or not at all.
func (r *EvaluationRepository) InsertMany(ctx context.Context, es []*domain.Evaluation) error {
	if len(es) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	batch := &pgx.Batch{}
	for _, e := range es {
		args, err := insertArgs(e)
		if err != nil {
			return err
		}
		batch.Queue(insertEvaluation, args...)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
}

// ListAll returns every evaluation, newest first.
func (r *EvaluationRepository) ListAll(ctx context.Context) ([]domain.Evaluation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT id, COALESCE(batch_id, ''), submitter_id, submitter_name, COALESCE(subject_id, ''),
		       subject_name, period, ratings, comment, highlight, created_at
		FROM evaluations
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Evaluation, 0)
	for rows.Next() {
		var (
			e   domain.Evaluation
			raw []byte
		)
		if err := rows.Scan(
			&e.ID, &e.BatchID, &e.SubmitterID, &e.SubmitterName, &e.SubjectID,
			&e.SubjectName, &e.Period, &raw, &e.Comment, &e.Highlight, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &e.Ratings); err != nil {
			return nil, fmt.Errorf("evaluation %s ratings: %w", e.ID, err)
		}
		e.Period = e.Period.UTC()
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func insertArgs(e *domain.Evaluation) ([]any, error) {
	ratings, err := json.Marshal(e.Ratings)
	if err != nil {
		return nil, fmt.Errorf("encode ratings: %w", err)
	}
	return []any{
		e.ID, e.BatchID, e.SubmitterID, e.SubmitterName, e.SubjectID,
		e.SubjectName, e.Period, ratings, e.Comment, e.Highlight, e.CreatedAt,
	}, nil
}
