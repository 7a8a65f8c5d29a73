package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

// collection is the part of *mongo.Collection the repository uses.
type collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// EvaluationRepository implements ports.EvaluationRepository using MongoDB.
type EvaluationRepository struct {
	col collection
}

func NewEvaluationRepository(db *mongo.Database) *EvaluationRepository {
	return &EvaluationRepository{col: db.Collection(collectionEvaluations)}
}

type evaluationDoc struct {
	ID            string         `bson:"_id"`
	BatchID       string         `bson:"batch_id,omitempty"`
	SubmitterID   string         `bson:"submitter_id"`
	SubmitterName string         `bson:"submitter_name"`
	SubjectID     string         `bson:"subject_id,omitempty"`
	SubjectName   string         `bson:"subject_name"`
	Period        time.Time      `bson:"period"`
	Ratings       map[string]int `bson:"ratings"`
	Comment       string         `bson:"comment"`
	Highlight     bool           `bson:"highlight"`
	CreatedAt     time.Time      `bson:"created_at"`
}

func toDoc(e *domain.Evaluation) evaluationDoc {
	return evaluationDoc{
		ID:            e.ID,
		BatchID:       e.BatchID,
		SubmitterID:   e.SubmitterID,
		SubmitterName: e.SubmitterName,
		SubjectID:     e.SubjectID,
		SubjectName:   e.SubjectName,
		Period:        e.Period.UTC(),
		Ratings:       e.Ratings,
		Comment:       e.Comment,
		Highlight:     e.Highlight,
		CreatedAt:     e.CreatedAt.UTC(),
	}
}

func (d evaluationDoc) toDomain() domain.Evaluation {
	return domain.Evaluation{
		ID:            d.ID,
		BatchID:       d.BatchID,
		SubmitterID:   d.SubmitterID,
		SubmitterName: d.SubmitterName,
		SubjectID:     d.SubjectID,
		SubjectName:   d.SubjectName,
		Period:        d.Period.UTC(),
		Ratings:       domain.Ratings(d.Ratings),
		Comment:       d.Comment,
		Highlight:     d.Highlight,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

func (r *EvaluationRepository) Insert(ctx context.Context, e *domain.Evaluation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, toDoc(e))
	return err
}

// InsertMany writes the batch in one ordered InsertMany. Standalone servers
// have no multi-document transactions, so a partial write is rolled back by
// deleting whatever landed under the batch id.
func (r *EvaluationRepository) InsertMany(ctx context.Context, es []*domain.Evaluation) error {
	if len(es) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(es))
	for _, e := range es {
		docs = append(docs, toDoc(e))
	}

	_, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err == nil {
		return nil
	}

	if batchID := es[0].BatchID; batchID != "" {
		rbCtx, rbCancel := context.WithTimeout(context.WithoutCancel(ctx), defaultTimeout)
		defer rbCancel()
		if _, derr := r.col.DeleteMany(rbCtx, bson.M{"batch_id": batchID}); derr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, derr)
		}
	}
	return err
}

// ListAll returns every evaluation, newest first.
func (r *EvaluationRepository) ListAll(ctx context.Context) ([]domain.Evaluation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []evaluationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.Evaluation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
