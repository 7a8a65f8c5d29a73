// Package memory holds process-local stores used when Redis or a database
// is not configured, and in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session), now: time.Now}
}

func (s *SessionStore) Create(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *SessionStore) Find(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || !s.now().Before(sess.ExpiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

type DraftStore struct {
	mu     sync.Mutex
	drafts map[string]map[string]domain.Draft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[string]map[string]domain.Draft)}
}

func (s *DraftStore) Save(_ context.Context, submitterID string, d domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drafts[submitterID] == nil {
		s.drafts[submitterID] = make(map[string]domain.Draft)
	}
	s.drafts[submitterID][d.SubjectID] = cloneDraft(d)
	return nil
}

// List returns the drafts ordered by subject name.
func (s *DraftStore) List(_ context.Context, submitterID string) ([]domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Draft, 0, len(s.drafts[submitterID]))
	for _, d := range s.drafts[submitterID] {
		out = append(out, cloneDraft(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubjectName != out[j].SubjectName {
			return out[i].SubjectName < out[j].SubjectName
		}
		return out[i].SubjectID < out[j].SubjectID
	})
	return out, nil
}

func (s *DraftStore) Delete(_ context.Context, submitterID, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts[submitterID], subjectID)
	return nil
}

func (s *DraftStore) Remove(_ context.Context, submitterID string, submitted []domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.drafts[submitterID]
	for _, d := range submitted {
		if cur, ok := pending[d.SubjectID]; ok && cur.Equal(d) {
			delete(pending, d.SubjectID)
		}
	}
	return nil
}

// EvaluationRepository is an append-only slice guarded by a mutex.
type EvaluationRepository struct {
	mu      sync.RWMutex
	records []domain.Evaluation
}

func NewEvaluationRepository() *EvaluationRepository {
	return &EvaluationRepository{}
}

func (r *EvaluationRepository) Insert(_ context.Context, e *domain.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, cloneEvaluation(*e))
	return nil
}

func (r *EvaluationRepository) InsertMany(_ context.Context, es []*domain.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range es {
		r.records = append(r.records, cloneEvaluation(*e))
	}
	return nil
}

// ListAll returns every record, newest first.
func (r *EvaluationRepository) ListAll(_ context.Context) ([]domain.Evaluation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Evaluation, 0, len(r.records))
	for _, e := range r.records {
		out = append(out, cloneEvaluation(e))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneDraft(d domain.Draft) domain.Draft {
	d.Ratings = cloneRatings(d.Ratings)
	return d
}

func cloneEvaluation(e domain.Evaluation) domain.Evaluation {
	e.Ratings = cloneRatings(e.Ratings)
	return e
}

func cloneRatings(r domain.Ratings) domain.Ratings {
	if r == nil {
		return nil
	}
	out := make(domain.Ratings, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
