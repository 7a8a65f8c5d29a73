package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

const defaultDraftTTL = 7 * 24 * time.Hour

// DraftStore keeps each submitter's pending evaluations in one hash, one
// field per subject id. The TTL is refreshed on every save.
// Key format: drafts:<submitter_id>
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &DraftStore{client: client, ttl: ttl}
}

func (s *DraftStore) Save(ctx context.Context, submitterID string, d domain.Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}

	key := s.key(submitterID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, d.SubjectID, raw)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("draft save: %w", err)
	}
	return nil
}

// List returns the drafts ordered by subject name.
func (s *DraftStore) List(ctx context.Context, submitterID string) ([]domain.Draft, error) {
	fields, err := s.client.HGetAll(ctx, s.key(submitterID)).Result()
	if err != nil {
		return nil, fmt.Errorf("draft list: %w", err)
	}

	out := make([]domain.Draft, 0, len(fields))
	for subjectID, raw := range fields {
		var d domain.Draft
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("draft %s decode: %w", subjectID, err)
		}
		out = append(out, d)
	}
	sortDrafts(out)
	return out, nil
}

func (s *DraftStore) Delete(ctx context.Context, submitterID, subjectID string) error {
	return s.client.HDel(ctx, s.key(submitterID), subjectID).Err()
}

const maxRemoveAttempts = 5

// Remove deletes the submitted drafts that are still stored unchanged. The
// hash is watched so a save racing the delete aborts and retries it.
func (s *DraftStore) Remove(ctx context.Context, submitterID string, submitted []domain.Draft) error {
	if len(submitted) == 0 {
		return nil
	}
	key := s.key(submitterID)
	ids := make([]string, len(submitted))
	for i, d := range submitted {
		ids[i] = d.SubjectID
	}

	remove := func(tx *redis.Tx) error {
		current, err := tx.HMGet(ctx, key, ids...).Result()
		if err != nil {
			return err
		}
		var stale []string
		for i, v := range current {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			var d domain.Draft
			if err := json.Unmarshal([]byte(raw), &d); err != nil {
				return fmt.Errorf("draft %s decode: %w", ids[i], err)
			}
			if d.Equal(submitted[i]) {
				stale = append(stale, ids[i])
			}
		}
		if len(stale) == 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HDel(ctx, key, stale...)
			return nil
		})
		return err
	}

	for i := 0; i < maxRemoveAttempts; i++ {
		err := s.client.Watch(ctx, remove, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("draft remove: %w", err)
		}
		return nil
	}
	return fmt.Errorf("draft remove: %w", redis.TxFailedErr)
}

func (s *DraftStore) key(submitterID string) string {
	return "drafts:" + submitterID
}

func sortDrafts(ds []domain.Draft) {
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].SubjectName != ds[j].SubjectName {
			return ds[i].SubjectName < ds[j].SubjectName
		}
		return ds[i].SubjectID < ds[j].SubjectID
	})
}
