package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

// gatedFetcher returns profiles by user id. A user with a gate blocks until
// the gate is closed; honorCtx decides whether cancellation unblocks it.
type gatedFetcher struct {
	mu       sync.Mutex
	profiles map[string]*domain.Profile
	errs     map[string]error
	gates    map[string]chan struct{}
	honorCtx bool
	started  chan string
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		profiles: map[string]*domain.Profile{
			"dir_carlos": {ID: "dir_carlos", NotionName: "Carlos Diretor", UserRole: domain.RoleDirector, Assessoria: "Computação"},
			"dir_ana":    {ID: "dir_ana", NotionName: "Ana Diretora", UserRole: domain.RoleDirector, Assessoria: "Marketing"},
		},
		errs:     map[string]error{},
		gates:    map[string]chan struct{}{},
		honorCtx: true,
		started:  make(chan string, 16),
	}
}

func (f *gatedFetcher) gate(userID string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := make(chan struct{})
	f.gates[userID] = g
	return g
}

func (f *gatedFetcher) FetchProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	f.started <- userID

	f.mu.Lock()
	g := f.gates[userID]
	f.mu.Unlock()

	if g != nil {
		if f.honorCtx {
			select {
			case <-g:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		} else {
			<-g
		}
	}
	if err := f.errs[userID]; err != nil {
		return nil, err
	}
	return f.profiles[userID], nil
}

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) observe(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func TestIdentitySession_StartsUnauthenticated(t *testing.T) {
	s := NewIdentitySession(newGatedFetcher())

	snap := s.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.Profile)
	assert.Equal(t, RouteLogin, Guard(snap))
}

func TestIdentitySession_ChangeResetsBeforeFetch(t *testing.T) {
	defer goleak.VerifyNone(t)

	fetcher := newGatedFetcher()
	s := NewIdentitySession(fetcher)
	ctx := context.Background()

	first := s.Change(ctx, "dir_carlos")
	<-fetcher.started
	require.NotNil(t, first.Profile)
	require.Equal(t, "Carlos Diretor", first.Profile.NotionName)

	gate := fetcher.gate("dir_ana")
	done := make(chan Snapshot, 1)
	go func() { done <- s.Change(ctx, "dir_ana") }()

	require.Equal(t, "dir_ana", <-fetcher.started)
	pending := s.Snapshot()
	assert.Nil(t, pending.Profile, "previous profile must not survive an identity switch")
	assert.True(t, pending.Loading())
	assert.Equal(t, RouteLoading, Guard(pending))

	close(gate)
	final := <-done
	require.NotNil(t, final.Profile)
	assert.Equal(t, "Ana Diretora", final.Profile.NotionName)
	assert.Equal(t, RouteProtected, Guard(final))
}

func TestIdentitySession_SupersededChangeIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	fetcher := newGatedFetcher()
	fetcher.honorCtx = false
	rec := &recorder{}
	s := NewIdentitySession(fetcher, WithObserver(rec.observe))
	ctx := context.Background()

	gate := fetcher.gate("dir_carlos")
	stale := make(chan Snapshot, 1)
	go func() { stale <- s.Change(ctx, "dir_carlos") }()
	require.Equal(t, "dir_carlos", <-fetcher.started)

	latest := s.Change(ctx, "dir_ana")
	<-fetcher.started
	require.NotNil(t, latest.Profile)

	close(gate)
	got := <-stale
	require.NotNil(t, got.Profile)
	assert.Equal(t, "Ana Diretora", got.Profile.NotionName)

	for _, snap := range rec.all() {
		if snap.Profile != nil {
			assert.NotEqual(t, "Carlos Diretor", snap.Profile.NotionName, "stale profile became visible")
		}
	}
}

func TestIdentitySession_WatchRapidChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	fetcher := newGatedFetcher()
	fetcher.honorCtx = false
	rec := &recorder{}
	s := NewIdentitySession(fetcher, WithObserver(rec.observe))

	gate := fetcher.gate("dir_carlos")
	events := make(chan SessionEvent)
	watchErr := make(chan error, 1)
	go func() { watchErr <- s.Watch(context.Background(), events) }()

	events <- SessionEvent{UserID: "dir_carlos"}
	events <- SessionEvent{UserID: "dir_ana"}

	require.Eventually(t, func() bool {
		return s.Snapshot().Profile != nil
	}, time.Second, 5*time.Millisecond)

	close(gate)
	close(events)
	require.NoError(t, <-watchErr)

	final := s.Snapshot()
	require.NotNil(t, final.Profile)
	assert.Equal(t, "Ana Diretora", final.Profile.NotionName)

	snaps := rec.all()
	require.NotEmpty(t, snaps)
	for _, snap := range snaps {
		if snap.Profile != nil {
			assert.Equal(t, "Ana Diretora", snap.Profile.NotionName, "only the second profile may ever be visible")
		}
	}
}

func TestIdentitySession_WatchStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	fetcher := newGatedFetcher()
	fetcher.gate("dir_carlos")
	s := NewIdentitySession(fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan SessionEvent, 1)
	events <- SessionEvent{UserID: "dir_carlos"}

	watchErr := make(chan error, 1)
	go func() { watchErr <- s.Watch(ctx, events) }()
	<-fetcher.started

	cancel()
	assert.ErrorIs(t, <-watchErr, context.Canceled)

	snap := s.Snapshot()
	assert.False(t, snap.Loading(), "session left loading after Watch returned")
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, "dir_carlos", snap.UserID)
	assert.Nil(t, snap.Profile, "a cancelled fetch must not be applied")
	assert.ErrorIs(t, snap.Err, context.Canceled)
}

func TestIdentitySession_ProfileMissing(t *testing.T) {
	fetcher := newGatedFetcher()
	s := NewIdentitySession(fetcher)

	snap := s.Change(context.Background(), "u-bare")
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Nil(t, snap.Profile)
	assert.NoError(t, snap.Err)
	assert.Equal(t, RouteProtected, Guard(snap))
}

func TestIdentitySession_FetchFailures(t *testing.T) {
	fetcher := newGatedFetcher()
	fetcher.errs["expired"] = &APIError{Status: 401, Message: "session expired"}
	fetcher.errs["flaky"] = errors.New("connection reset")
	s := NewIdentitySession(fetcher)

	snap := s.Change(context.Background(), "expired")
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Equal(t, RouteLogin, Guard(snap))

	snap = s.Change(context.Background(), "flaky")
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Nil(t, snap.Profile)
	assert.EqualError(t, snap.Err, "connection reset")
}

func TestIdentitySession_LogoutDropsInflightFetch(t *testing.T) {
	defer goleak.VerifyNone(t)

	fetcher := newGatedFetcher()
	fetcher.gate("dir_carlos")
	s := NewIdentitySession(fetcher)

	done := make(chan Snapshot, 1)
	go func() { done <- s.Change(context.Background(), "dir_carlos") }()
	<-fetcher.started

	s.Logout()
	assert.Equal(t, StateUnauthenticated, s.Snapshot().State)

	got := <-done
	assert.Equal(t, StateUnauthenticated, got.State)
	assert.Nil(t, got.Profile)
}
