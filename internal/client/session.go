package client

import (
	"context"
	"errors"
	"sync"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

// State is the coarse identity state a view renders from.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Snapshot is an immutable view of the session. Profile may be nil while
// authenticated when the lookup found no row or failed (Err is then set).
type Snapshot struct {
	State   State
	UserID  string
	Profile *domain.Profile
	Err     error
}

// Loading reports whether a profile fetch is outstanding.
func (s Snapshot) Loading() bool {
	return s.State == StateAuthenticating
}

// ProfileFetcher loads the profile row of one identity.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, userID string) (*domain.Profile, error)
}

// SessionEvent announces that the active session now belongs to UserID. An
// empty UserID means the session ended.
type SessionEvent struct {
	UserID string
}

type SessionOption func(*IdentitySession)

// WithObserver registers fn to receive every snapshot in the order it is
// applied. fn runs under the session lock and must not call back into it.
func WithObserver(fn func(Snapshot)) SessionOption {
	return func(s *IdentitySession) { s.observers = append(s.observers, fn) }
}

// IdentitySession tracks who is logged in and their profile. Each change
// resets the profile to nil before its fetch starts, and a fetch result is
// only applied when no newer change happened meanwhile.
type IdentitySession struct {
	fetcher ProfileFetcher

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	snap      Snapshot
	observers []func(Snapshot)
}

func NewIdentitySession(fetcher ProfileFetcher, opts ...SessionOption) *IdentitySession {
	s := &IdentitySession{fetcher: fetcher}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *IdentitySession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Change switches the session to userID and waits for its profile fetch.
// The returned snapshot is the state after the fetch, or the state of a
// newer change that superseded it.
func (s *IdentitySession) Change(ctx context.Context, userID string) Snapshot {
	gen, fetchCtx, ok := s.begin(ctx, userID)
	if !ok {
		return s.Snapshot()
	}
	profile, err := s.fetcher.FetchProfile(fetchCtx, userID)
	return s.finish(gen, userID, profile, err)
}

// Logout returns the session to unauthenticated synchronously and drops any
// fetch still in flight.
func (s *IdentitySession) Logout() {
	s.begin(context.Background(), "")
}

// Watch applies session events until events is closed or ctx is done. Each
// event resets the profile before the next event is read; its fetch runs in
// the background and a newer event cancels it.
func (s *IdentitySession) Watch(ctx context.Context, events <-chan SessionEvent) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			s.stop(ctx.Err())
			return ctx.Err()

		case ev, open := <-events:
			if !open {
				return nil
			}
			gen, fetchCtx, ok := s.begin(ctx, ev.UserID)
			if !ok {
				continue
			}
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				profile, err := s.fetcher.FetchProfile(fetchCtx, userID)
				s.finish(gen, userID, profile, err)
			}(ev.UserID)
		}
	}
}

// stop drops the outstanding fetch. A session left loading settles like a
// failed fetch, so Snapshot never reports loading once Watch has returned.
func (s *IdentitySession) stop(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.snap.State == StateAuthenticating {
		s.apply(Snapshot{State: StateAuthenticated, UserID: s.snap.UserID, Err: cause})
	}
}

// begin supersedes any outstanding fetch and applies the reset state. ok is
// false when userID is empty and there is nothing to fetch.
func (s *IdentitySession) begin(ctx context.Context, userID string) (uint64, context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if userID == "" {
		s.apply(Snapshot{State: StateUnauthenticated})
		return s.gen, nil, false
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.apply(Snapshot{State: StateAuthenticating, UserID: userID})
	return s.gen, fetchCtx, true
}

func (s *IdentitySession) finish(gen uint64, userID string, profile *domain.Profile, err error) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return s.snap
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		s.apply(Snapshot{State: StateUnauthenticated, Err: err})
	case err != nil:
		s.apply(Snapshot{State: StateAuthenticated, UserID: userID, Err: err})
	default:
		s.apply(Snapshot{State: StateAuthenticated, UserID: userID, Profile: cloneProfile(profile)})
	}
	return s.snap
}

func (s *IdentitySession) apply(next Snapshot) {
	s.snap = next
	for _, fn := range s.observers {
		fn(next)
	}
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
