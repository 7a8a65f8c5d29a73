package ports

import (
	"context"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

// UserRepository persists identity credentials.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create stores the credential and its profile together; ErrUserExists when
	// the email is taken.
	Create(ctx context.Context, user *domain.User, profile *domain.Profile) (*domain.User, error)
}

// ProfileRepository reads the profile row keyed by identity id.
type ProfileRepository interface {
	FindProfile(ctx context.Context, userID string) (*domain.Profile, error)
}

// SessionRepository tracks session liveness. A missing session means the
// identity has logged out or the session expired.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	Find(ctx context.Context, sessionID string) (*domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// Authenticator resolves credentials to an identity. Implementations fail
// with domain.ErrInvalidCredentials on any mismatch.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Identity, error)
}
