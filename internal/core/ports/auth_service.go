package ports

import (
	"context"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

// SignUpInput carries the account and profile chosen at sign-up.
type SignUpInput struct {
	Email       string
	Password    string
	NotionName  string
	UserRole    string
	ProjectName string
	Assessoria  string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token    string
	Identity *domain.Identity
}

// Claims are the identity facts carried by a verified token.
type Claims struct {
	UserID    string
	SessionID string
	Role      string
	Name      string
}

type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*domain.Identity, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	// Verify checks the token signature and that its session is still live.
	Verify(ctx context.Context, token string) (*Claims, error)
	Me(ctx context.Context, userID string) (*domain.Identity, error)
}
