package domain

import (
	"errors"
	"time"
)

const (
	// RoleManager is a project manager ("Gestor"); evaluates the members of one project.
	RoleManager = "Gestor"
	// RoleDirector is a sector director ("Diretor"); evaluates the members of an assessoria.
	RoleDirector = "Diretor"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrForbidden          = errors.New("access forbidden")
)

// ValidRole reports whether role is one of the known identity roles.
func ValidRole(role string) bool {
	return role == RoleManager || role == RoleDirector
}

// User models the stored credential of an acting identity.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the row attached to an identity at sign-up. NotionName ties the
// identity to a Person of the workspace directory.
type Profile struct {
	ID          string `json:"id"`
	NotionName  string `json:"notion_name"`
	UserRole    string `json:"user_role"`
	ProjectName string `json:"project_name,omitempty"`
	Assessoria  string `json:"assessoria"`
}

// Identity is the authenticated actor performing evaluations.
type Identity struct {
	ID      string   `json:"id"`
	Email   string   `json:"email,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

// Role returns the profile role, or "" when no profile is attached.
func (i *Identity) Role() string {
	if i == nil || i.Profile == nil {
		return ""
	}
	return i.Profile.UserRole
}

// Context is what the dashboard shows next to the identity name: the project
// for managers, the assessoria for directors.
func (p *Profile) Context() string {
	if p.UserRole == RoleManager {
		return p.ProjectName
	}
	return p.Assessoria
}

// Session marks a live login. Deleting it is what logging out means.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}
