// Package identity provides a fixed credential table for deployments that do
// not run sign-up.
package identity

import (
	"context"
	"crypto/subtle"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

//go:embed users.yaml
var defaultTable []byte

type entry struct {
	ID         string `yaml:"id"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	Role       string `yaml:"role"`
	Project    string `yaml:"project"`
	Assessoria string `yaml:"assessoria"`
}

type table struct {
	Users []entry `yaml:"users"`
}

// StaticTable authenticates against an in-memory list of identities. It
// implements ports.Authenticator and ports.ProfileRepository.
type StaticTable struct {
	byEmail map[string]entry
	byID    map[string]entry
}

// Load reads the table from path, or the embedded demo table when path is empty.
func Load(path string) (*StaticTable, error) {
	raw := defaultTable
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read identity table: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

func Parse(raw []byte) (*StaticTable, error) {
	var t table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse identity table: %w", err)
	}

	st := &StaticTable{
		byEmail: make(map[string]entry, len(t.Users)),
		byID:    make(map[string]entry, len(t.Users)),
	}
	for i, e := range t.Users {
		if e.ID == "" || e.Email == "" || e.Password == "" {
			return nil, fmt.Errorf("identity table entry %d: id, email and password are required", i)
		}
		if !domain.ValidRole(e.Role) {
			return nil, fmt.Errorf("identity table entry %s: unknown role %q", e.ID, e.Role)
		}
		if _, dup := st.byEmail[e.Email]; dup {
			return nil, fmt.Errorf("identity table: duplicate email %s", e.Email)
		}
		st.byEmail[e.Email] = e
		st.byID[e.ID] = e
	}
	return st, nil
}

// Authenticate succeeds only when both email and password match an entry
// exactly, case included.
func (t *StaticTable) Authenticate(_ context.Context, email, password string) (*domain.Identity, error) {
	e, ok := t.byEmail[email]
	if !ok || subtle.ConstantTimeCompare([]byte(e.Password), []byte(password)) != 1 {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.Identity{ID: e.ID, Email: e.Email, Profile: e.profile()}, nil
}

func (t *StaticTable) FindProfile(_ context.Context, userID string) (*domain.Profile, error) {
	e, ok := t.byID[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return e.profile(), nil
}

func (e entry) profile() *domain.Profile {
	return &domain.Profile{
		ID:          e.ID,
		NotionName:  e.Name,
		UserRole:    e.Role,
		ProjectName: e.Project,
		Assessoria:  e.Assessoria,
	}
}
