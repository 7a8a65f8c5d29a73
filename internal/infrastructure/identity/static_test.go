package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

func TestStaticTable_DefaultDirectors(t *testing.T) {
	st, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	id, err := st.Authenticate(context.Background(), "carlos.diretor@ej.com", "senha123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id.ID != "dir_carlos" || id.Profile.NotionName != "Carlos Diretor" || id.Profile.Assessoria != "Computação" {
		t.Fatalf("unexpected identity: %+v / %+v", id, id.Profile)
	}
	if id.Role() != domain.RoleDirector {
		t.Fatalf("expected Diretor, got %s", id.Role())
	}

	p, err := st.FindProfile(context.Background(), "dir_ana")
	if err != nil || p.Assessoria != "Marketing" {
		t.Fatalf("unexpected profile: %+v, %v", p, err)
	}
}

func TestStaticTable_WrongPassword(t *testing.T) {
	st, _ := Load("")

	if _, err := st.Authenticate(context.Background(), "ana.diretora@ej.com", "senha123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := st.Authenticate(context.Background(), "ghost@ej.com", "x"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestStaticTable_EmailMustMatchExactly(t *testing.T) {
	st, err := Parse([]byte("users:\n  - {id: dir_carlos, email: carlos.diretor@ej.com, password: senha123, name: Carlos Diretor, role: Diretor}\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	for _, email := range []string{"CARLOS.Diretor@EJ.com", " carlos.diretor@ej.com", "carlos.diretor@ej.com "} {
		if id, err := st.Authenticate(context.Background(), email, "senha123"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%q: expected ErrInvalidCredentials, got %+v, %v", email, id, err)
		}
	}
	if _, err := st.Authenticate(context.Background(), "carlos.diretor@ej.com", "SENHA123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected password to be case-sensitive, got %v", err)
	}
}

func TestParse_RejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"missing password": "users:\n  - id: a\n    email: a@x.com\n    role: Diretor\n",
		"bad role":         "users:\n  - id: a\n    email: a@x.com\n    password: p\n    role: Chefe\n",
		"duplicate email":  "users:\n  - {id: a, email: a@x.com, password: p, role: Diretor}\n  - {id: b, email: a@x.com, password: q, role: Gestor}\n",
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
