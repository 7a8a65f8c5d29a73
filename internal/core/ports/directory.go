package ports

import (
	"context"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

// DirectorySource queries the external workspace for people. An empty
// category returns every person.
type DirectorySource interface {
	QueryPeople(ctx context.Context, category string) ([]domain.Person, error)
}

// DirectoryQuery narrows a member listing.
type DirectoryQuery struct {
	Category    string
	ExcludeName string
}

type DirectoryService interface {
	ListMembers(ctx context.Context, q DirectoryQuery) ([]domain.Person, error)
	MemberNames(ctx context.Context, q DirectoryQuery) ([]string, error)
	GroupedMembers(ctx context.Context) (map[string][]domain.Person, error)
}
