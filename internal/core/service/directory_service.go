package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/serraej/member-evaluations/internal/core/domain"
	"github.com/serraej/member-evaluations/internal/core/ports"
)

// DirectoryService turns the raw workspace people list into the member
// rosters shown to evaluators.
type DirectoryService struct {
	source ports.DirectorySource
	log    zerolog.Logger
}

func NewDirectoryService(source ports.DirectorySource, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{source: source, log: log}
}

// ListMembers returns the people tagged with q.Category (all people when
// empty), minus q.ExcludeName, sorted by display name with duplicate names
// collapsed.
func (s *DirectoryService) ListMembers(ctx context.Context, q ports.DirectoryQuery) ([]domain.Person, error) {
	people, err := s.source.QueryPeople(ctx, q.Category)
	if err != nil {
		s.log.Error().Err(err).Str("category", q.Category).Msg("directory query failed")
		if !errors.Is(err, domain.ErrUpstreamUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
		}
		return nil, fmt.Errorf("list members: %w", err)
	}

	seen := make(map[string]struct{}, len(people))
	out := make([]domain.Person, 0, len(people))
	for _, p := range people {
		if p.DisplayName == "" || p.DisplayName == q.ExcludeName {
			continue
		}
		if q.Category != "" && !p.InCategory(q.Category) {
			continue
		}
		if _, dup := seen[p.DisplayName]; dup {
			continue
		}
		seen[p.DisplayName] = struct{}{}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })

	s.log.Debug().Str("category", q.Category).Int("count", len(out)).Msg("members listed")
	return out, nil
}

// MemberNames is ListMembers reduced to display names.
func (s *DirectoryService) MemberNames(ctx context.Context, q ports.DirectoryQuery) ([]string, error) {
	people, err := s.ListMembers(ctx, q)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = p.DisplayName
	}
	return names, nil
}

// GroupedMembers buckets every member under each of its categories. People
// without a category land under "".
func (s *DirectoryService) GroupedMembers(ctx context.Context) (map[string][]domain.Person, error) {
	people, err := s.ListMembers(ctx, ports.DirectoryQuery{})
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]domain.Person)
	for _, p := range people {
		if len(p.Categories) == 0 {
			groups[""] = append(groups[""], p)
			continue
		}
		for _, c := range p.Categories {
			groups[c] = append(groups[c], p)
		}
	}
	return groups, nil
}

// KnownSubject reports whether name is a current member of the directory.
func (s *DirectoryService) KnownSubject(ctx context.Context, name string) (bool, error) {
	names, err := s.MemberNames(ctx, ports.DirectoryQuery{})
	if err != nil {
		return false, err
	}
	i := sort.SearchStrings(names, name)
	return i < len(names) && names[i] == name, nil
}
