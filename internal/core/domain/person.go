package domain

import "errors"

var ErrUpstreamUnavailable = errors.New("could not load members")

// Person is a member read from the workspace directory. It is never mutated here.
type Person struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"name"`
	Categories  []string `json:"categories,omitempty"`
}

// InCategory reports whether the person carries the given category tag.
func (p Person) InCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}
