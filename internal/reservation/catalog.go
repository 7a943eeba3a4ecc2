package reservation

import (
	"slices"
	"strings"

	"github.com/robertarktes/campus-reservations/internal/domain"
)

// Filter narrows a catalog listing. The zero value matches everything.
type Filter struct {
	Query         string
	Categories    []string
	AvailableOnly bool
}

func (f Filter) matches(it domain.Item) bool {
	if f.AvailableOnly && !it.Available {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, it.Category) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Name), q) ||
		strings.Contains(strings.ToLower(it.Description), q)
}

// Search returns the items matching f in catalog order.
func (s *Store) Search(f Filter) []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Item{}
	for _, it := range s.items {
		if f.matches(it) {
			out = append(out, it.Clone())
		}
	}
	return out
}

// Categories lists distinct categories in first-seen order.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []string{}
	for _, it := range s.items {
		if !slices.Contains(out, it.Category) {
			out = append(out, it.Category)
		}
	}
	return out
}
