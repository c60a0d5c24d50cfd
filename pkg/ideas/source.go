package ideas

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/reelay/reelay/pkg/models"
)

// ErrIdeaNotFound indicates no catalog entry matched the given slug.
var ErrIdeaNotFound = errors.New("idea not found")

// Source serves ideas from a fixed ordered catalog. Selection is
// deterministic round-robin: Next is a pure function of the catalog
// and the caller-held index, so the rotation cursor lives with the
// caller rather than as shared mutable state.
type Source struct {
	mu      sync.RWMutex
	catalog []models.Idea
}

// NewSource creates a source over the given catalog, or the built-in
// one when catalog is empty.
func NewSource(catalog []models.Idea) *Source {
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}

	return &Source{catalog: catalog}
}

// Next returns the idea at index (modulo catalog size) and the index
// the caller should pass on its next call.
func (s *Source) Next(index int) (models.Idea, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := index % len(s.catalog)
	if idx < 0 {
		idx += len(s.catalog)
	}

	return s.catalog[idx], (idx + 1) % len(s.catalog)
}

// BySlug returns the idea with the given slug.
func (s *Source) BySlug(slug string) (models.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, idea := range s.catalog {
		if idea.Slug == slug {
			return idea, nil
		}
	}

	return models.Idea{}, ErrIdeaNotFound
}

// Random returns a uniformly random catalog entry.
func (s *Source) Random() models.Idea {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.catalog[rand.Intn(len(s.catalog))]
}

// Add appends an operator-supplied idea to the catalog. Not part of
// run-time execution.
func (s *Source) Add(idea models.Idea) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = append(s.catalog, idea)

	return len(s.catalog) - 1
}

// Len returns the catalog size.
func (s *Source) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.catalog)
}
