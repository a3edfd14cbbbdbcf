// Package memory implements the repository ports with plain in-memory maps.
//
// It backs the service tests and the server's MEMORY=1 mode. Snippets are
// copied on the way in and out so callers can never mutate stored state
// through a shared slice or pointer.
package memory

import (
	"context"
	"sync"

	"github.com/sakif/codespark/internal/apperror"
	"github.com/sakif/codespark/internal/model"
	"github.com/sakif/codespark/internal/repository"
)

// Compile-time interface checks.
var (
	_ repository.SnippetRepository     = (*Store)(nil)
	_ repository.LibraryRepository     = (*Store)(nil)
	_ repository.PreferencesRepository = (*Store)(nil)
)

// Store holds snippets, libraries, and preferences in memory.
// The zero value is not usable; create one with New.
type Store struct {
	mu        sync.RWMutex
	snippets  map[string]model.Snippet
	libraries []model.SnippetLibrary
	prefs     *model.UserPreferences
}

// New creates a Store seeded with the given libraries.
// Passing no libraries seeds the defaults.
func New(libraries ...model.SnippetLibrary) *Store {
	if len(libraries) == 0 {
		libraries = model.DefaultLibraries()
	}
	return &Store{
		snippets:  make(map[string]model.Snippet),
		libraries: append([]model.SnippetLibrary(nil), libraries...),
	}
}

// Seed inserts snippets directly, bypassing validation. Test helper.
func (s *Store) Seed(snippets ...model.Snippet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snippet := range snippets {
		s.snippets[snippet.ID] = snippet.Clone()
	}
}

func (s *Store) GetAll(ctx context.Context) ([]model.Snippet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Snippet, 0, len(s.snippets))
	for _, snippet := range s.snippets {
		out = append(out, snippet.Clone())
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snippet, ok := s.snippets[id]
	if !ok {
		return nil, apperror.NotFound("snippet", id)
	}
	out := snippet.Clone()
	return &out, nil
}

func (s *Store) Save(ctx context.Context, snippet model.Snippet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snippets[snippet.ID] = snippet.Clone()
	return nil
}

// Delete removes a snippet. Absent ids are a no-op, per the port contract.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snippets, id)
	return nil
}

func (s *Store) GetLibraries(ctx context.Context) ([]model.SnippetLibrary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.SnippetLibrary(nil), s.libraries...), nil
}

func (s *Store) GetPreferences(ctx context.Context) (*model.UserPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prefs == nil {
		return nil, nil
	}
	prefs := *s.prefs
	return &prefs, nil
}

func (s *Store) SavePreferences(ctx context.Context, prefs model.UserPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = &prefs
	return nil
}
