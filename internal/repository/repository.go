// Package repository declares the storage ports the core depends on.
//
// The service layer only ever sees these interfaces — never a concrete
// store. Two implementations exist: the sqlite package (file-backed,
// used by the server) and the memory package (used in tests and for
// throwaway runs). The core never branches on which one it got.
package repository

import (
	"context"

	"github.com/sakif/codespark/internal/model"
)

// SnippetRepository is the snippet storage port.
//
// Save is an upsert by id. Delete is a no-op when the id is absent —
// "does this snippet exist" is the use-case layer's question, answered by
// GetByID, not the store's.
type SnippetRepository interface {
	GetAll(ctx context.Context) ([]model.Snippet, error)
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	Save(ctx context.Context, snippet model.Snippet) error
	Delete(ctx context.Context, id string) error
}

// LibraryRepository is the library storage port.
type LibraryRepository interface {
	GetLibraries(ctx context.Context) ([]model.SnippetLibrary, error)
}

// PreferencesRepository is the user preferences gateway.
// GetPreferences returns (nil, nil) when the user has never saved any.
type PreferencesRepository interface {
	GetPreferences(ctx context.Context) (*model.UserPreferences, error)
	SavePreferences(ctx context.Context, prefs model.UserPreferences) error
}
