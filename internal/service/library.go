package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/codespark/internal/apperror"
	"github.com/sakif/codespark/internal/model"
	"github.com/sakif/codespark/internal/repository"
)

// LibraryService resolves and switches the active library and exposes the
// library list. The empty string stands for "all libraries" throughout.
type LibraryService struct {
	libraries repository.LibraryRepository
	prefs     repository.PreferencesRepository
	logger    *slog.Logger
}

// NewLibraryService creates a LibraryService.
func NewLibraryService(
	libraries repository.LibraryRepository,
	prefs repository.PreferencesRepository,
	logger *slog.Logger,
) *LibraryService {
	return &LibraryService{
		libraries: libraries,
		prefs:     prefs,
		logger:    logger,
	}
}

// List returns every library.
func (s *LibraryService) List(ctx context.Context) ([]model.SnippetLibrary, error) {
	libraries, err := s.libraries.GetLibraries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing libraries: %w", err)
	}
	return libraries, nil
}

// ActiveLibrary resolves which library is currently active.
//
// The candidate is the persisted default library, or fallbackID when no
// preference exists. A candidate that no longer appears in the library
// list (deleted on disk, say) falls back to fallbackID — and to "" when
// the fallback itself is absent or invalid. A dangling id never escapes.
func (s *LibraryService) ActiveLibrary(ctx context.Context, fallbackID string) (string, error) {
	prefs, err := s.prefs.GetPreferences(ctx)
	if err != nil {
		return "", fmt.Errorf("loading preferences: %w", err)
	}

	candidate := fallbackID
	if prefs != nil && prefs.DefaultLibraryID != "" {
		candidate = prefs.DefaultLibraryID
	}
	if candidate == "" {
		return "", nil
	}

	libraries, err := s.libraries.GetLibraries(ctx)
	if err != nil {
		return "", fmt.Errorf("loading libraries: %w", err)
	}

	if libraryExists(libraries, candidate) {
		return candidate, nil
	}
	if fallbackID != "" && fallbackID != candidate && libraryExists(libraries, fallbackID) {
		return fallbackID, nil
	}
	return "", nil
}

// SwitchActive persists libraryID as the default library, preserving all
// other preference fields. An empty id selects "all libraries". Unknown
// ids fail with LibraryNotFound before anything is written.
func (s *LibraryService) SwitchActive(ctx context.Context, libraryID string) (*model.UserPreferences, error) {
	if libraryID != "" {
		libraries, err := s.libraries.GetLibraries(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading libraries: %w", err)
		}
		if !libraryExists(libraries, libraryID) {
			return nil, apperror.LibraryNotFound(libraryID)
		}
	}

	current, err := s.prefs.GetPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}

	next := model.DefaultPreferences()
	if current != nil {
		next = *current
	}
	next.DefaultLibraryID = libraryID

	if err := s.prefs.SavePreferences(ctx, next); err != nil {
		s.logger.Error("failed to save preferences",
			slog.String("library", libraryID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("saving preferences: %w", err)
	}

	s.logger.Info("active library switched", slog.String("library", libraryID))
	return &next, nil
}

func libraryExists(libraries []model.SnippetLibrary, id string) bool {
	for _, lib := range libraries {
		if lib.ID == id {
			return true
		}
	}
	return false
}
