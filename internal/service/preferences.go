package service

import (
	"context"
	"fmt"

	"github.com/sakif/codespark/internal/model"
	"github.com/sakif/codespark/internal/repository"
)

// PreferencesService reads and writes user preferences.
// Preferences are loaded once by the caller at startup and only change
// through explicit saves — there is no background sync.
type PreferencesService struct {
	prefs repository.PreferencesRepository
}

// NewPreferencesService creates a PreferencesService.
func NewPreferencesService(prefs repository.PreferencesRepository) *PreferencesService {
	return &PreferencesService{prefs: prefs}
}

// Get returns the saved preferences, or the defaults when none exist yet.
func (s *PreferencesService) Get(ctx context.Context) (model.UserPreferences, error) {
	prefs, err := s.prefs.GetPreferences(ctx)
	if err != nil {
		return model.UserPreferences{}, fmt.Errorf("loading preferences: %w", err)
	}
	if prefs == nil {
		return model.DefaultPreferences(), nil
	}
	return *prefs, nil
}

// Save persists the full preferences snapshot.
func (s *PreferencesService) Save(ctx context.Context, prefs model.UserPreferences) error {
	if err := s.prefs.SavePreferences(ctx, prefs); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}
