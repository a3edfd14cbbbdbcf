package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/codespark/internal/apperror"
	"github.com/sakif/codespark/internal/model"
)

func storedSnippet(id string) model.Snippet {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.Snippet{
		ID:        id,
		Title:     "title",
		Body:      "body",
		Tags:      []string{"a", "b"},
		LibraryID: "personal",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestNew_SeedsDefaultLibrariesWhenNoneGiven(t *testing.T) {
	store := New()

	libraries, err := store.GetLibraries(context.Background())
	if err != nil {
		t.Fatalf("GetLibraries() error = %v", err)
	}
	if len(libraries) != 2 {
		t.Fatalf("got %d libraries, want 2 defaults", len(libraries))
	}
}

func TestNew_UsesGivenLibraries(t *testing.T) {
	store := New(model.SnippetLibrary{ID: "only", Name: "Only", Category: model.CategoryProject})

	libraries, err := store.GetLibraries(context.Background())
	if err != nil {
		t.Fatalf("GetLibraries() error = %v", err)
	}
	if len(libraries) != 1 || libraries[0].ID != "only" {
		t.Errorf("libraries = %v, want just the given one", libraries)
	}
}

func TestSave_StoresACopyNotTheCallersSlice(t *testing.T) {
	store := New()
	ctx := context.Background()

	original := storedSnippet("s1")
	if err := store.Save(ctx, original); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Mutating the caller's copy after Save must not reach the store.
	original.Tags[0] = "mutated"

	got, err := store.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Tags[0] != "a" {
		t.Errorf("stored tags = %v, caller's mutation leaked in", got.Tags)
	}
}

func TestGetByID_ReturnsACopyNotSharedState(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Save(ctx, storedSnippet("s1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	first, _ := store.GetByID(ctx, "s1")
	first.Tags[0] = "mutated"
	first.Title = "mutated"

	second, _ := store.GetByID(ctx, "s1")
	if second.Tags[0] != "a" || second.Title != "title" {
		t.Errorf("reads share state: %+v", second)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	store := New()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestDelete_IsNoOpOnAbsentID(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete() on absent id = %v, want nil", err)
	}

	if err := store.Save(ctx, storedSnippet("s1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.GetByID(ctx, "s1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("snippet still present after delete: %v", err)
	}
}

func TestPreferences_NilUntilSaved(t *testing.T) {
	store := New()
	ctx := context.Background()

	prefs, err := store.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if prefs != nil {
		t.Errorf("prefs = %+v before any save, want nil", prefs)
	}

	want := model.UserPreferences{Theme: "dark", DefaultLibraryID: "personal"}
	if err := store.SavePreferences(ctx, want); err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}

	got, err := store.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if got == nil || *got != want {
		t.Errorf("prefs = %+v, want %+v", got, want)
	}
}
