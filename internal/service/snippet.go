package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/codespark/internal/apperror"
	"github.com/sakif/codespark/internal/clipboard"
	"github.com/sakif/codespark/internal/model"
	"github.com/sakif/codespark/internal/repository"
)

// SnippetService handles the mutation use-cases: Create, Update, Delete,
// and Copy. Every operation either fully succeeds with exactly one
// persisted write or fully fails with no write at all — validation and
// read-only checks always run before the store is touched.
type SnippetService struct {
	snippets  repository.SnippetRepository
	libraries repository.LibraryRepository
	clipboard clipboard.Gateway
	logger    *slog.Logger

	now              func() time.Time
	newID            func() string
	defaultLibraryID string
}

// SnippetOption configures optional SnippetService collaborators.
type SnippetOption func(*SnippetService)

// WithClock injects the clock used for createdAt/updatedAt/lastUsedAt.
func WithClock(now func() time.Time) SnippetOption {
	return func(s *SnippetService) { s.now = now }
}

// WithIDGenerator injects the id generator. Uniqueness within the store is
// the generator's responsibility. Defaults to rs/xid.
func WithIDGenerator(newID func() string) SnippetOption {
	return func(s *SnippetService) { s.newID = newID }
}

// WithDefaultLibrary sets the library used when Create gets no explicit one.
func WithDefaultLibrary(libraryID string) SnippetOption {
	return func(s *SnippetService) { s.defaultLibraryID = libraryID }
}

// NewSnippetService creates a SnippetService.
func NewSnippetService(
	snippets repository.SnippetRepository,
	libraries repository.LibraryRepository,
	clip clipboard.Gateway,
	logger *slog.Logger,
	opts ...SnippetOption,
) *SnippetService {
	s := &SnippetService{
		snippets:  snippets,
		libraries: libraries,
		clipboard: clip,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return xid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput carries the fields for a new snippet.
// LibraryID may be empty if the service was configured with a default.
type CreateInput struct {
	Title       string
	Body        string
	Shortcut    string
	Description string
	Tags        []string
	Language    string
	LibraryID   string
	IsFavorite  bool
}

// UpdatePatch is a partial change set for Update.
//
// Three-state convention: a nil field is absent and keeps the previous
// value; a non-nil field replaces it, where replacing a nullable field
// (Shortcut, Description, Language) with the empty string clears it.
// Tags follows the same rule — &[]string{} clears all tags.
type UpdatePatch struct {
	Title       *string
	Body        *string
	Tags        *[]string
	Shortcut    *string
	Description *string
	Language    *string
	IsFavorite  *bool
	LibraryID   *string
}

// Create validates and persists a new snippet.
//
// The effective library is the explicit input or the configured default;
// with neither, nothing is written and ErrMissingLibrary comes back. The
// target library must exist and be writable. Validation failures enumerate
// every violated rule at once.
func (s *SnippetService) Create(ctx context.Context, input CreateInput) (*model.Snippet, error) {
	libraryID := input.LibraryID
	if libraryID == "" {
		libraryID = s.defaultLibraryID
	}
	if libraryID == "" {
		return nil, apperror.MissingLibrary()
	}

	if err := s.assertWritable(ctx, libraryID); err != nil {
		return nil, err
	}

	now := s.now()
	snippet := model.Snippet{
		ID:          s.newID(),
		Title:       strings.TrimSpace(input.Title),
		Body:        strings.TrimSpace(input.Body),
		Shortcut:    input.Shortcut,
		Description: input.Description,
		Tags:        append([]string(nil), input.Tags...),
		Language:    input.Language,
		IsFavorite:  input.IsFavorite,
		UsageCount:  0,
		LastUsedAt:  nil,
		LibraryID:   libraryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if issues := model.Validate(snippet); len(issues) > 0 {
		return nil, apperror.ValidationFailed(issues)
	}

	if err := s.snippets.Save(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("title", snippet.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("library", snippet.LibraryID),
	)

	return &snippet, nil
}

// Get returns a single snippet by id.
func (s *SnippetService) Get(ctx context.Context, id string) (*model.Snippet, error) {
	return s.snippets.GetByID(ctx, id)
}

// Update merges a patch onto an existing snippet, re-validates, and saves.
//
// The read-only check runs against the effective target library — the new
// one if the patch moves the snippet, otherwise its current one — so both
// editing inside a read-only library and moving into one are blocked.
func (s *SnippetService) Update(ctx context.Context, id string, patch UpdatePatch) (*model.Snippet, error) {
	current, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	targetLibraryID := current.LibraryID
	if patch.LibraryID != nil {
		targetLibraryID = *patch.LibraryID
	}
	if err := s.assertWritable(ctx, targetLibraryID); err != nil {
		return nil, err
	}

	merged := current.Clone()
	merged.LibraryID = targetLibraryID
	if patch.Title != nil {
		merged.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Body != nil {
		merged.Body = strings.TrimSpace(*patch.Body)
	}
	if patch.Tags != nil {
		merged.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.Shortcut != nil {
		merged.Shortcut = *patch.Shortcut
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.Language != nil {
		merged.Language = *patch.Language
	}
	if patch.IsFavorite != nil {
		merged.IsFavorite = *patch.IsFavorite
	}
	merged.UpdatedAt = s.now()

	if issues := model.Validate(merged); len(issues) > 0 {
		return nil, apperror.ValidationFailed(issues)
	}

	if err := s.snippets.Save(ctx, merged); err != nil {
		s.logger.Error("failed to update snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated", slog.String("id", id))
	return &merged, nil
}

// Delete removes a snippet and returns its prior state so callers can show
// an undo message. Snippets in read-only libraries cannot be deleted.
func (s *SnippetService) Delete(ctx context.Context, id string) (*model.Snippet, error) {
	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.assertWritable(ctx, snippet.LibraryID); err != nil {
		return nil, err
	}

	if err := s.snippets.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("deleting snippet: %w", err)
	}

	s.logger.Info("snippet deleted", slog.String("id", id))
	return snippet, nil
}

// Copy puts the snippet body on the clipboard and records the use.
//
// Order matters: the clipboard call happens first, and a clipboard failure
// means no persistence at all — usage stats must never count a copy the
// user didn't get. Copy is allowed on read-only libraries because it only
// touches usage bookkeeping, not content.
func (s *SnippetService) Copy(ctx context.Context, id string) (*model.Snippet, error) {
	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.clipboard.CopyText(ctx, snippet.Body); err != nil {
		s.logger.Warn("clipboard copy failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, apperror.ClipboardFailed(err)
	}

	now := s.now()
	updated := snippet.Clone()
	updated.UsageCount++
	updated.LastUsedAt = &now
	updated.UpdatedAt = now

	if err := s.snippets.Save(ctx, updated); err != nil {
		s.logger.Error("failed to record snippet usage",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("recording snippet usage: %w", err)
	}

	s.logger.Info("snippet copied",
		slog.String("id", id),
		slog.Int("usageCount", updated.UsageCount),
	)

	return &updated, nil
}

// assertWritable fails with LibraryNotFound for unknown libraries and
// ReadOnlyViolation for read-only ones.
func (s *SnippetService) assertWritable(ctx context.Context, libraryID string) error {
	libraries, err := s.libraries.GetLibraries(ctx)
	if err != nil {
		return fmt.Errorf("loading libraries: %w", err)
	}
	for _, lib := range libraries {
		if lib.ID != libraryID {
			continue
		}
		if lib.IsReadOnly {
			return apperror.ReadOnlyViolation(libraryID)
		}
		return nil
	}
	return apperror.LibraryNotFound(libraryID)
}
