package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure taxonomy.
// Services return these wrapped inside an AppError; handlers check them
// with errors.Is to pick a status code without knowing the message format.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrReadOnly        = errors.New("read-only library")
	ErrMissingLibrary  = errors.New("missing library")
	ErrClipboard       = errors.New("clipboard failure")
	ErrLibraryNotFound = errors.New("library not found")
)

// Validation issue codes. Every rule a snippet can violate has a stable
// machine-readable code so callers can highlight the offending field.
const (
	IssueTitleEmpty         = "TITLE_EMPTY"
	IssueBodyEmpty          = "BODY_EMPTY"
	IssueTagsDuplicated     = "TAGS_DUPLICATED"
	IssueInvalidTimestamp   = "INVALID_TIMESTAMP"
	IssueUpdatedBeforeCreat = "UPDATED_AT_BEFORE_CREATED_AT"
)

// ValidationIssue describes a single violated rule.
// Validation always enumerates every violation, never just the first.
type ValidationIssue struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the application-level error type.
// Err holds the sentinel (for errors.Is), Message the human-readable text.
// Issues is populated for validation failures, LibraryID for read-only
// violations so the caller can name the offending library.
type AppError struct {
	Err       error
	Message   string
	Issues    []ValidationIssue
	LibraryID string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a resource with the given id does not exist.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed bundles every violated rule into one error.
func ValidationFailed(issues []ValidationIssue) *AppError {
	messages := make([]string, len(issues))
	for i, issue := range issues {
		messages[i] = issue.Message
	}
	return &AppError{
		Err:     ErrValidation,
		Message: strings.Join(messages, "; "),
		Issues:  issues,
	}
}

// ReadOnlyViolation reports a mutation against a read-only library.
func ReadOnlyViolation(libraryID string) *AppError {
	return &AppError{
		Err:       ErrReadOnly,
		Message:   fmt.Sprintf("library %s is read-only", libraryID),
		LibraryID: libraryID,
	}
}

// MissingLibrary reports a create with neither an explicit nor a default library.
func MissingLibrary() *AppError {
	return &AppError{
		Err:     ErrMissingLibrary,
		Message: "a library id is required when no default library is configured",
	}
}

// ClipboardFailed wraps a clipboard capability error.
// Both ErrClipboard and the original cause stay reachable via errors.Is.
func ClipboardFailed(cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrClipboard, cause),
		Message: fmt.Sprintf("copying to clipboard: %v", cause),
	}
}

// LibraryNotFound reports a reference to a library absent from the library list.
func LibraryNotFound(id string) *AppError {
	return &AppError{
		Err:       ErrLibraryNotFound,
		Message:   fmt.Sprintf("library not found with id %s", id),
		LibraryID: id,
	}
}
