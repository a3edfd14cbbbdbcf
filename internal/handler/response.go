package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/codespark/internal/apperror"
)

// ErrorResponse is the standard error shape returned by every endpoint.
// Issues is only present on validation failures and lists every violated
// rule, not just the first.
type ErrorResponse struct {
	Error   string                     `json:"error"`
	Message string                     `json:"message"`
	Issues  []apperror.ValidationIssue `json:"issues,omitempty"`
	Library string                     `json:"libraryId,omitempty"`
}

// writeJSON sends a JSON response. Headers and status must go out before
// the body — once Encode writes, header changes are silently dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into an HTTP status.
// The service layer knows nothing about HTTP; this is the only place the
// error taxonomy meets status codes.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrMissingLibrary):
			status = http.StatusBadRequest
			errorType = "missing_library"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrLibraryNotFound):
			status = http.StatusNotFound
			errorType = "library_not_found"
		case errors.Is(err, apperror.ErrReadOnly):
			status = http.StatusForbidden
			errorType = "read_only_library"
		case errors.Is(err, apperror.ErrClipboard):
			status = http.StatusBadGateway
			errorType = "clipboard_failure"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Issues:  appErr.Issues,
			Library: appErr.LibraryID,
		})
		return
	}

	// Unknown error — never leak internals to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
