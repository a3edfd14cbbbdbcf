package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/codespark/internal/service"
)

// LibraryHandler exposes the library list and the active-library selection.
type LibraryHandler struct {
	libraries *service.LibraryService
	logger    *slog.Logger
}

// NewLibraryHandler creates a LibraryHandler.
func NewLibraryHandler(libraries *service.LibraryService, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{libraries: libraries, logger: logger}
}

// HandleList handles GET /api/libraries.
func (h *LibraryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	libraries, err := h.libraries.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, libraries)
}

// activeLibraryResponse wraps the active library id; an empty id renders
// as null, meaning "all libraries".
type activeLibraryResponse struct {
	LibraryID *string `json:"libraryId"`
}

// HandleGetActive handles GET /api/libraries/active?fallback=.
func (h *LibraryHandler) HandleGetActive(w http.ResponseWriter, r *http.Request) {
	id, err := h.libraries.ActiveLibrary(r.Context(), r.URL.Query().Get("fallback"))
	if err != nil {
		writeError(w, err)
		return
	}

	var resp activeLibraryResponse
	if id != "" {
		resp.LibraryID = &id
	}
	writeJSON(w, http.StatusOK, resp)
}

// switchActiveRequest is the JSON body for PUT /api/libraries/active.
// A null (or absent) libraryId selects "all libraries".
type switchActiveRequest struct {
	LibraryID *string `json:"libraryId"`
}

// HandleSwitchActive handles PUT /api/libraries/active.
// Returns the updated preferences snapshot.
func (h *LibraryHandler) HandleSwitchActive(w http.ResponseWriter, r *http.Request) {
	var req switchActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid JSON body",
		})
		return
	}

	libraryID := ""
	if req.LibraryID != nil {
		libraryID = *req.LibraryID
	}

	prefs, err := h.libraries.SwitchActive(r.Context(), libraryID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}
