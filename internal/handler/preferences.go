package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/codespark/internal/model"
	"github.com/sakif/codespark/internal/service"
)

// PreferencesHandler exposes the user preferences blob.
type PreferencesHandler struct {
	prefs  *service.PreferencesService
	logger *slog.Logger
}

// NewPreferencesHandler creates a PreferencesHandler.
func NewPreferencesHandler(prefs *service.PreferencesService, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs, logger: logger}
}

// HandleGet handles GET /api/preferences. Defaults are returned when the
// user has never saved anything.
func (h *PreferencesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

// HandleSave handles PUT /api/preferences with a full snapshot.
func (h *PreferencesHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var prefs model.UserPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid JSON body",
		})
		return
	}

	if err := h.prefs.Save(r.Context(), prefs); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}
