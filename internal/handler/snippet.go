// Package handler contains the HTTP layer: it parses requests, calls the
// service layer, and writes JSON responses. No business rules live here —
// validation, read-only protection, and ranking all belong to the services.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/codespark/internal/service"
)

// SnippetHandler exposes search, suggestions, CRUD, and copy over HTTP.
type SnippetHandler struct {
	search   *service.SearchService
	top      *service.TopSnippetsService
	snippets *service.SnippetService
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(
	search *service.SearchService,
	top *service.TopSnippetsService,
	snippets *service.SnippetService,
	logger *slog.Logger,
) *SnippetHandler {
	return &SnippetHandler{
		search:   search,
		top:      top,
		snippets: snippets,
		logger:   logger,
	}
}

// HandleSearch handles GET /api/snippets?q=&library=&tag=&limit=.
// library and tag may repeat; all tags must match. A blank q surfaces the
// suggestions ranking instead of text matching.
func (h *SnippetHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := service.SearchInput{
		Query:      query.Get("q"),
		LibraryIDs: query["library"],
		Tags:       query["tag"],
		Limit:      parseLimit(query.Get("limit")),
	}

	results, err := h.search.Search(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// HandleSuggestions handles GET /api/snippets/suggestions — the ranked
// "top snippets" view (favorites + usage + recency) with the same filters
// as search.
func (h *SnippetHandler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	results, err := h.top.Execute(r.Context(), service.TopSnippetsInput{
		LibraryIDs: query["library"],
		Tags:       query["tag"],
		Limit:      parseLimit(query.Get("limit")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// createRequest is the JSON body for POST /api/snippets.
type createRequest struct {
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Shortcut    string   `json:"shortcut"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Language    string   `json:"language"`
	LibraryID   string   `json:"libraryId"`
	IsFavorite  bool     `json:"isFavorite"`
}

// HandleCreate handles POST /api/snippets.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid JSON body",
		})
		return
	}

	snippet, err := h.snippets.Create(r.Context(), service.CreateInput{
		Title:       req.Title,
		Body:        req.Body,
		Shortcut:    req.Shortcut,
		Description: req.Description,
		Tags:        req.Tags,
		Language:    req.Language,
		LibraryID:   req.LibraryID,
		IsFavorite:  req.IsFavorite,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// HandleGetByID handles GET /api/snippets/{id}.
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.snippets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// updateRequest mirrors service.UpdatePatch: pointer fields distinguish
// "absent from the JSON body" (nil, keep previous value) from "present"
// (replace, where an empty string clears nullable fields).
type updateRequest struct {
	Title       *string   `json:"title"`
	Body        *string   `json:"body"`
	Tags        *[]string `json:"tags"`
	Shortcut    *string   `json:"shortcut"`
	Description *string   `json:"description"`
	Language    *string   `json:"language"`
	IsFavorite  *bool     `json:"isFavorite"`
	LibraryID   *string   `json:"libraryId"`
}

// HandleUpdate handles PUT /api/snippets/{id}.
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid JSON body",
		})
		return
	}

	snippet, err := h.snippets.Update(r.Context(), chi.URLParam(r, "id"), service.UpdatePatch{
		Title:       req.Title,
		Body:        req.Body,
		Tags:        req.Tags,
		Shortcut:    req.Shortcut,
		Description: req.Description,
		Language:    req.Language,
		IsFavorite:  req.IsFavorite,
		LibraryID:   req.LibraryID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete handles DELETE /api/snippets/{id}.
// Returns the deleted snippet's prior state so the caller can offer undo.
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.snippets.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleCopy handles POST /api/snippets/{id}/copy: clipboard first, then
// usage bookkeeping. A clipboard failure maps to 502 with no stats change.
func (h *SnippetHandler) HandleCopy(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.snippets.Copy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// parseLimit parses the limit query parameter; anything unusable means "no limit".
func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
