package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clemarais/moodjournal/internal/services"
)

// SuggestionHandler serves the premium wellbeing suggestions.
type SuggestionHandler struct {
	Service *services.SuggestionService
}

// NewSuggestionHandler creates a new instance of SuggestionHandler.
func NewSuggestionHandler(service *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{Service: service}
}

// GetSuggestionsHandler returns suggestions matched to the recent
// journal, best first.
func (h *SuggestionHandler) GetSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.Service.GetSuggestions(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// MarkTriedHandler records that the user attempted a suggestion.
func (h *SuggestionHandler) MarkTriedHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Service.MarkTried(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
