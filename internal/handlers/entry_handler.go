package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/services"
)

// EntryHandler handles HTTP requests related to journal entries.
type EntryHandler struct {
	Service *services.EntryService
	Stats   *services.StatsService
	Goals   *services.GoalService
}

// NewEntryHandler creates a new instance of EntryHandler.
func NewEntryHandler(service *services.EntryService, stats *services.StatsService, goals *services.GoalService) *EntryHandler {
	return &EntryHandler{Service: service, Stats: stats, Goals: goals}
}

// CreateEntryHandler records a new journal entry.
func (h *EntryHandler) CreateEntryHandler(w http.ResponseWriter, r *http.Request) {
	var input services.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during entry creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	entry, err := h.Service.Add(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	// New data can complete a goal; refresh progress right away.
	if _, err := h.Goals.UpdateProgress(r.Context()); err != nil {
		logrus.WithError(err).Warn("Failed to refresh goal progress")
	}

	logrus.WithField("entryID", entry.ID).Info("Entry created")
	writeJSON(w, http.StatusCreated, entry)
}

// GetEntriesHandler lists entries, optionally filtered by period.
func (h *EntryHandler) GetEntriesHandler(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")

	entries, err := h.Service.Get(r.Context(), period)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// DeleteEntryHandler removes an entry by its ID.
func (h *EntryHandler) DeleteEntryHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("entryID", id).Info("Entry deleted")
	w.WriteHeader(http.StatusNoContent)
}

// GetStatsHandler returns the per-metric averages and mood trend for a
// period.
func (h *EntryHandler) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = services.PeriodWeek
	}

	summary, err := h.Stats.Summarize(r.Context(), period)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
