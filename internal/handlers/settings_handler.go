package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/services"
)

// SettingsHandler handles the daily mood-check configuration.
type SettingsHandler struct {
	Service *services.SettingsService
}

// NewSettingsHandler creates a new instance of SettingsHandler.
func NewSettingsHandler(service *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{Service: service}
}

// GetSettingsHandler returns the stored settings.
func (h *SettingsHandler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.Get(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettingsHandler merges changes and re-arms the mood-check alarm.
func (h *SettingsHandler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var update services.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logrus.WithError(err).Warn("Invalid settings payload")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	settings, err := h.Service.Update(r.Context(), update)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("reminderTime", settings.ReminderTime).Info("Settings updated")
	writeJSON(w, http.StatusOK, settings)
}
