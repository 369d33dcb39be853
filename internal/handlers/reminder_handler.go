package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/services"
)

// ReminderHandler handles HTTP requests related to reminders.
type ReminderHandler struct {
	Service *services.ReminderService
}

// NewReminderHandler creates a new instance of ReminderHandler.
func NewReminderHandler(service *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{Service: service}
}

// CreateReminderHandler handles the creation of a new reminder.
func (h *ReminderHandler) CreateReminderHandler(w http.ResponseWriter, r *http.Request) {
	var input services.ReminderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during reminder creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	reminder, err := h.Service.Add(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("reminderID", reminder.ID).Info("Reminder created")
	writeJSON(w, http.StatusCreated, reminder)
}

// GetRemindersHandler lists every stored reminder.
func (h *ReminderHandler) GetRemindersHandler(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.Service.GetAll(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

// UpdateReminderHandler merges a partial update into a reminder.
func (h *ReminderHandler) UpdateReminderHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var update services.ReminderUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logrus.WithError(err).Warn("Invalid update payload")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	reminder, err := h.Service.Edit(r.Context(), id, update)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("reminderID", id).Info("Reminder updated")
	writeJSON(w, http.StatusOK, reminder)
}

// ToggleReminderHandler switches a reminder on or off.
func (h *ReminderHandler) ToggleReminderHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logrus.WithError(err).Warn("Invalid toggle payload")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	reminder, err := h.Service.Toggle(r.Context(), id, body.Active)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{"reminderID": id, "active": body.Active}).Info("Reminder toggled")
	writeJSON(w, http.StatusOK, reminder)
}

// DeleteReminderHandler removes a reminder and its alarm.
func (h *ReminderHandler) DeleteReminderHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("reminderID", id).Info("Reminder deleted")
	w.WriteHeader(http.StatusNoContent)
}
