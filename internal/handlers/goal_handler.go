package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/services"
)

// GoalHandler handles HTTP requests related to metric goals.
type GoalHandler struct {
	Service *services.GoalService
}

// NewGoalHandler creates a new instance of GoalHandler.
func NewGoalHandler(service *services.GoalService) *GoalHandler {
	return &GoalHandler{Service: service}
}

type goalRequest struct {
	Type     string    `json:"type"`
	Target   int       `json:"target"`
	Deadline time.Time `json:"deadline"`
}

// CreateGoalHandler handles the creation of a new goal.
func (h *GoalHandler) CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during goal creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	goal, err := h.Service.Set(r.Context(), req.Type, req.Target, req.Deadline)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{"goalID": goal.ID, "type": goal.Type}).Info("Goal created")
	writeJSON(w, http.StatusCreated, goal)
}

// GetGoalsHandler lists every goal with its current progress.
func (h *GoalHandler) GetGoalsHandler(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Service.UpdateProgress(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

// UpdateGoalHandler merges a partial update into a goal.
func (h *GoalHandler) UpdateGoalHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Target   *int       `json:"target"`
		Deadline *time.Time `json:"deadline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logrus.WithError(err).Warn("Invalid update payload")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	goal, err := h.Service.Edit(r.Context(), id, req.Target, req.Deadline)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("goalID", id).Info("Goal updated")
	writeJSON(w, http.StatusOK, goal)
}

// ArchiveGoalHandler puts a goal out of progress tracking.
func (h *GoalHandler) ArchiveGoalHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.Archive(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("goalID", id).Info("Goal archived")
	w.WriteHeader(http.StatusNoContent)
}

// DeleteGoalHandler removes a goal.
func (h *GoalHandler) DeleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("goalID", id).Info("Goal deleted")
	w.WriteHeader(http.StatusNoContent)
}
