package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/services"
)

var errInvalidCoordinate = errors.New("lat and lon must be valid coordinates")

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Failed to encode response")
	}
}

// respondError maps service errors onto HTTP statuses: validation
// failures are the client's fault, unknown ids are 404, the rest is ours.
func respondError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrReminderNotFound),
		errors.Is(err, services.ErrEntryNotFound),
		errors.Is(err, services.ErrGoalNotFound),
		errors.Is(err, services.ErrSuggestionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		logrus.WithError(err).Error("Request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
