package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/services"
)

// SubscriptionHandler handles the trial and the simulated checkout.
type SubscriptionHandler struct {
	Service *services.SubscriptionService
}

// NewSubscriptionHandler creates a new instance of SubscriptionHandler.
func NewSubscriptionHandler(service *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{Service: service}
}

// StartTrialHandler begins the free trial.
func (h *SubscriptionHandler) StartTrialHandler(w http.ResponseWriter, r *http.Request) {
	sub, err := h.Service.StartTrial(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// PurchaseHandler simulates a successful checkout for a plan.
func (h *SubscriptionHandler) PurchaseHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logrus.WithError(err).Warn("Invalid purchase payload")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	sub, err := h.Service.Purchase(r.Context(), req.Plan)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithField("plan", req.Plan).Info("Plan purchased")
	writeJSON(w, http.StatusOK, sub)
}

// GetStatusHandler reports the current premium/trial state.
func (h *SubscriptionHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := h.Service.Status(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
