package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/services"
)

// PredictionHandler serves the premium mood forecast.
type PredictionHandler struct {
	Service *services.PredictionService
	Weather *services.WeatherService
}

// NewPredictionHandler creates a new instance of PredictionHandler.
func NewPredictionHandler(service *services.PredictionService, weather *services.WeatherService) *PredictionHandler {
	return &PredictionHandler{Service: service, Weather: weather}
}

// PredictHandler forecasts tomorrow's mood. Coordinates are optional;
// without them (or when the weather fetch fails) the forecast is computed
// from journal history alone.
func (h *PredictionHandler) PredictHandler(w http.ResponseWriter, r *http.Request) {
	var weather *services.Weather
	if lat, lon, err := parseCoordinates(r); err == nil {
		weather, err = h.Weather.Current(r.Context(), lat, lon)
		if err != nil {
			logrus.WithError(err).Warn("Weather unavailable, predicting without it")
			weather = nil
		}
	}

	prediction, err := h.Service.PredictTomorrow(r.Context(), weather)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}
