package handlers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/services"
)

// WeatherHandler exposes the current conditions behind the prediction.
type WeatherHandler struct {
	Service *services.WeatherService
}

// NewWeatherHandler creates a new instance of WeatherHandler.
func NewWeatherHandler(service *services.WeatherService) *WeatherHandler {
	return &WeatherHandler{Service: service}
}

// GetWeatherHandler fetches the current weather for the given coordinates.
func (h *WeatherHandler) GetWeatherHandler(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := parseCoordinates(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	weather, err := h.Service.Current(r.Context(), lat, lon)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch weather")
		http.Error(w, "Failed to fetch weather", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, weather)
}

func parseCoordinates(r *http.Request) (float64, float64, error) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		return 0, 0, errInvalidCoordinate
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		return 0, 0, errInvalidCoordinate
	}
	return lat, lon, nil
}
