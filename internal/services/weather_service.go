package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultWeatherBaseURL is the open-meteo forecast API.
const DefaultWeatherBaseURL = "https://api.open-meteo.com/v1"

// Weather is the condensed report used by the prediction heuristic and
// the UI.
type Weather struct {
	Temperature   int    `json:"temperature"`
	Conditions    string `json:"conditions"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	IsGoodWeather bool   `json:"isGoodWeather"`
}

// wmoConditions maps WMO weather codes to coarse condition buckets.
var wmoConditions = map[int]string{
	0:  "Clear",
	1:  "PartlyCloudy",
	2:  "PartlyCloudy",
	3:  "Cloudy",
	45: "Fog",
	48: "Fog",
	51: "Drizzle",
	53: "Drizzle",
	55: "Drizzle",
	61: "Rain",
	63: "Rain",
	65: "Rain",
	71: "Snow",
	73: "Snow",
	75: "Snow",
	95: "Thunderstorm",
	96: "Thunderstorm",
	99: "Thunderstorm",
}

var conditionDescriptions = map[string]string{
	"Clear":        "Clear sky",
	"PartlyCloudy": "Partly cloudy",
	"Cloudy":       "Overcast",
	"Rain":         "Rainy",
	"Snow":         "Snowy",
	"Thunderstorm": "Stormy",
	"Drizzle":      "Drizzle",
	"Fog":          "Foggy",
}

var conditionIcons = map[string]string{
	"Clear":        "☀️",
	"PartlyCloudy": "🌤️",
	"Cloudy":       "☁️",
	"Rain":         "🌧️",
	"Snow":         "🌨️",
	"Thunderstorm": "⛈️",
	"Drizzle":      "🌦️",
	"Fog":          "🌫️",
}

const defaultIcon = "🌤️"

// WeatherService fetches current conditions from open-meteo.
type WeatherService struct {
	client  *http.Client
	baseURL string
}

func NewWeatherService(client *http.Client, baseURL string) *WeatherService {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultWeatherBaseURL
	}
	return &WeatherService{client: client, baseURL: baseURL}
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Current returns the current weather at the given coordinates.
func (s *WeatherService) Current(ctx context.Context, lat, lon float64) (*Weather, error) {
	query := url.Values{
		"latitude":        []string{strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":       []string{strconv.FormatFloat(lon, 'f', -1, 64)},
		"current_weather": []string{"true"},
		"timezone":        []string{"auto"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/forecast?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var forecast forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	return formatWeather(forecast), nil
}

func formatWeather(forecast forecastResponse) *Weather {
	conditions, ok := wmoConditions[forecast.CurrentWeather.WeatherCode]
	if !ok {
		conditions = "Clear"
	}
	temperature := int(math.Round(forecast.CurrentWeather.Temperature))

	icon, ok := conditionIcons[conditions]
	if !ok {
		icon = defaultIcon
	}
	return &Weather{
		Temperature:   temperature,
		Conditions:    conditions,
		Description:   conditionDescriptions[conditions],
		Icon:          icon,
		IsGoodWeather: isGoodWeather(temperature, conditions),
	}
}

func isGoodWeather(temperature int, conditions string) bool {
	if temperature < 15 || temperature > 25 {
		return false
	}
	switch conditions {
	case "Rain", "Snow", "Thunderstorm", "Fog":
		return false
	default:
		return true
	}
}
