package services

import (
	"context"
	"math"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/repository"
)

// Prediction is tomorrow's mood forecast derived from recent entries
// and, optionally, current weather.
type Prediction struct {
	Mood       string    `json:"mood"`
	Score      float64   `json:"score"`
	Confidence float64   `json:"confidence"`
	Trend      float64   `json:"trend"`
	Factors    []string  `json:"factors"`
	Date       time.Time `json:"date"`
}

// factor weights for the linear mood model.
var predictionWeights = map[string]float64{
	"weather":      0.20,
	"dayOfWeek":    0.10,
	"previousMood": 0.20,
	"stress":       0.15,
	"energy":       0.10,
	"activity":     0.10,
	"sleep":        0.10,
	"social":       0.05,
}

// dayFactors skews the score by weekday; weekends and Fridays rate
// higher, Sundays and Mondays lower.
var dayFactors = map[time.Weekday]float64{
	time.Sunday:    -0.10,
	time.Monday:    -0.05,
	time.Tuesday:   0,
	time.Wednesday: 0.05,
	time.Thursday:  0.10,
	time.Friday:    0.15,
	time.Saturday:  0.10,
}

// PredictionService computes a heuristic mood forecast.
type PredictionService struct {
	entryRepo *repository.EntryRepository
	clock     clock.Clock
}

func NewPredictionService(entryRepo *repository.EntryRepository, clk clock.Clock) *PredictionService {
	return &PredictionService{entryRepo: entryRepo, clock: clk}
}

// PredictTomorrow scores tomorrow's mood on [-1, 1] and maps it back to
// a mood label. Weather is optional; pass nil when unavailable.
func (s *PredictionService) PredictTomorrow(ctx context.Context, weather *Weather) (*Prediction, error) {
	entries, err := s.entryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	tomorrow := now.AddDate(0, 0, 1)

	if len(entries) < 3 {
		return &Prediction{
			Mood:       models.MoodLabels[3],
			Score:      0,
			Confidence: 0.3,
			Factors:    []string{"not enough entries yet"},
			Date:       tomorrow,
		}, nil
	}

	recent := lastN(entries, 7)
	score := 0.0
	factors := make([]string, 0, 4)

	// Previous mood, normalized from [1,5] to [-1,1].
	prevMood := float64(recent[len(recent)-1].Mood)
	score += predictionWeights["previousMood"] * ((prevMood - 3) / 2)

	score += predictionWeights["dayOfWeek"] * dayFactors[tomorrow.Weekday()]
	if dayFactors[tomorrow.Weekday()] > 0 {
		factors = append(factors, "favorable day of week")
	}

	for _, metric := range []string{"stress", "energy", "activity", "sleep", "social"} {
		avg := averageMetric(recent, metric)
		impact := (avg - 3) / 2
		if metric == "stress" {
			impact = -impact
		}
		score += predictionWeights[metric] * impact
		if impact > 0.25 {
			factors = append(factors, "strong recent "+metric)
		}
	}

	if weather != nil {
		ws := weatherScore(weather)
		score += predictionWeights["weather"] * ws
		if ws > 0 {
			factors = append(factors, "pleasant weather ahead")
		} else if ws < 0 {
			factors = append(factors, "unfavorable weather")
		}
	}

	score = clamp(score, -1, 1)

	return &Prediction{
		Mood:       moodLabelForScore(score),
		Score:      round2(score),
		Confidence: round2(confidence(recent, weather != nil)),
		Trend:      round2(MoodTrend(entries)),
		Factors:    factors,
		Date:       tomorrow,
	}, nil
}

// weatherScore rates conditions on [-1, 1].
func weatherScore(w *Weather) float64 {
	score := 0.0
	switch {
	case w.Temperature >= 18 && w.Temperature <= 25:
		score += 0.3
	case w.Temperature >= 15 && w.Temperature <= 28:
		score += 0.1
	default:
		score -= 0.2
	}
	switch w.Conditions {
	case "Clear":
		score += 0.3
	case "Rain", "Drizzle", "Thunderstorm", "Snow":
		score -= 0.2
	case "Cloudy", "Fog":
		score -= 0.1
	}
	return clamp(score, -1, 1)
}

// moodLabelForScore maps a [-1,1] score onto the five mood labels.
func moodLabelForScore(score float64) string {
	rating := int(math.Round((score+1)/2*4)) + 1
	if rating < models.MinRating {
		rating = models.MinRating
	}
	if rating > models.MaxRating {
		rating = models.MaxRating
	}
	return models.MoodLabels[rating]
}

// confidence grows with sample size and weather availability, and
// shrinks with recent mood volatility.
func confidence(recent []models.Entry, hasWeather bool) float64 {
	c := 0.5 + math.Min(0.2, float64(len(recent))*0.02)
	if hasWeather {
		c += 0.1
	}
	c -= moodStdDev(lastN(recent, 3)) * 0.1
	return clamp(c, 0.3, 0.95)
}

func averageMetric(entries []models.Entry, metric string) float64 {
	if len(entries) == 0 {
		return 3
	}
	sum := 0.0
	for _, e := range entries {
		sum += float64(e.Metric(metric))
	}
	return sum / float64(len(entries))
}

func moodStdDev(entries []models.Entry) float64 {
	if len(entries) < 2 {
		return 0
	}
	mean := averageMetric(entries, "mood")
	variance := 0.0
	for _, e := range entries {
		d := float64(e.Mood) - mean
		variance += d * d
	}
	variance /= float64(len(entries))
	return math.Sqrt(variance)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
