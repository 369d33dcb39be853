package models

import "time"

// Suggestion is a canned wellbeing recommendation shown to premium users.
type Suggestion struct {
	ID          string                 `json:"id"`
	Category    string                 `json:"category"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Steps       []string               `json:"steps,omitempty"`
	Source      string                 `json:"source"`
	Duration    string                 `json:"duration"`
	Impact      float64                `json:"impact"`
	Warning     string                 `json:"warning,omitempty"`
	Conditions  map[string]MetricRange `json:"conditions,omitempty"`
}

// MetricRange gates a suggestion on a metric average. A zero bound is
// unset; metric averages are always at least 1.
type MetricRange struct {
	Below float64 `json:"below,omitempty"`
	Above float64 `json:"above,omitempty"`
}

// Matches reports whether every condition holds for the given metric
// averages. A suggestion without conditions matches everything.
func (s *Suggestion) Matches(metrics map[string]float64) bool {
	for metric, bounds := range s.Conditions {
		value := metrics[metric]
		if bounds.Below > 0 && value >= bounds.Below {
			return false
		}
		if bounds.Above > 0 && value <= bounds.Above {
			return false
		}
	}
	return true
}

// TriedSuggestion records that the user attempted a suggestion.
type TriedSuggestion struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}
