package models

import (
	"fmt"
	"time"
)

// Rating bounds for every journal metric.
const (
	MinRating = 1
	MaxRating = 5
)

// MoodLabels maps mood scores to the labels shown in the UI.
var MoodLabels = map[int]string{
	5: "great",
	4: "good",
	3: "neutral",
	2: "low",
	1: "bad",
}

// Entry is a single daily journal record. Every metric is a 1-5 rating.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Mood      int       `json:"mood"`
	Energy    int       `json:"energy"`
	Stress    int       `json:"stress"`
	Sleep     int       `json:"sleep"`
	Social    int       `json:"social"`
	Activity  int       `json:"activity"`
	Notes     string    `json:"notes,omitempty"`
}

// Validate checks that every rating is within bounds.
func (e *Entry) Validate() error {
	ratings := map[string]int{
		"mood":     e.Mood,
		"energy":   e.Energy,
		"stress":   e.Stress,
		"sleep":    e.Sleep,
		"social":   e.Social,
		"activity": e.Activity,
	}
	for field, value := range ratings {
		if value < MinRating || value > MaxRating {
			return &ValidationError{
				Field:  field,
				Reason: fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating),
			}
		}
	}
	return nil
}

// Metric returns the named rating. Unknown names return zero.
func (e *Entry) Metric(name string) int {
	switch name {
	case "mood":
		return e.Mood
	case "energy":
		return e.Energy
	case "stress":
		return e.Stress
	case "sleep":
		return e.Sleep
	case "social":
		return e.Social
	case "activity":
		return e.Activity
	default:
		return 0
	}
}
