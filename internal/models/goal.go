package models

import "time"

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalFailed    GoalStatus = "failed"
	GoalArchived  GoalStatus = "archived"
)

// GoalType describes which journal metric a goal tracks and its default
// target rating.
type GoalType struct {
	Name          string `json:"name"`
	Metric        string `json:"metric"`
	DefaultTarget int    `json:"defaultTarget"`
}

// GoalTypes enumerates the supported goal kinds. Stress is the only metric
// where lower is better, hence the lower default target.
var GoalTypes = map[string]GoalType{
	"mood":     {Name: "Mood improvement", Metric: "mood", DefaultTarget: 4},
	"activity": {Name: "Activity level", Metric: "activity", DefaultTarget: 4},
	"sleep":    {Name: "Sleep quality", Metric: "sleep", DefaultTarget: 4},
	"social":   {Name: "Social interactions", Metric: "social", DefaultTarget: 4},
	"stress":   {Name: "Stress management", Metric: "stress", DefaultTarget: 2},
}

// Goal tracks a target average for one metric until a deadline.
type Goal struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	Target          int        `json:"target"`
	Deadline        time.Time  `json:"deadline"`
	CreatedAt       time.Time  `json:"createdAt"`
	Progress        int        `json:"progress"`
	Status          GoalStatus `json:"status"`
	AchievementDate *time.Time `json:"achievementDate,omitempty"`
}

// Validate checks the goal's type and target.
func (g *Goal) Validate() error {
	if _, ok := GoalTypes[g.Type]; !ok {
		return &ValidationError{Field: "type", Reason: "unknown goal type"}
	}
	if g.Target < MinRating || g.Target > MaxRating {
		return &ValidationError{Field: "target", Reason: "target must be a 1-5 rating"}
	}
	return nil
}
