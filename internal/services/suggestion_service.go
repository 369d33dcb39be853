package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/repository"
)

// ErrSuggestionNotFound is returned when a suggestion id is unknown.
var ErrSuggestionNotFound = errors.New("suggestion not found")

const (
	maxSuggestions = 5
	maxTried       = 50
	lowMoodMax     = 2
	goodMoodMin    = 4
)

// triggerKeywords are scanned for in the notes of low-mood entries.
var triggerKeywords = []string{"stress", "work", "fatigue", "conflict", "sleep"}

// suggestionCatalog is the built-in set of wellbeing recommendations,
// gated on recent metric averages.
var suggestionCatalog = []models.Suggestion{
	{
		ID:          "mood_1",
		Category:    "mood",
		Title:       "Guided meditation",
		Description: "Ten minutes of guided mindfulness meditation to ease a low mood.",
		Steps: []string{
			"Find a quiet spot and sit comfortably",
			"Follow a ten-minute guided session",
			"Note how you feel afterwards",
		},
		Source:     "INSERM",
		Duration:   "10 minutes",
		Impact:     0.8,
		Conditions: map[string]models.MetricRange{"mood": {Below: 3}, "stress": {Above: 3}},
	},
	{
		ID:          "mood_2",
		Category:    "mood",
		Title:       "Gratitude journal",
		Description: "Write down three positive things from your day.",
		Steps: []string{
			"Take five minutes in the evening",
			"List three things that went well",
			"Add why each one mattered to you",
		},
		Source:     "HAS",
		Duration:   "5 minutes",
		Impact:     0.6,
		Conditions: map[string]models.MetricRange{"mood": {Below: 4}},
	},
	{
		ID:          "mood_3",
		Category:    "mood",
		Title:       "Mindful walk",
		Description: "A fifteen-minute walk focused on your senses and surroundings.",
		Steps: []string{
			"Leave your phone in your pocket",
			"Walk at an easy pace for fifteen minutes",
			"Pay attention to sounds, light and your breathing",
		},
		Source:     "Ameli",
		Duration:   "15 minutes",
		Impact:     0.7,
		Conditions: map[string]models.MetricRange{"mood": {Below: 3}},
	},
	{
		ID:          "sleep_1",
		Category:    "sleep",
		Title:       "Wind-down routine",
		Description: "A fixed routine in the hour before bed to improve sleep quality.",
		Steps: []string{
			"Stop screens an hour before bed",
			"Dim the lights and keep the room cool",
			"Go to bed at the same time every night",
		},
		Source:     "INSERM",
		Duration:   "1 hour",
		Impact:     0.7,
		Conditions: map[string]models.MetricRange{"sleep": {Below: 3}},
	},
	{
		ID:          "stress_1",
		Category:    "stress",
		Title:       "4-7-8 breathing",
		Description: "Breathe in for 4 counts, hold for 7, breathe out for 8.",
		Steps: []string{
			"Sit upright and exhale fully",
			"Inhale through the nose for 4 counts",
			"Hold for 7 counts, exhale slowly for 8",
			"Repeat four times",
		},
		Source:     "Santé Publique France",
		Duration:   "5 minutes",
		Impact:     0.9,
		Warning:    "Stop if you feel dizzy.",
		Conditions: map[string]models.MetricRange{"stress": {Above: 3}},
	},
	{
		ID:          "activity_1",
		Category:    "activity",
		Title:       "Morning stretches",
		Description: "A short series of gentle stretches to start the day moving.",
		Steps: []string{
			"Stretch your neck, shoulders and back",
			"Hold each stretch for twenty seconds",
			"Breathe slowly throughout",
		},
		Source:     "INSERM",
		Duration:   "10 minutes",
		Impact:     0.5,
		Conditions: map[string]models.MetricRange{"activity": {Below: 3}},
	},
	{
		ID:          "social_1",
		Category:    "social",
		Title:       "Reach out to someone",
		Description: "A short call or message to a friend or family member.",
		Steps: []string{
			"Pick someone you have not talked to in a while",
			"Send a message or call for a few minutes",
		},
		Source:     "Santé Publique France",
		Duration:   "10 minutes",
		Impact:     0.6,
		Conditions: map[string]models.MetricRange{"social": {Below: 3}},
	},
}

// WellbeingStats summarizes the recent journal for suggestion matching.
type WellbeingStats struct {
	Metrics              map[string]float64 `json:"metrics"`
	CommonTriggers       []string           `json:"commonTriggers,omitempty"`
	SuccessfulStrategies []string           `json:"successfulStrategies,omitempty"`
}

// SuggestionService picks wellbeing suggestions for the user's recent
// journal state. Premium feature.
type SuggestionService struct {
	entries *repository.EntryRepository
	tried   *repository.SuggestionRepository
	clock   clock.Clock
}

func NewSuggestionService(entries *repository.EntryRepository, tried *repository.SuggestionRepository, clk clock.Clock) *SuggestionService {
	return &SuggestionService{entries: entries, tried: tried, clock: clk}
}

// Analyze computes metric averages, common triggers and successful
// strategies over the last month of entries. Without history every
// metric defaults to the neutral midpoint.
func (s *SuggestionService) Analyze(ctx context.Context) (*WellbeingStats, error) {
	entries, err := s.entries.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	entries = FilterByPeriod(entries, PeriodMonth, s.clock.Now())

	stats := &WellbeingStats{Metrics: make(map[string]float64, len(summaryMetrics))}
	if len(entries) == 0 {
		for _, metric := range summaryMetrics {
			stats.Metrics[metric] = 3
		}
		return stats, nil
	}

	for _, metric := range summaryMetrics {
		total := 0
		for _, entry := range entries {
			total += entry.Metric(metric)
		}
		stats.Metrics[metric] = round2(float64(total) / float64(len(entries)))
	}
	stats.CommonTriggers = commonTriggers(entries)
	stats.SuccessfulStrategies = successfulStrategies(entries)
	return stats, nil
}

// GetSuggestions returns the top suggestions for the current journal
// state, ordered by priority. When nothing in the catalog matches the
// user's averages the whole catalog is considered instead.
func (s *SuggestionService) GetSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	stats, err := s.Analyze(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Suggestion, 0, len(suggestionCatalog))
	for _, suggestion := range suggestionCatalog {
		if suggestion.Matches(stats.Metrics) {
			matched = append(matched, suggestion)
		}
	}
	if len(matched) == 0 {
		matched = append(matched, suggestionCatalog...)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return s.priority(&matched[i], stats) > s.priority(&matched[j], stats)
	})
	if len(matched) > maxSuggestions {
		matched = matched[:maxSuggestions]
	}
	return matched, nil
}

// MarkTried records that the user attempted a suggestion, keeping the
// most recent attempts.
func (s *SuggestionService) MarkTried(ctx context.Context, id string) error {
	if !inCatalog(id) {
		return ErrSuggestionNotFound
	}

	tried, err := s.tried.GetTried(ctx)
	if err != nil {
		return err
	}
	tried = append(tried, models.TriedSuggestion{ID: id, Timestamp: s.clock.Now()})
	if len(tried) > maxTried {
		tried = tried[len(tried)-maxTried:]
	}
	if err := s.tried.SaveTried(ctx, tried); err != nil {
		return err
	}
	logrus.WithField("suggestionId", id).Info("Suggestion marked as tried")
	return nil
}

// priority weights a suggestion by its expected impact, boosted when
// its category targets the user's weakest metric.
func (s *SuggestionService) priority(suggestion *models.Suggestion, stats *WellbeingStats) float64 {
	priority := suggestion.Impact
	if suggestion.Category == "stress" && stats.Metrics["stress"] > 3 {
		priority *= 1.5
	}
	if suggestion.Category == "sleep" && stats.Metrics["sleep"] < 3 {
		priority *= 1.3
	}
	return priority
}

// commonTriggers extracts the most frequent keywords from the notes of
// low-mood entries.
func commonTriggers(entries []models.Entry) []string {
	counts := make(map[string]int)
	for _, entry := range entries {
		if entry.Mood > lowMoodMax || entry.Notes == "" {
			continue
		}
		notes := strings.ToLower(entry.Notes)
		for _, keyword := range triggerKeywords {
			if strings.Contains(notes, keyword) {
				counts[keyword]++
			}
		}
	}

	triggers := make([]string, 0, len(counts))
	for keyword := range counts {
		triggers = append(triggers, keyword)
	}
	sort.Slice(triggers, func(i, j int) bool {
		if counts[triggers[i]] != counts[triggers[j]] {
			return counts[triggers[i]] > counts[triggers[j]]
		}
		return triggers[i] < triggers[j]
	})
	if len(triggers) > 3 {
		triggers = triggers[:3]
	}
	return triggers
}

// successfulStrategies reports which habits coincide with the user's
// good days.
func successfulStrategies(entries []models.Entry) []string {
	seen := make(map[string]bool)
	var strategies []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			strategies = append(strategies, name)
		}
	}
	for _, entry := range entries {
		if entry.Mood < goodMoodMin {
			continue
		}
		if entry.Activity >= 4 {
			add("physical activity")
		}
		if entry.Social >= 4 {
			add("social interaction")
		}
		if entry.Sleep >= 4 {
			add("good sleep")
		}
	}
	return strategies
}

func inCatalog(id string) bool {
	for i := range suggestionCatalog {
		if suggestionCatalog[i].ID == id {
			return true
		}
	}
	return false
}
