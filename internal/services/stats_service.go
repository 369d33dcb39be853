package services

import (
	"context"
	"math"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/repository"
)

// StatsService computes the aggregates behind the trend charts.
type StatsService struct {
	repo  *repository.EntryRepository
	clock clock.Clock
}

func NewStatsService(repo *repository.EntryRepository, clk clock.Clock) *StatsService {
	return &StatsService{repo: repo, clock: clk}
}

// Summary aggregates one period of entries.
type Summary struct {
	Period   string             `json:"period"`
	Count    int                `json:"count"`
	Averages map[string]float64 `json:"averages"`
	// MoodTrend is the average mood delta between consecutive entries
	// over the last seven entries; positive means improving.
	MoodTrend float64 `json:"moodTrend"`
	// BestDay and WorstDay are the weekdays with the highest and lowest
	// average mood in the period. Empty when there are no entries.
	BestDay  string `json:"bestDay,omitempty"`
	WorstDay string `json:"worstDay,omitempty"`
}

var summaryMetrics = []string{"mood", "energy", "stress", "sleep", "social", "activity"}

// Summarize computes per-metric averages and the recent mood trend for
// the requested period.
func (s *StatsService) Summarize(ctx context.Context, period string) (*Summary, error) {
	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	entries = FilterByPeriod(entries, period, s.clock.Now())

	summary := &Summary{
		Period:   period,
		Count:    len(entries),
		Averages: make(map[string]float64, len(summaryMetrics)),
	}
	if len(entries) == 0 {
		return summary, nil
	}

	for _, metric := range summaryMetrics {
		total := 0
		for _, entry := range entries {
			total += entry.Metric(metric)
		}
		summary.Averages[metric] = round2(float64(total) / float64(len(entries)))
	}
	summary.MoodTrend = round2(MoodTrend(entries))
	summary.BestDay, summary.WorstDay = moodByWeekday(entries)
	return summary, nil
}

// moodByWeekday names the weekdays with the highest and lowest average
// mood. Ties go to the earlier weekday.
func moodByWeekday(entries []models.Entry) (best, worst string) {
	var sums, counts [7]int
	for _, entry := range entries {
		day := int(entry.Timestamp.Weekday())
		sums[day] += entry.Mood
		counts[day]++
	}

	bestAvg, worstAvg := -1.0, -1.0
	for day := 0; day < 7; day++ {
		if counts[day] == 0 {
			continue
		}
		avg := float64(sums[day]) / float64(counts[day])
		if bestAvg < 0 || avg > bestAvg {
			bestAvg = avg
			best = time.Weekday(day).String()
		}
		if worstAvg < 0 || avg < worstAvg {
			worstAvg = avg
			worst = time.Weekday(day).String()
		}
	}
	return best, worst
}

// MoodTrend averages the mood delta between consecutive entries over the
// last seven entries. Fewer than two entries have no trend.
func MoodTrend(entries []models.Entry) float64 {
	recent := lastN(entries, 7)
	if len(recent) < 2 {
		return 0
	}
	trend := 0.0
	for i := 1; i < len(recent); i++ {
		trend += float64(recent[i].Mood - recent[i-1].Mood)
	}
	return trend / float64(len(recent)-1)
}

func lastN(entries []models.Entry, n int) []models.Entry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
