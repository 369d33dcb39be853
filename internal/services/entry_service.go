package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/repository"
)

// ErrEntryNotFound is returned for operations on an unknown entry id.
var ErrEntryNotFound = errors.New("entry not found")

// Period filters accepted by the listing and export endpoints.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

var periodDays = map[string]int{
	PeriodWeek:  7,
	PeriodMonth: 30,
	PeriodYear:  365,
}

// EntryService manages the journal entries.
type EntryService struct {
	repo  *repository.EntryRepository
	clock clock.Clock
}

func NewEntryService(repo *repository.EntryRepository, clk clock.Clock) *EntryService {
	return &EntryService{repo: repo, clock: clk}
}

// EntryInput is the user-supplied part of an entry.
type EntryInput struct {
	Mood     int    `json:"mood"`
	Energy   int    `json:"energy"`
	Stress   int    `json:"stress"`
	Sleep    int    `json:"sleep"`
	Social   int    `json:"social"`
	Activity int    `json:"activity"`
	Notes    string `json:"notes"`
}

// Add validates and appends a new entry stamped with the current instant.
func (s *EntryService) Add(ctx context.Context, input EntryInput) (*models.Entry, error) {
	entry := models.Entry{
		ID:        uuid.NewString(),
		Timestamp: s.clock.Now(),
		Mood:      input.Mood,
		Energy:    input.Energy,
		Stress:    input.Stress,
		Sleep:     input.Sleep,
		Social:    input.Social,
		Activity:  input.Activity,
		Notes:     input.Notes,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	entries = append(entries, entry)
	if err := s.repo.SaveAll(ctx, entries); err != nil {
		return nil, err
	}

	logrus.WithField("entryID", entry.ID).Info("Journal entry recorded")
	return &entry, nil
}

// Get returns entries, newest last, filtered by period ("week", "month",
// "year"; anything else means everything).
func (s *EntryService) Get(ctx context.Context, period string) ([]models.Entry, error) {
	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByPeriod(entries, period, s.clock.Now()), nil
}

// Delete removes an entry by id.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, entry := range entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		return fmt.Errorf("delete %q: %w", id, ErrEntryNotFound)
	}
	return s.repo.SaveAll(ctx, kept)
}

// HasEntryOn reports whether any entry was recorded on the same calendar
// day as the given instant.
func (s *EntryService) HasEntryOn(ctx context.Context, day time.Time) (bool, error) {
	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if sameCalendarDay(entry.Timestamp, day) {
			return true, nil
		}
	}
	return false, nil
}

// FilterByPeriod keeps entries newer than the period's cutoff. Unknown
// periods (including "all" and "") keep everything.
func FilterByPeriod(entries []models.Entry, period string, now time.Time) []models.Entry {
	days, ok := periodDays[period]
	if !ok {
		return entries
	}
	cutoff := now.AddDate(0, 0, -days)

	filtered := make([]models.Entry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Timestamp.Before(cutoff) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func sameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
