package services

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/alarms"
	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/repository"
)

// MoodCheckAlarm is the named alarm for the built-in daily mood check.
const MoodCheckAlarm = "moodCheckReminder"

// SettingsUpdate carries the fields a caller may change. Nil fields are
// left untouched.
type SettingsUpdate struct {
	ReminderEnabled *bool   `json:"reminderEnabled,omitempty"`
	ReminderTime    *string `json:"reminderTime,omitempty"`
}

// SettingsService owns the mood-check settings and keeps the daily
// mood-check alarm in sync with them.
type SettingsService struct {
	repo   *repository.SettingsRepository
	alarms alarms.Registry
	clock  clock.Clock
}

func NewSettingsService(repo *repository.SettingsRepository, registry alarms.Registry, clk clock.Clock) *SettingsService {
	return &SettingsService{repo: repo, alarms: registry, clock: clk}
}

func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	return s.repo.Get(ctx)
}

// Update merges the given changes, persists them and re-arms the daily
// mood-check alarm.
func (s *SettingsService) Update(ctx context.Context, update SettingsUpdate) (models.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if update.ReminderEnabled != nil {
		settings.ReminderEnabled = *update.ReminderEnabled
	}
	if update.ReminderTime != nil {
		settings.ReminderTime = *update.ReminderTime
	}
	if settings.ReminderTime == "" {
		settings.ReminderTime = models.DefaultReminderTime
	}
	if err := settings.Validate(); err != nil {
		return models.Settings{}, err
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return models.Settings{}, err
	}
	if err := s.armMoodCheck(settings); err != nil {
		return models.Settings{}, err
	}
	logrus.WithField("reminderTime", settings.ReminderTime).Info("Settings updated")
	return settings, nil
}

// Start seeds default settings on first run and arms the mood-check
// alarm.
func (s *SettingsService) Start(ctx context.Context) error {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return err
	}
	return s.armMoodCheck(settings)
}

// MarkNotified stamps the calendar date of the last mood-check
// notification.
func (s *SettingsService) MarkNotified(ctx context.Context, day time.Time) error {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	settings.LastNotificationDate = day.Format("2006-01-02")
	return s.repo.Save(ctx, settings)
}

func (s *SettingsService) armMoodCheck(settings models.Settings) error {
	if !settings.ReminderEnabled {
		return s.alarms.Cancel(MoodCheckAlarm)
	}
	next, err := models.NextTimeOfDay(settings.ReminderTime, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to schedule mood check: %w", err)
	}
	if err := s.alarms.Cancel(MoodCheckAlarm); err != nil {
		return err
	}
	return s.alarms.Schedule(MoodCheckAlarm, alarms.Options{
		InitialDelay: next.Sub(s.clock.Now()),
		Period:       24 * time.Hour,
	})
}
