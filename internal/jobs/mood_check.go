package jobs

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/notify"
	"github.com/clemarais/moodjournal/internal/services"
)

const (
	moodCheckID    = "moodCheck"
	moodCheckTitle = "Mood Journal"
	moodCheckBody  = "How are you feeling today? Take a moment to record your mood."
)

// MoodCheck is the built-in daily check-in: it nudges the user once per
// day at the configured reminder time, unless an entry already exists for
// that day.
type MoodCheck struct {
	Settings *services.SettingsService
	Entries  *services.EntryService
	Notifier notify.Notifier
	Clock    clock.Clock
}

func NewMoodCheck(settings *services.SettingsService, entries *services.EntryService, notifier notify.Notifier, clk clock.Clock) *MoodCheck {
	return &MoodCheck{
		Settings: settings,
		Entries:  entries,
		Notifier: notifier,
		Clock:    clk,
	}
}

// Run fires the daily check-in if it is due. It is safe to call more than
// once per day: the notification date stamp keeps it to one nudge.
func (m *MoodCheck) Run(ctx context.Context) error {
	settings, err := m.Settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.ReminderEnabled {
		return nil
	}

	now := m.Clock.Now()
	today := now.Format("2006-01-02")
	if settings.LastNotificationDate == today {
		return nil
	}

	hasEntry, err := m.Entries.HasEntryOn(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to check today's entries: %w", err)
	}
	if hasEntry {
		logrus.Debug("Mood check skipped: entry already recorded today")
		return nil
	}

	if err := m.Notifier.Show(moodCheckID, notify.Notification{
		Title: moodCheckTitle,
		Body:  moodCheckBody,
	}); err != nil {
		return fmt.Errorf("failed to show mood check: %w", err)
	}
	if err := m.Settings.MarkNotified(ctx, now); err != nil {
		return err
	}

	logrus.Info("Mood check notification sent")
	return nil
}
