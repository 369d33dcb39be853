package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/alarms"
	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/notify"
	"github.com/clemarais/moodjournal/internal/repository"
)

// Alarm names owned by the reminder scheduler. SweepAlarm is the generic
// once-a-minute due check; per-reminder alarms are a best-effort early
// trigger on top of it.
const (
	SweepAlarm          = "checkReminders"
	ReminderAlarmPrefix = "reminder_"
	sweepPeriod         = time.Minute

	// DefaultReminderMessage is shown when a reminder has no message.
	DefaultReminderMessage = "Don't forget to update your journal!"
	reminderTitle          = "Mood Journal Reminder"
)

// ErrReminderNotFound is returned for operations on an unknown reminder id.
var ErrReminderNotFound = errors.New("reminder not found")

// ReminderService owns the reminder collection: CRUD, the periodic due
// sweep, and the alarm bookkeeping that keeps the wake facility in sync
// with each reminder's configuration.
type ReminderService struct {
	repo     *repository.ReminderRepository
	alarms   alarms.Registry
	notifier notify.Notifier
	clock    clock.Clock
}

func NewReminderService(repo *repository.ReminderRepository, registry alarms.Registry, notifier notify.Notifier, clk clock.Clock) *ReminderService {
	return &ReminderService{
		repo:     repo,
		alarms:   registry,
		notifier: notifier,
		clock:    clk,
	}
}

// ReminderInput is the user-configurable part of a reminder.
type ReminderInput struct {
	Message        string               `json:"message"`
	Date           string               `json:"date"`
	Time           string               `json:"time"`
	FrequencyValue int                  `json:"frequencyValue"`
	FrequencyUnit  models.FrequencyUnit `json:"frequencyUnit"`
}

// ReminderUpdate carries a partial edit; nil fields are left unchanged.
type ReminderUpdate struct {
	Message        *string               `json:"message"`
	Date           *string               `json:"date"`
	Time           *string               `json:"time"`
	FrequencyValue *int                  `json:"frequencyValue"`
	FrequencyUnit  *models.FrequencyUnit `json:"frequencyUnit"`
}

// Add validates and persists a new reminder and, if it has a time or a
// frequency, arms its alarm. Validation failures happen before anything is
// written.
func (s *ReminderService) Add(ctx context.Context, input ReminderInput) (*models.Reminder, error) {
	now := s.clock.Now()
	reminder := models.Reminder{
		ID:             uuid.NewString(),
		CreatedAt:      now,
		LastCheck:      now,
		Active:         true,
		Message:        input.Message,
		Date:           input.Date,
		Time:           input.Time,
		FrequencyValue: input.FrequencyValue,
		FrequencyUnit:  input.FrequencyUnit,
	}
	if err := reminder.Validate(); err != nil {
		return nil, err
	}

	reminders, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	reminders = append(reminders, reminder)
	if err := s.repo.SaveAll(ctx, reminders); err != nil {
		return nil, err
	}

	s.armAlarm(&reminder)

	logrus.WithFields(logrus.Fields{
		"reminderID": reminder.ID,
		"mode":       reminder.Mode().String(),
	}).Info("Reminder created")
	return &reminder, nil
}

// Edit merges the update into an existing reminder. LastCheck is reset to
// the edit instant, which restarts the reminder's fire window.
func (s *ReminderService) Edit(ctx context.Context, id string, update ReminderUpdate) (*models.Reminder, error) {
	reminders, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	idx := findReminder(reminders, id)
	if idx < 0 {
		return nil, fmt.Errorf("edit %q: %w", id, ErrReminderNotFound)
	}

	reminder := reminders[idx]
	if update.Message != nil {
		reminder.Message = *update.Message
	}
	if update.Date != nil {
		reminder.Date = *update.Date
	}
	if update.Time != nil {
		reminder.Time = *update.Time
	}
	if update.FrequencyValue != nil {
		reminder.FrequencyValue = *update.FrequencyValue
	}
	if update.FrequencyUnit != nil {
		reminder.FrequencyUnit = *update.FrequencyUnit
	}
	reminder.LastCheck = s.clock.Now()

	if err := reminder.Validate(); err != nil {
		return nil, err
	}

	reminders[idx] = reminder
	if err := s.repo.SaveAll(ctx, reminders); err != nil {
		return nil, err
	}

	// Clear-then-recreate so a stale registration never outlives an edit.
	if err := s.alarms.Cancel(alarmName(reminder.ID)); err != nil {
		logrus.WithError(err).Warnf("Failed to clear alarm for reminder %s", reminder.ID)
	}
	if reminder.Active {
		s.armAlarm(&reminder)
	}

	return &reminder, nil
}

// Toggle enables or disables a reminder, resetting its fire window either
// way.
func (s *ReminderService) Toggle(ctx context.Context, id string, active bool) (*models.Reminder, error) {
	reminders, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	idx := findReminder(reminders, id)
	if idx < 0 {
		return nil, fmt.Errorf("toggle %q: %w", id, ErrReminderNotFound)
	}

	reminders[idx].Active = active
	reminders[idx].LastCheck = s.clock.Now()
	if err := s.repo.SaveAll(ctx, reminders); err != nil {
		return nil, err
	}

	if active {
		s.armAlarm(&reminders[idx])
	} else if err := s.alarms.Cancel(alarmName(id)); err != nil {
		logrus.WithError(err).Warnf("Failed to cancel alarm for reminder %s", id)
	}

	return &reminders[idx], nil
}

// Delete removes a reminder and cancels its alarm so a stale wake-up
// cannot resurrect it.
func (s *ReminderService) Delete(ctx context.Context, id string) error {
	reminders, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	idx := findReminder(reminders, id)
	if idx < 0 {
		return fmt.Errorf("delete %q: %w", id, ErrReminderNotFound)
	}

	reminders = append(reminders[:idx], reminders[idx+1:]...)
	if err := s.repo.SaveAll(ctx, reminders); err != nil {
		return err
	}

	if err := s.alarms.Cancel(alarmName(id)); err != nil {
		logrus.WithError(err).Warnf("Failed to cancel alarm for reminder %s", id)
	}
	return nil
}

// GetAll lists the stored reminders.
func (s *ReminderService) GetAll(ctx context.Context) ([]models.Reminder, error) {
	return s.repo.GetAll(ctx)
}

// Tick evaluates every active reminder against now and fires the due
// ones. Firing shows the notification (best effort) and advances
// LastCheck; the whole collection is persisted in one write afterwards.
// Calling Tick twice with the same now is safe: the second sweep reads
// the advanced LastCheck values and finds nothing due.
func (s *ReminderService) Tick(ctx context.Context, now time.Time) error {
	reminders, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	fired := 0
	for i := range reminders {
		reminder := &reminders[i]
		if !reminder.Active || reminder.ID == "" || reminder.LastCheck.IsZero() {
			continue
		}
		if !reminder.IsDue(now) {
			continue
		}

		s.show(reminder)
		reminder.LastCheck = now
		fired++
	}

	if fired == 0 {
		return nil
	}
	if err := s.repo.SaveAll(ctx, reminders); err != nil {
		// Nothing was committed, so the next tick will re-evaluate and
		// re-fire; at-least-once is the contract here.
		return err
	}

	logrus.Debugf("Reminder sweep fired %d of %d", fired, len(reminders))
	return nil
}

// HandleAlarm is wired to the wake facility. Any reminder-related alarm
// (the generic sweep or a per-reminder one) triggers a full sweep; a wake
// for an id that no longer exists is covered by the sweep simply not
// finding it due.
func (s *ReminderService) HandleAlarm(name string) {
	if err := s.Tick(context.Background(), s.clock.Now()); err != nil {
		logrus.WithError(err).Errorf("Reminder sweep for alarm %q failed", name)
	}
}

// Sweep runs one due-reminder pass at the current instant.
func (s *ReminderService) Sweep(ctx context.Context) error {
	return s.Tick(ctx, s.clock.Now())
}

// StartSweep registers the generic once-a-minute due check.
func (s *ReminderService) StartSweep() error {
	return s.alarms.Schedule(SweepAlarm, alarms.Options{
		InitialDelay: sweepPeriod,
		Period:       sweepPeriod,
	})
}

// AlarmPlan computes the wake parameters for a reminder about to be
// armed. The second return is false when the reminder gets no repeating
// alarm and is only picked up by the generic sweep.
func AlarmPlan(r *models.Reminder, now time.Time) (alarms.Options, bool) {
	switch {
	case r.Time != "":
		// The alarm tracks the time of day only; the sweep's due check is
		// what enforces a precise reminder's date.
		next, err := models.NextTimeOfDay(r.Time, now)
		if err != nil {
			return alarms.Options{}, false
		}
		period := 24 * time.Hour
		if r.FrequencyValue != 0 {
			period = r.Interval()
		}
		return alarms.Options{InitialDelay: next.Sub(now), Period: period}, true

	case r.FrequencyValue != 0:
		// Fire soon and let the sweep's due check self-correct the phase.
		return alarms.Options{InitialDelay: time.Minute, Period: r.Interval()}, true

	default:
		return alarms.Options{}, false
	}
}

func (s *ReminderService) armAlarm(r *models.Reminder) {
	opts, ok := AlarmPlan(r, s.clock.Now())
	if !ok {
		return
	}
	if err := s.alarms.Schedule(alarmName(r.ID), opts); err != nil {
		logrus.WithError(err).Warnf("Failed to schedule alarm for reminder %s", r.ID)
	}
}

func (s *ReminderService) show(r *models.Reminder) {
	body := r.Message
	if body == "" {
		body = DefaultReminderMessage
	}
	if err := s.notifier.Show(r.ID, notify.Notification{Title: reminderTitle, Body: body}); err != nil {
		// An undeliverable notification still counts as fired.
		logrus.WithError(err).Warnf("Failed to deliver notification for reminder %s", r.ID)
	}
}

func alarmName(id string) string {
	return ReminderAlarmPrefix + id
}

func findReminder(reminders []models.Reminder, id string) int {
	for i := range reminders {
		if reminders[i].ID == id {
			return i
		}
	}
	return -1
}
