package services

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/repository"
	"github.com/clemarais/moodjournal/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsFixture(t *testing.T) (*SettingsService, *fakeAlarms, *clock.Mock) {
	t.Helper()
	store := storage.NewMemory()
	repo := repository.NewSettingsRepository(store)
	registry := newFakeAlarms()
	mock := clock.NewMock()
	// 10:00, well before the default 20:00 reminder.
	mock.Set(mustTime(t, "2025-03-10T10:00:00Z"))
	return NewSettingsService(repo, registry, mock), registry, mock
}

func TestSettingsStartSeedsDefaultsAndArms(t *testing.T) {
	svc, registry, _ := settingsFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Start(ctx))

	settings, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, settings.ReminderEnabled)
	assert.Equal(t, models.DefaultReminderTime, settings.ReminderTime)

	opts, ok := registry.scheduled[MoodCheckAlarm]
	require.True(t, ok)
	assert.Equal(t, 10*time.Hour, opts.InitialDelay)
	assert.Equal(t, 24*time.Hour, opts.Period)
}

func TestSettingsUpdateRearms(t *testing.T) {
	svc, registry, _ := settingsFixture(t)
	ctx := context.Background()
	require.NoError(t, svc.Start(ctx))

	at := "09:30"
	settings, err := svc.Update(ctx, SettingsUpdate{ReminderTime: &at})
	require.NoError(t, err)
	assert.Equal(t, "09:30", settings.ReminderTime)

	// 09:30 already passed today, so the alarm aims at tomorrow.
	opts := registry.scheduled[MoodCheckAlarm]
	assert.Equal(t, 23*time.Hour+30*time.Minute, opts.InitialDelay)
}

func TestSettingsDisableCancelsAlarm(t *testing.T) {
	svc, registry, _ := settingsFixture(t)
	ctx := context.Background()
	require.NoError(t, svc.Start(ctx))

	off := false
	_, err := svc.Update(ctx, SettingsUpdate{ReminderEnabled: &off})
	require.NoError(t, err)

	_, ok := registry.scheduled[MoodCheckAlarm]
	assert.False(t, ok)
	assert.Contains(t, registry.cancelled, MoodCheckAlarm)
}

func TestSettingsUpdateRejectsBadTime(t *testing.T) {
	svc, _, _ := settingsFixture(t)
	ctx := context.Background()

	bad := "25:99"
	_, err := svc.Update(ctx, SettingsUpdate{ReminderTime: &bad})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reminderTime", verr.Field)
}

func TestSettingsMarkNotified(t *testing.T) {
	svc, _, mock := settingsFixture(t)
	ctx := context.Background()
	require.NoError(t, svc.Start(ctx))

	require.NoError(t, svc.MarkNotified(ctx, mock.Now()))
	settings, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", settings.LastNotificationDate)
}
