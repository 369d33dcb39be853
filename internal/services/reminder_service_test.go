package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clemarais/moodjournal/internal/alarms"
	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/notify"
	"github.com/clemarais/moodjournal/internal/repository"
	"github.com/clemarais/moodjournal/internal/storage"
)

type fakeAlarms struct {
	mu        sync.Mutex
	scheduled map[string]alarms.Options
	cancelled []string
}

func newFakeAlarms() *fakeAlarms {
	return &fakeAlarms{scheduled: make(map[string]alarms.Options)}
}

func (f *fakeAlarms) Schedule(name string, opts alarms.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled[name] = opts
	return nil
}

func (f *fakeAlarms) Cancel(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scheduled, name)
	f.cancelled = append(f.cancelled, name)
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	shown []string
	err   error
}

func (f *fakeNotifier) Show(id string, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.shown = append(f.shown, id)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.shown)
}

// flakyStore fails writes on demand.
type flakyStore struct {
	storage.Store
	failSet bool
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.Store.Set(ctx, key, value)
}

type fixture struct {
	svc      *ReminderService
	store    *flakyStore
	alarms   *fakeAlarms
	notifier *fakeNotifier
	clock    *clock.Mock
}

func newFixture(t *testing.T, start time.Time) *fixture {
	t.Helper()
	store := &flakyStore{Store: storage.NewMemory()}
	registry := newFakeAlarms()
	notifier := &fakeNotifier{}
	mock := clock.NewMock()
	mock.Set(start)

	return &fixture{
		svc:      NewReminderService(repository.NewReminderRepository(store), registry, notifier, mock),
		store:    store,
		alarms:   registry,
		notifier: notifier,
		clock:    mock,
	}
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return ts
}

func TestAddAssignsIdentityAndPersists(t *testing.T) {
	f := newFixture(t, mustTime(t, "2024-01-01T07:00:00Z"))
	ctx := context.Background()

	created, err := f.svc.Add(ctx, ReminderInput{Message: "stretch", Time: "08:00"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)
	assert.Equal(t, mustTime(t, "2024-01-01T07:00:00Z"), created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.LastCheck)

	stored, err := f.svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, *created, stored[0])

	// Daily reminder: armed for today's 08:00 with a 24h repeat.
	opts, ok := f.alarms.scheduled["reminder_"+created.ID]
	require.True(t, ok)
	assert.Equal(t, time.Hour, opts.InitialDelay)
	assert.Equal(t, 24*time.Hour, opts.Period)
}

func TestAddValidationFailureHasNoSideEffects(t *testing.T) {
	f := newFixture(t, mustTime(t, "2024-01-01T07:00:00Z"))
	ctx := context.Background()

	_, err := f.svc.Add(ctx, ReminderInput{FrequencyValue: 30})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	stored, err := f.svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, f.alarms.scheduled)
}

func TestEditResetsLastCheckAndRearms(t *testing.T) {
	f := newFixture(t, mustTime(t, "2024-01-01T07:00:00Z"))
	ctx := context.Background()

	created, err := f.svc.Add(ctx, ReminderInput{Time: "08:00"})
	require.NoError(t, err)

	f.clock.Set(mustTime(t, "2024-01-01T07:59:00Z"))
	msg := "drink water"
	edited, err := f.svc.Edit(ctx, created.ID, ReminderUpdate{Message: &msg})
	require.NoError(t, err)
	assert.Equal(t, "drink water", edited.Message)
	// Editing restarts the fire window, even one minute before it was due.
	assert.Equal(t, mustTime(t, "2024-01-01T07:59:00Z"), edited.LastCheck)

	assert.Contains(t, f.alarms.cancelled, "reminder_"+created.ID)
	opts, ok := f.alarms.scheduled["reminder_"+created.ID]
	require.True(t, ok)
	assert.Equal(t, time.Minute, opts.InitialDelay)
}

func TestEditUnknownID(t *testing.T) {
	f := newFixture(t, mustTime(t, "2024-01-01T07:00:00Z"))

	msg := "x"
	_, err := f.svc.Edit(context.Background(), "nope", ReminderUpdate{Message: &msg})
	assert.ErrorIs(t, err, ErrReminderNotFound)
}

func TestToggleArmsAndCancels(t *testing.T) {
	f := newFixture(t, mustTime(t, "2024-01-01T07:00:00Z"))
	ctx := context.Background()

	created, err := f.svc.Add(ctx, ReminderInput{FrequencyValue: 2, FrequencyUnit: models.UnitHours})
	require.NoError(t, err)
	name := "reminder_" + created.ID

	_, err = f.svc.Toggle(ctx, created.ID, false)
	require.NoError(t, err)
	assert.NotContains(t, f.alarms.scheduled, name)
	assert.Contains(t, f.alarms.cancelled, name)

	toggled, err := f.svc.Toggle(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, toggled.Active)
	opts, ok := f.alarms.scheduled[name]
	require.True(t, ok)
	// Frequency-only reminders fire soon and let the sweep correct phase.
	assert.Equal(t, time.Minute, opts.InitialDelay)
	assert.Equal(t, 2*time.Hour, opts.Period)
}

func TestDeleteCancelsAlarmAndToleratesStaleWake(t *testing.T) {
	f := newFixture(t, mustTime(t, "2024-01-01T07:00:00Z"))
	ctx := context.Background()

	created, err := f.svc.Add(ctx, ReminderInput{FrequencyValue: 1, FrequencyUnit: models.UnitMinutes})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	assert.Contains(t, f.alarms.cancelled, "reminder_"+created.ID)

	stored, err := f.svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	// A stale wake-up referencing the deleted id is silently absorbed.
	f.clock.Set(mustTime(t, "2024-01-01T09:00:00Z"))
	f.svc.HandleAlarm("reminder_" + created.ID)
	assert.Equal(t, 0, f.notifier.count())

	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), ErrReminderNotFound)
}

func TestTickDailyScenario(t *testing.T) {
	f := newFixture(t, mustTime(t, "2024-01-01T07:00:00Z"))
	ctx := context.Background()

	created, err := f.svc.Add(ctx, ReminderInput{Time: "08:00"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Tick(ctx, mustTime(t, "2024-01-01T07:30:00Z")))
	assert.Equal(t, 0, f.notifier.count())

	require.NoError(t, f.svc.Tick(ctx, mustTime(t, "2024-01-01T08:00:00Z")))
	assert.Equal(t, 1, f.notifier.count())

	stored, err := f.svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, mustTime(t, "2024-01-01T08:00:00Z"), stored[0].LastCheck)

	// Same day again: quiet.
	require.NoError(t, f.svc.Tick(ctx, mustTime(t, "2024-01-01T08:30:00Z")))
	assert.Equal(t, 1, f.notifier.count())

	// Next day just past the slot: fires again.
	require.NoError(t, f.svc.Tick(ctx, mustTime(t, "2024-01-02T08:00:01Z")))
	assert.Equal(t, 2, f.notifier.count())
	assert.Equal(t, created.ID, f.notifier.shown[1])
}

func TestTickIdempotentForSameInstant(t *testing.T) {
	f := newFixture(t, mustTime(t, "2024-01-01T07:00:00Z"))
	ctx := context.Background()

	_, err := f.svc.Add(ctx, ReminderInput{FrequencyValue: 30, FrequencyUnit: models.UnitMinutes})
	require.NoError(t, err)

	now := mustTime(t, "2024-01-01T07:30:00Z")
	require.NoError(t, f.svc.Tick(ctx, now))
	require.NoError(t, f.svc.Tick(ctx, now))
	assert.Equal(t, 1, f.notifier.count())
}

func TestTickSkipsInactiveAndMalformed(t *testing.T) {
	f := newFixture(t, mustTime(t, "2024-01-01T07:00:00Z"))
	ctx := context.Background()
	repo := repository.NewReminderRepository(f.store)

	created := mustTime(t, "2024-01-01T06:00:00Z")
	require.NoError(t, repo.SaveAll(ctx, []models.Reminder{
		{ID: "off", CreatedAt: created, LastCheck: created, Active: false},
		{CreatedAt: created, LastCheck: created, Active: true},
		{ID: "unchecked", CreatedAt: created, Active: true},
	}))

	require.NoError(t, f.svc.Tick(ctx, mustTime(t, "2024-01-01T07:00:00Z")))
	assert.Equal(t, 0, f.notifier.count())
}

func TestTickNotificationFailureStillAdvances(t *testing.T) {
	f := newFixture(t, mustTime(t, "2024-01-01T07:00:00Z"))
	ctx := context.Background()

	_, err := f.svc.Add(ctx, ReminderInput{})
	require.NoError(t, err)

	f.notifier.err = errors.New("display unavailable")
	require.NoError(t, f.svc.Tick(ctx, mustTime(t, "2024-01-01T07:05:00Z")))

	// The failed delivery still counted as a fire.
	f.notifier.err = nil
	require.NoError(t, f.svc.Tick(ctx, mustTime(t, "2024-01-01T07:06:00Z")))
	assert.Equal(t, 0, f.notifier.count())
}

func TestTickStorageFailureDoesNotAdvance(t *testing.T) {
	f := newFixture(t, mustTime(t, "2024-01-01T07:00:00Z"))
	ctx := context.Background()

	_, err := f.svc.Add(ctx, ReminderInput{FrequencyValue: 30, FrequencyUnit: models.UnitMinutes})
	require.NoError(t, err)

	f.store.failSet = true
	err = f.svc.Tick(ctx, mustTime(t, "2024-01-01T07:30:00Z"))
	var serr *storage.Error
	require.ErrorAs(t, err, &serr)

	// The write never landed, so the next sweep fires the reminder again.
	f.store.failSet = false
	require.NoError(t, f.svc.Tick(ctx, mustTime(t, "2024-01-01T07:31:00Z")))
	assert.Equal(t, 2, f.notifier.count())
}

func TestTickUsesDefaultMessage(t *testing.T) {
	f := newFixture(t, mustTime(t, "2024-01-01T07:00:00Z"))
	ctx := context.Background()

	notifier := &recordingNotifier{}
	f.svc.notifier = notifier

	_, err := f.svc.Add(ctx, ReminderInput{})
	require.NoError(t, err)
	require.NoError(t, f.svc.Tick(ctx, mustTime(t, "2024-01-01T07:01:00Z")))

	require.Len(t, notifier.bodies, 1)
	assert.Equal(t, DefaultReminderMessage, notifier.bodies[0])
}

type recordingNotifier struct {
	bodies []string
}

func (r *recordingNotifier) Show(id string, n notify.Notification) error {
	r.bodies = append(r.bodies, n.Body)
	return nil
}

func TestAlarmPlan(t *testing.T) {
	now := mustTime(t, "2024-01-01T07:00:00Z")

	t.Run("time still ahead today", func(t *testing.T) {
		opts, ok := AlarmPlan(&models.Reminder{Time: "08:30"}, now)
		require.True(t, ok)
		assert.Equal(t, 90*time.Minute, opts.InitialDelay)
		assert.Equal(t, 24*time.Hour, opts.Period)
	})

	t.Run("time already past rolls to tomorrow", func(t *testing.T) {
		opts, ok := AlarmPlan(&models.Reminder{Time: "06:00"}, now)
		require.True(t, ok)
		assert.Equal(t, 23*time.Hour, opts.InitialDelay)
	})

	t.Run("time with frequency uses interval period", func(t *testing.T) {
		opts, ok := AlarmPlan(&models.Reminder{Time: "08:00", FrequencyValue: 3, FrequencyUnit: models.UnitHours}, now)
		require.True(t, ok)
		assert.Equal(t, time.Hour, opts.InitialDelay)
		assert.Equal(t, 3*time.Hour, opts.Period)
	})

	t.Run("frequency only", func(t *testing.T) {
		opts, ok := AlarmPlan(&models.Reminder{FrequencyValue: 45, FrequencyUnit: models.UnitMinutes}, now)
		require.True(t, ok)
		assert.Equal(t, time.Minute, opts.InitialDelay)
		assert.Equal(t, 45*time.Minute, opts.Period)
	})

	t.Run("neither time nor frequency", func(t *testing.T) {
		_, ok := AlarmPlan(&models.Reminder{}, now)
		assert.False(t, ok)
		_, ok = AlarmPlan(&models.Reminder{Date: "2024-02-01"}, now)
		assert.False(t, ok)
	})
}
