package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(value string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestReminderMode(t *testing.T) {
	tests := []struct {
		name     string
		reminder Reminder
		want     TriggerMode
	}{
		{"date and time", Reminder{Date: "2024-03-01", Time: "08:00"}, TriggerPrecise},
		{"time only", Reminder{Time: "08:00"}, TriggerDaily},
		{"frequency only", Reminder{FrequencyValue: 30, FrequencyUnit: UnitMinutes}, TriggerPeriodic},
		{"time and frequency", Reminder{Time: "08:00", FrequencyValue: 2, FrequencyUnit: UnitHours}, TriggerPeriodic},
		{"date and time win over frequency", Reminder{Date: "2024-03-01", Time: "08:00", FrequencyValue: 2, FrequencyUnit: UnitHours}, TriggerPrecise},
		{"nothing set", Reminder{}, TriggerImmediate},
		{"date without time", Reminder{Date: "2024-03-01"}, TriggerImmediate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reminder.Mode())
		})
	}
}

func TestInterval(t *testing.T) {
	assert.Equal(t, 30*time.Minute, Interval(30, UnitMinutes))
	assert.Equal(t, 2*time.Hour, Interval(2, UnitHours))
	assert.Equal(t, 3*24*time.Hour, Interval(3, UnitDays))
	// A month is a fixed 30 days, never calendar-aware.
	assert.Equal(t, 2*30*24*time.Hour, Interval(2, UnitMonths))
	assert.Equal(t, time.Duration(0), Interval(5, FrequencyUnit("weeks")))
}

func TestPreciseReminderFiresOnce(t *testing.T) {
	rem := Reminder{
		CreatedAt: at("2024-01-01T07:00:00"),
		LastCheck: at("2024-01-01T07:00:00"),
		Date:      "2024-01-02",
		Time:      "09:30",
	}

	assert.False(t, rem.IsDue(at("2024-01-02T09:29:59")))
	assert.True(t, rem.IsDue(at("2024-01-02T09:30:00")))

	// A missed one-time reminder has no expiry.
	assert.True(t, rem.IsDue(at("2024-02-15T18:00:00")))

	// Firing advances LastCheck past the target; terminal from then on.
	rem.LastCheck = at("2024-01-02T09:31:00")
	assert.False(t, rem.IsDue(at("2024-01-02T09:31:00")))
	assert.False(t, rem.IsDue(at("2024-03-01T09:30:00")))
}

func TestDailyReminderOncePerCalendarDay(t *testing.T) {
	rem := Reminder{
		CreatedAt: at("2024-01-01T07:00:00"),
		LastCheck: at("2024-01-01T07:00:00"),
		Time:      "08:00",
	}

	require.Equal(t, TriggerDaily, rem.Mode())

	assert.False(t, rem.IsDue(at("2024-01-01T07:59:59")))
	assert.True(t, rem.IsDue(at("2024-01-01T08:00:00")))

	// Fired at 08:00; the rest of the day stays quiet.
	rem.LastCheck = at("2024-01-01T08:00:00")
	assert.False(t, rem.IsDue(at("2024-01-01T08:30:00")))
	assert.False(t, rem.IsDue(at("2024-01-01T23:59:00")))

	// Due again the next day at the configured time, not 24h later.
	assert.True(t, rem.IsDue(at("2024-01-02T08:00:01")))
}

func TestDailyReminderDelayedFireStillUsesCalendarDay(t *testing.T) {
	// Fired late at 08:05 Monday; Tuesday 08:00 is less than 24h later but
	// must still be due.
	rem := Reminder{
		CreatedAt: at("2024-01-01T07:00:00"),
		LastCheck: at("2024-01-01T08:05:00"),
		Time:      "08:00",
	}

	assert.False(t, rem.IsDue(at("2024-01-01T09:00:00")))
	assert.True(t, rem.IsDue(at("2024-01-02T08:00:00")))
}

func TestDailyReminderStaleLastCheckBeforeTarget(t *testing.T) {
	// LastCheck from today but before the target does not count as fired.
	rem := Reminder{
		CreatedAt: at("2024-01-01T07:00:00"),
		LastCheck: at("2024-01-02T07:30:00"),
		Time:      "08:00",
	}
	assert.True(t, rem.IsDue(at("2024-01-02T08:00:00")))
}

func TestPeriodicReminder(t *testing.T) {
	start := at("2024-01-01T12:00:00")
	rem := Reminder{
		CreatedAt:      start,
		LastCheck:      start,
		FrequencyValue: 30,
		FrequencyUnit:  UnitMinutes,
	}

	assert.False(t, rem.IsDue(start.Add(29*time.Minute)))
	assert.True(t, rem.IsDue(start.Add(30*time.Minute)))
	assert.Equal(t, start.Add(30*time.Minute), rem.NextDue(start))

	rem.LastCheck = start.Add(30 * time.Minute)
	assert.False(t, rem.IsDue(start.Add(45*time.Minute)))
	assert.True(t, rem.IsDue(start.Add(60*time.Minute)))
}

func TestPeriodicReminderIgnoresDateAndTime(t *testing.T) {
	start := at("2024-01-01T12:00:00")
	rem := Reminder{
		CreatedAt:      start,
		LastCheck:      start,
		Time:           "23:00",
		FrequencyValue: 1,
		FrequencyUnit:  UnitHours,
	}

	// Due on the interval even though 23:00 is hours away.
	assert.True(t, rem.IsDue(start.Add(time.Hour)))
}

func TestImmediateReminderFiresOnce(t *testing.T) {
	created := at("2024-01-01T12:00:00")
	rem := Reminder{CreatedAt: created, LastCheck: created}

	assert.True(t, rem.IsDue(created))
	assert.True(t, rem.IsDue(created.Add(time.Minute)))

	rem.LastCheck = created.Add(time.Minute)
	assert.False(t, rem.IsDue(created.Add(2*time.Minute)))
}

func TestNextDueDaily(t *testing.T) {
	rem := Reminder{
		CreatedAt: at("2024-01-01T07:00:00"),
		LastCheck: at("2024-01-01T07:00:00"),
		Time:      "08:00",
	}

	assert.Equal(t, at("2024-01-01T08:00:00"), rem.NextDue(at("2024-01-01T07:30:00")))

	// Already fired today: tomorrow's slot.
	rem.LastCheck = at("2024-01-01T08:00:00")
	assert.Equal(t, at("2024-01-02T08:00:00"), rem.NextDue(at("2024-01-01T09:00:00")))
}

func TestNextDuePrecise(t *testing.T) {
	rem := Reminder{Date: "2024-01-05", Time: "9:5"}
	assert.Equal(t, at("2024-01-05T09:05:00"), rem.NextDue(at("2024-01-01T00:00:00")))
}

func TestReminderValidate(t *testing.T) {
	tests := []struct {
		name     string
		reminder Reminder
		wantErr  bool
	}{
		{"valid daily", Reminder{Time: "08:00"}, false},
		{"valid periodic", Reminder{FrequencyValue: 30, FrequencyUnit: UnitMinutes}, false},
		{"valid empty", Reminder{}, false},
		{"value without unit", Reminder{FrequencyValue: 30}, true},
		{"unit without value", Reminder{FrequencyUnit: UnitHours}, true},
		{"unknown unit", Reminder{FrequencyValue: 1, FrequencyUnit: "weeks"}, true},
		{"negative value", Reminder{FrequencyValue: -2, FrequencyUnit: UnitHours}, true},
		{"bad time", Reminder{Time: "25:00"}, true},
		{"bad date", Reminder{Date: "01/02/2024", Time: "08:00"}, true},
		{"unpadded time", Reminder{Time: "8:05"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reminder.Validate()
			if tt.wantErr {
				var verr *ValidationError
				require.Error(t, err)
				assert.ErrorAs(t, err, &verr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
