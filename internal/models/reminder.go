package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FrequencyUnit is the unit of a periodic reminder's interval.
type FrequencyUnit string

const (
	UnitMinutes FrequencyUnit = "minutes"
	UnitHours   FrequencyUnit = "hours"
	UnitDays    FrequencyUnit = "days"
	UnitMonths  FrequencyUnit = "months"
)

// TriggerMode classifies how a reminder fires. It is derived from which
// fields are populated; the order of the cases in Mode is significant.
type TriggerMode int

const (
	// TriggerPrecise fires once at an exact date and time.
	TriggerPrecise TriggerMode = iota
	// TriggerDaily fires once per calendar day at a fixed time.
	TriggerDaily
	// TriggerPeriodic fires every fixed interval after the last fire.
	TriggerPeriodic
	// TriggerImmediate fires once, eligible from creation.
	TriggerImmediate
)

func (m TriggerMode) String() string {
	switch m {
	case TriggerPrecise:
		return "precise"
	case TriggerDaily:
		return "daily"
	case TriggerPeriodic:
		return "periodic"
	case TriggerImmediate:
		return "immediate"
	default:
		return fmt.Sprintf("TriggerMode(%d)", int(m))
	}
}

// Reminder is a user-configured rule describing when to show a
// notification. Date uses the "2006-01-02" layout, Time is a 24-hour
// "HH:MM" value (zero padding optional).
type Reminder struct {
	ID             string        `json:"id"`
	CreatedAt      time.Time     `json:"createdAt"`
	LastCheck      time.Time     `json:"lastCheck"`
	Active         bool          `json:"active"`
	Message        string        `json:"message"`
	Date           string        `json:"date,omitempty"`
	Time           string        `json:"time,omitempty"`
	FrequencyValue int           `json:"frequencyValue,omitempty"`
	FrequencyUnit  FrequencyUnit `json:"frequencyUnit,omitempty"`
}

// ValidationError reports malformed reminder configuration. It is returned
// before anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the configurable fields. FrequencyValue and
// FrequencyUnit must be set together or not at all.
func (r *Reminder) Validate() error {
	if (r.FrequencyValue != 0) != (r.FrequencyUnit != "") {
		return &ValidationError{Field: "frequency", Reason: "frequencyValue and frequencyUnit must be set together"}
	}
	if r.FrequencyValue < 0 {
		return &ValidationError{Field: "frequencyValue", Reason: "must be a positive integer"}
	}
	switch r.FrequencyUnit {
	case "", UnitMinutes, UnitHours, UnitDays, UnitMonths:
	default:
		return &ValidationError{Field: "frequencyUnit", Reason: fmt.Sprintf("unknown unit %q", r.FrequencyUnit)}
	}
	if r.Time != "" {
		if _, _, err := parseClockTime(r.Time); err != nil {
			return &ValidationError{Field: "time", Reason: err.Error()}
		}
	}
	if r.Date != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			return &ValidationError{Field: "date", Reason: "must use the 2006-01-02 layout"}
		}
	}
	return nil
}

// Mode returns the reminder's trigger mode. First match wins: a date plus
// time is always precise, a bare time with no frequency is daily, any
// frequency pair is periodic, everything else is an immediate one-shot.
func (r *Reminder) Mode() TriggerMode {
	switch {
	case r.Date != "" && r.Time != "":
		return TriggerPrecise
	case r.Time != "" && r.Date == "" && r.FrequencyValue == 0:
		return TriggerDaily
	case r.FrequencyValue != 0 && r.FrequencyUnit != "":
		return TriggerPeriodic
	default:
		return TriggerImmediate
	}
}

// Interval converts a periodic magnitude and unit into a duration. A month
// counts as exactly 30 days; the journal has always scheduled that way and
// calendar-month arithmetic would shift existing reminders. Unknown units
// yield zero.
func Interval(value int, unit FrequencyUnit) time.Duration {
	switch unit {
	case UnitMinutes:
		return time.Duration(value) * time.Minute
	case UnitHours:
		return time.Duration(value) * time.Hour
	case UnitDays:
		return time.Duration(value) * 24 * time.Hour
	case UnitMonths:
		return time.Duration(value) * 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Interval returns the reminder's periodic interval.
func (r *Reminder) Interval() time.Duration {
	return Interval(r.FrequencyValue, r.FrequencyUnit)
}

// IsDue reports whether the reminder should fire at now. It is pure: the
// caller advances LastCheck after acting on a true result, which is what
// keeps every mode from double-firing.
func (r *Reminder) IsDue(now time.Time) bool {
	switch r.Mode() {
	case TriggerPrecise:
		target, err := r.preciseTarget(now.Location())
		if err != nil {
			return false
		}
		return !now.Before(target) && r.LastCheck.Before(target)

	case TriggerDaily:
		target, err := r.timeOn(now)
		if err != nil {
			return false
		}
		// The dedupe is by calendar date, not elapsed duration: a fire
		// from yesterday never blocks today's slot even if less than 24h
		// have passed.
		firedToday := sameDay(r.LastCheck, now) && !r.LastCheck.Before(target)
		return !now.Before(target) && !firedToday

	case TriggerPeriodic:
		return !now.Before(r.LastCheck.Add(r.Interval()))

	default:
		return !now.Before(r.CreatedAt) && !r.LastCheck.After(r.CreatedAt)
	}
}

// NextDue returns the next instant the reminder becomes due, evaluated
// against now.
func (r *Reminder) NextDue(now time.Time) time.Time {
	switch r.Mode() {
	case TriggerPrecise:
		target, err := r.preciseTarget(now.Location())
		if err != nil {
			return time.Time{}
		}
		return target

	case TriggerDaily:
		target, err := r.timeOn(now)
		if err != nil {
			return time.Time{}
		}
		if sameDay(r.LastCheck, now) && !r.LastCheck.Before(target) {
			return target.AddDate(0, 0, 1)
		}
		return target

	case TriggerPeriodic:
		return r.LastCheck.Add(r.Interval())

	default:
		return r.CreatedAt
	}
}

// preciseTarget combines the reminder's date and time into one instant.
func (r *Reminder) preciseTarget(loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", r.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := parseClockTime(r.Time)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc), nil
}

// timeOn returns the reminder's time-of-day on the same calendar day as
// the reference instant.
func (r *Reminder) timeOn(ref time.Time) (time.Time, error) {
	hour, minute, err := parseClockTime(r.Time)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location()), nil
}

// NextTimeOfDay returns the next occurrence of an "HH:MM" time of day:
// today if it is still in the future, otherwise tomorrow.
func NextTimeOfDay(clockTime string, now time.Time) (time.Time, error) {
	hour, minute, err := parseClockTime(clockTime)
	if err != nil {
		return time.Time{}, err
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

func parseClockTime(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("must use the HH:MM layout")
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("must use the HH:MM layout")
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("must use the HH:MM layout")
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%02d:%02d is not a valid time of day", hour, minute)
	}
	return hour, minute, nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
