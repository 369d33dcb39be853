package models

// DefaultReminderTime is the time of day the daily mood check fires when
// the user has not picked one.
const DefaultReminderTime = "20:00"

// Settings configures the built-in daily mood-check notification.
// LastNotificationDate holds the calendar date ("2006-01-02") of the last
// mood-check notification so it fires at most once per day.
type Settings struct {
	ReminderEnabled      bool   `json:"reminderEnabled"`
	ReminderTime         string `json:"reminderTime"`
	LastNotificationDate string `json:"lastNotificationDate,omitempty"`
}

// DefaultSettings are seeded on first run.
func DefaultSettings() Settings {
	return Settings{
		ReminderEnabled: true,
		ReminderTime:    DefaultReminderTime,
	}
}

// Validate checks the reminder time layout.
func (s *Settings) Validate() error {
	if s.ReminderTime != "" {
		if _, _, err := parseClockTime(s.ReminderTime); err != nil {
			return &ValidationError{Field: "reminderTime", Reason: err.Error()}
		}
	}
	return nil
}
