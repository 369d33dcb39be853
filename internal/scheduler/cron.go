package cron

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/services"
)

// StartJournalCronJobs starts the recurring maintenance work: the
// once-a-minute reminder sweep and the hourly goal progress refresh.
// The returned cron can be stopped on shutdown.
func StartJournalCronJobs(reminderService *services.ReminderService, goalService *services.GoalService) *cron.Cron {
	c := cron.New()

	// Reminder sweep
	c.AddFunc("@every 1m", func() {
		if err := reminderService.Sweep(context.Background()); err != nil {
			logrus.WithError(err).Error("Reminder sweep failed")
		}
	})

	// Goal progress refresh
	c.AddFunc("@hourly", func() {
		if _, err := goalService.UpdateProgress(context.Background()); err != nil {
			logrus.WithError(err).Error("Goal progress refresh failed")
		}
	})

	c.Start()
	return c
}
