package repository

import (
	"context"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/storage"
)

// ReminderRepository persists the reminder collection as one ordered list
// under a single key.
type ReminderRepository struct {
	store storage.Store
}

func NewReminderRepository(store storage.Store) *ReminderRepository {
	return &ReminderRepository{store: store}
}

// GetAll returns every stored reminder. A missing key is an empty
// collection, not an error.
func (r *ReminderRepository) GetAll(ctx context.Context) ([]models.Reminder, error) {
	var reminders []models.Reminder
	if _, err := loadJSON(ctx, r.store, remindersKey, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// SaveAll replaces the stored collection in one write.
func (r *ReminderRepository) SaveAll(ctx context.Context, reminders []models.Reminder) error {
	return saveJSON(ctx, r.store, remindersKey, reminders)
}
