package repository

import (
	"context"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/storage"
)

// SettingsRepository persists the mood-check settings record.
type SettingsRepository struct {
	store storage.Store
}

func NewSettingsRepository(store storage.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get returns the stored settings, or the defaults when nothing has been
// saved yet.
func (r *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()
	if _, err := loadJSON(ctx, r.store, settingsKey, &settings); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings models.Settings) error {
	return saveJSON(ctx, r.store, settingsKey, settings)
}
