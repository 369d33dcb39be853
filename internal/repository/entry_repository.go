package repository

import (
	"context"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/storage"
)

// EntryRepository persists the journal entries.
type EntryRepository struct {
	store storage.Store
}

func NewEntryRepository(store storage.Store) *EntryRepository {
	return &EntryRepository{store: store}
}

func (r *EntryRepository) GetAll(ctx context.Context) ([]models.Entry, error) {
	var entries []models.Entry
	if _, err := loadJSON(ctx, r.store, entriesKey, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *EntryRepository) SaveAll(ctx context.Context, entries []models.Entry) error {
	return saveJSON(ctx, r.store, entriesKey, entries)
}
