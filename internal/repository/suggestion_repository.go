package repository

import (
	"context"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/storage"
)

// SuggestionRepository persists which suggestions the user has tried.
type SuggestionRepository struct {
	store storage.Store
}

func NewSuggestionRepository(store storage.Store) *SuggestionRepository {
	return &SuggestionRepository{store: store}
}

func (r *SuggestionRepository) GetTried(ctx context.Context) ([]models.TriedSuggestion, error) {
	var tried []models.TriedSuggestion
	if _, err := loadJSON(ctx, r.store, triedKey, &tried); err != nil {
		return nil, err
	}
	return tried, nil
}

func (r *SuggestionRepository) SaveTried(ctx context.Context, tried []models.TriedSuggestion) error {
	return saveJSON(ctx, r.store, triedKey, tried)
}
