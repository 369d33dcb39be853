package repository

import (
	"context"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/storage"
)

// GoalRepository persists the goals.
type GoalRepository struct {
	store storage.Store
}

func NewGoalRepository(store storage.Store) *GoalRepository {
	return &GoalRepository{store: store}
}

func (r *GoalRepository) GetAll(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	if _, err := loadJSON(ctx, r.store, goalsKey, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *GoalRepository) SaveAll(ctx context.Context, goals []models.Goal) error {
	return saveJSON(ctx, r.store, goalsKey, goals)
}
