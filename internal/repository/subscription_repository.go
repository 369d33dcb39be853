package repository

import (
	"context"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/storage"
)

// SubscriptionRepository persists the trial/premium state.
type SubscriptionRepository struct {
	store storage.Store
}

func NewSubscriptionRepository(store storage.Store) *SubscriptionRepository {
	return &SubscriptionRepository{store: store}
}

func (r *SubscriptionRepository) Get(ctx context.Context) (models.Subscription, error) {
	var sub models.Subscription
	if _, err := loadJSON(ctx, r.store, subscriptionKey, &sub); err != nil {
		return models.Subscription{}, err
	}
	return sub, nil
}

func (r *SubscriptionRepository) Save(ctx context.Context, sub models.Subscription) error {
	return saveJSON(ctx, r.store, subscriptionKey, sub)
}
