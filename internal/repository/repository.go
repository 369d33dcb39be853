// Package repository persists the journal's collections in the key-value
// store, one JSON document per well-known key.
package repository

import (
	"context"
	"encoding/json"

	"github.com/clemarais/moodjournal/internal/storage"
)

// Storage keys. These are part of the persisted format and must not
// change.
const (
	remindersKey    = "reminders"
	entriesKey      = "moodJournal"
	goalsKey        = "moodGoals"
	settingsKey     = "settings"
	subscriptionKey = "trialStatus"
	triedKey        = "triedSuggestions"
)

// loadJSON reads and decodes the value under key. A missing key reports
// ok=false with no error.
func loadJSON(ctx context.Context, store storage.Store, key string, out interface{}) (bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return false, &storage.Error{Op: "get", Key: key, Err: err}
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, &storage.Error{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

func saveJSON(ctx context.Context, store storage.Store, key string, in interface{}) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return &storage.Error{Op: "encode", Key: key, Err: err}
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return &storage.Error{Op: "set", Key: key, Err: err}
	}
	return nil
}
