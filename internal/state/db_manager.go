package state

import (
	"context"
	"fmt"
)

const screenKeyPrefix = "review.screen."

// Store is the key/value table behind DBStateManager.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// DBStateManager persists screens so a reply to a description prompt is
// still recognised after a restart.
type DBStateManager struct {
	store Store
}

func NewDBStateManager(store Store) *DBStateManager {
	return &DBStateManager{store: store}
}

func (m *DBStateManager) GetScreen(ctx context.Context, reviewID int64) (Screen, error) {
	value, ok, err := m.store.Get(ctx, screenKey(reviewID))
	if err != nil {
		return "", err
	}
	if !ok {
		return ScreenMain, nil
	}
	return Screen(value), nil
}

func (m *DBStateManager) SetScreen(ctx context.Context, reviewID int64, screen Screen) error {
	if screen == ScreenMain {
		return m.store.Delete(ctx, screenKey(reviewID))
	}
	return m.store.Set(ctx, screenKey(reviewID), string(screen))
}

func (m *DBStateManager) ClearScreen(ctx context.Context, reviewID int64) error {
	return m.store.Delete(ctx, screenKey(reviewID))
}

func screenKey(reviewID int64) string {
	return fmt.Sprintf("%s%d", screenKeyPrefix, reviewID)
}
