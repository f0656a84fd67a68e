package state

import (
	"context"
	"sync"
)

// Screen is what the chat currently shows for a review. It is not a review
// status: the review stays awaiting_user on every screen.
type Screen string

const (
	ScreenMain              Screen = "main"
	ScreenCategoryPicker    Screen = "category_picker"
	ScreenDescriptionPrompt Screen = "description_prompt"
)

type Manager interface {
	GetScreen(ctx context.Context, reviewID int64) (Screen, error)
	SetScreen(ctx context.Context, reviewID int64, screen Screen) error
	ClearScreen(ctx context.Context, reviewID int64) error
}

// StateManager keeps screens in memory. Used by the standalone review job
// and tests.
type StateManager struct {
	screens map[int64]Screen
	mu      sync.RWMutex
}

func NewStateManager() *StateManager {
	return &StateManager{
		screens: make(map[int64]Screen),
	}
}

func (sm *StateManager) GetScreen(_ context.Context, reviewID int64) (Screen, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if screen, exists := sm.screens[reviewID]; exists {
		return screen, nil
	}
	return ScreenMain, nil
}

func (sm *StateManager) SetScreen(_ context.Context, reviewID int64, screen Screen) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.screens[reviewID] = screen
	return nil
}

func (sm *StateManager) ClearScreen(_ context.Context, reviewID int64) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.screens, reviewID)
	return nil
}
