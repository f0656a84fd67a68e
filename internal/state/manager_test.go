package state

import (
	"context"
	"testing"

	"github.com/ArturZahn/OBBot/internal/client/db/dbtest"
	"github.com/ArturZahn/OBBot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T, m Manager) {
	ctx := context.Background()

	screen, err := m.GetScreen(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, ScreenMain, screen)

	require.NoError(t, m.SetScreen(ctx, 7, ScreenDescriptionPrompt))
	screen, err = m.GetScreen(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, ScreenDescriptionPrompt, screen)

	screen, err = m.GetScreen(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, ScreenMain, screen)

	require.NoError(t, m.SetScreen(ctx, 7, ScreenMain))
	screen, err = m.GetScreen(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, ScreenMain, screen)

	require.NoError(t, m.SetScreen(ctx, 7, ScreenCategoryPicker))
	require.NoError(t, m.ClearScreen(ctx, 7))
	screen, err = m.GetScreen(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, ScreenMain, screen)
}

func TestStateManager(t *testing.T) {
	testManager(t, NewStateManager())
}

func TestDBStateManager(t *testing.T) {
	client := dbtest.New(t)
	testManager(t, NewDBStateManager(repository.NewStateRepository(client.DB())))
}

func TestDBStateManagerSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	client := dbtest.New(t)
	store := repository.NewStateRepository(client.DB())

	require.NoError(t, NewDBStateManager(store).SetScreen(ctx, 3, ScreenCategoryPicker))

	screen, err := NewDBStateManager(store).GetScreen(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, ScreenCategoryPicker, screen)
}
