package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage/postgres"
)

func TestSettingsStore_DefaultsForUnknownUser(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewSettingsStore(pool)

	got, err := store.Get(context.Background(), 555)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), got)
}

func TestSettingsStore_UpdateMergesAndPersists(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewSettingsStore(pool)
	ctx := context.Background()

	updated, err := store.Update(ctx, 7, domain.SettingsPatch{PriorityFeeSOL: ptr(0.01)})
	require.NoError(t, err)
	assert.Equal(t, 0.01, updated.PriorityFeeSOL)
	assert.Equal(t, domain.DefaultSettings().SlippageBps, updated.SlippageBps)

	updated, err = store.Update(ctx, 7, domain.SettingsPatch{SlippageBps: ptr(500)})
	require.NoError(t, err)
	assert.Equal(t, 0.01, updated.PriorityFeeSOL, "prior partial update must survive")
	assert.Equal(t, 500, updated.SlippageBps)

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestSettingsStore_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewSettingsStore(pool)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := store.Update(ctx, 9, domain.SettingsPatch{PriorityFeeSOL: ptr(0.05)})
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := store.Update(ctx, 9, domain.SettingsPatch{SlippageBps: ptr(2000)})
		assert.NoError(t, err)
	}()
	wg.Wait()

	got, err := store.Get(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 0.05, got.PriorityFeeSOL)
	assert.Equal(t, 2000, got.SlippageBps)
}
