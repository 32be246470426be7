package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage/postgres"
)

func TestPositionStore_AppendAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewPositionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, 1, domain.Position{TokenMint: "mintA", AmountRaw: 1_000_000, BuyPriceSOL: 0.5, Timestamp: 1000}))
	require.NoError(t, store.Add(ctx, 1, domain.Position{TokenMint: "mintA", AmountRaw: 2_000_000, BuyPriceSOL: 1.0, Timestamp: 2000}))

	rows, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2, "repeated buys must not merge")

	assert.Equal(t, uint64(1_000_000), rows[0].AmountRaw)
	assert.Equal(t, 0.5, rows[0].BuyPriceSOL)
	assert.Equal(t, uint64(2_000_000), rows[1].AmountRaw)
}

func TestPositionStore_RemoveAllOnlyTargetMint(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewPositionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, 1, domain.Position{TokenMint: "mintA", AmountRaw: 1, BuyPriceSOL: 0.1, Timestamp: 1000}))
	require.NoError(t, store.Add(ctx, 1, domain.Position{TokenMint: "mintA", AmountRaw: 2, BuyPriceSOL: 0.2, Timestamp: 2000}))
	require.NoError(t, store.Add(ctx, 1, domain.Position{TokenMint: "mintB", AmountRaw: 3, BuyPriceSOL: 0.3, Timestamp: 3000}))
	require.NoError(t, store.Add(ctx, 2, domain.Position{TokenMint: "mintA", AmountRaw: 4, BuyPriceSOL: 0.4, Timestamp: 4000}))

	require.NoError(t, store.RemoveAll(ctx, 1, "mintA"))

	rows, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "mintB", rows[0].TokenMint)

	// Other users untouched
	rows, err = store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
