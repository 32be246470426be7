package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

func TestTradeLogStore_AppendAndList(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeLogStore(conn)
	ctx := context.Background()

	trades := []*domain.ExecutedTrade{
		{
			UserID:      1,
			TokenMint:   "mintA",
			Direction:   domain.DirectionBuy,
			InAmount:    500_000_000,
			OutAmount:   1_250_000,
			PriceImpact: 0.05,
			Signature:   "sig1",
			Route:       domain.RouteRelay,
			Timestamp:   1000,
		},
		{
			UserID:      1,
			TokenMint:   "mintA",
			Direction:   domain.DirectionSell,
			InAmount:    1_250_000,
			OutAmount:   490_000_000,
			PriceImpact: 0.01,
			Signature:   "sig2",
			Route:       domain.RouteDirect,
			Timestamp:   2000,
		},
		{
			UserID:    2,
			TokenMint: "mintB",
			Direction: domain.DirectionBuy,
			Signature: "sig3",
			Route:     domain.RouteDirect,
			Timestamp: 1500,
		},
	}
	for _, tr := range trades {
		require.NoError(t, store.Append(ctx, tr))
	}

	got, err := store.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "sig1", got[0].Signature)
	assert.Equal(t, domain.DirectionBuy, got[0].Direction)
	assert.Equal(t, uint64(500_000_000), got[0].InAmount)
	assert.Equal(t, "sig2", got[1].Signature)
	assert.Equal(t, domain.RouteDirect, got[1].Route)
}

func TestTradeLogStore_RejectsInvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeLogStore(conn)
	ctx := context.Background()

	err := store.Append(ctx, &domain.ExecutedTrade{UserID: 0, Signature: "sig"})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.Append(ctx, &domain.ExecutedTrade{UserID: 1, Signature: ""})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
