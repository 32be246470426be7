package memory

import (
	"context"
	"testing"

	"solana-swap-engine/internal/domain"
)

func TestPositionStore_AppendNeverMerges(t *testing.T) {
	store := NewPositionStore()
	ctx := context.Background()

	// Two buys of the same mint produce two rows
	if err := store.Add(ctx, 1, domain.Position{TokenMint: "mintA", AmountRaw: 100, BuyPriceSOL: 0.5, Timestamp: 1000}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Add(ctx, 1, domain.Position{TokenMint: "mintA", AmountRaw: 200, BuyPriceSOL: 1.0, Timestamp: 2000}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	rows, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].BuyPriceSOL != 0.5 || rows[1].BuyPriceSOL != 1.0 {
		t.Errorf("Cost basis history lost: %+v", rows)
	}
}

func TestPositionStore_RemoveAllByMint(t *testing.T) {
	store := NewPositionStore()
	ctx := context.Background()

	store.Add(ctx, 1, domain.Position{TokenMint: "mintA", Timestamp: 1000})
	store.Add(ctx, 1, domain.Position{TokenMint: "mintA", Timestamp: 2000})
	store.Add(ctx, 1, domain.Position{TokenMint: "mintB", Timestamp: 3000})

	if err := store.RemoveAll(ctx, 1, "mintA"); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}

	rows, _ := store.List(ctx, 1)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].TokenMint != "mintB" {
		t.Errorf("Wrong mint removed: %+v", rows)
	}
}

func TestPositionStore_UsersIsolated(t *testing.T) {
	store := NewPositionStore()
	ctx := context.Background()

	store.Add(ctx, 1, domain.Position{TokenMint: "mintA", Timestamp: 1000})
	store.Add(ctx, 2, domain.Position{TokenMint: "mintA", Timestamp: 1000})

	if err := store.RemoveAll(ctx, 1, "mintA"); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}

	rows, _ := store.List(ctx, 2)
	if len(rows) != 1 {
		t.Errorf("Other user's positions affected: got %d rows", len(rows))
	}
}

func TestPositionStore_ListEmpty(t *testing.T) {
	store := NewPositionStore()

	rows, err := store.List(context.Background(), 99)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
}
