package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

func TestPendingActionStore_SingleSlotReplaces(t *testing.T) {
	store := NewPendingActionStore()
	ctx := context.Background()

	first := &domain.PendingAction{UserID: 1, Kind: domain.PendingImportSecret}
	if err := store.Set(ctx, first); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	second := &domain.PendingAction{
		UserID:    1,
		Kind:      domain.PendingAmount,
		TokenMint: "mintA",
		Direction: domain.DirectionBuy,
	}
	if err := store.Set(ctx, second); err != nil {
		t.Fatalf("Second set failed: %v", err)
	}

	got, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Kind != domain.PendingAmount {
		t.Errorf("Slot not replaced: got %s", got.Kind)
	}
	if got.TokenMint != "mintA" {
		t.Errorf("TokenMint mismatch: got %s", got.TokenMint)
	}
}

func TestPendingActionStore_ClearUnconditionally(t *testing.T) {
	store := NewPendingActionStore()
	ctx := context.Background()

	store.Set(ctx, &domain.PendingAction{UserID: 1, Kind: domain.PendingImportSecret})

	if err := store.Clear(ctx, 1); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Get(ctx, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after clear, got %v", err)
	}

	// Clearing an empty slot is not an error
	if err := store.Clear(ctx, 1); err != nil {
		t.Errorf("Clear on empty slot failed: %v", err)
	}
}

func TestPendingActionStore_ExpiredReadsAsAbsent(t *testing.T) {
	store := NewPendingActionStore()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	a := &domain.PendingAction{
		UserID:    1,
		Kind:      domain.PendingImportSecret,
		ExpiresAt: now.Add(10 * time.Minute).UnixMilli(),
	}
	if err := store.Set(ctx, a); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := store.Get(ctx, 1); err != nil {
		t.Fatalf("Get before expiry failed: %v", err)
	}

	store.now = func() time.Time { return now.Add(11 * time.Minute) }

	if _, err := store.Get(ctx, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after expiry, got %v", err)
	}
}

func TestPendingActionStore_InvalidKind(t *testing.T) {
	store := NewPendingActionStore()

	err := store.Set(context.Background(), &domain.PendingAction{UserID: 1, Kind: "BOGUS"})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
