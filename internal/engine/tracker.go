package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

// PendingTTL is how long an armed conversation slot stays valid. A user
// who walks away mid-flow gets a clean slate instead of a stale prompt.
const PendingTTL = 10 * time.Minute

// Tracker manages the single pending-action slot each user holds
// during a multi-message flow.
type Tracker struct {
	store storage.PendingActionStore
	ttl   time.Duration
	now   func() time.Time
}

// NewTracker creates a Tracker with the default TTL.
func NewTracker(store storage.PendingActionStore) *Tracker {
	return &Tracker{store: store, ttl: PendingTTL, now: time.Now}
}

// AwaitSecret arms the slot: the user's next free-text message is a
// wallet secret.
func (t *Tracker) AwaitSecret(ctx context.Context, userID int64) error {
	return t.set(ctx, &domain.PendingAction{
		UserID: userID,
		Kind:   domain.PendingImportSecret,
	})
}

// AwaitAmount arms the slot: the user's next free-text message is the
// amount for a trade on tokenMint.
func (t *Tracker) AwaitAmount(ctx context.Context, userID int64, tokenMint string, direction domain.TradeDirection) error {
	return t.set(ctx, &domain.PendingAction{
		UserID:    userID,
		Kind:      domain.PendingAmount,
		TokenMint: tokenMint,
		Direction: direction,
	})
}

func (t *Tracker) set(ctx context.Context, a *domain.PendingAction) error {
	a.ExpiresAt = t.now().Add(t.ttl).UnixMilli()
	if err := t.store.Set(ctx, a); err != nil {
		return fmt.Errorf("arm pending action: %w", err)
	}
	return nil
}

// Take consumes the armed slot: the action is returned and cleared in
// one step. Returns nil when the slot is empty or expired.
func (t *Tracker) Take(ctx context.Context, userID int64) (*domain.PendingAction, error) {
	a, err := t.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pending action: %w", err)
	}
	if err := t.store.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear pending action: %w", err)
	}
	return a, nil
}

// Clear empties the slot and reports whether one was armed.
func (t *Tracker) Clear(ctx context.Context, userID int64) (bool, error) {
	_, err := t.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read pending action: %w", err)
	}
	if err := t.store.Clear(ctx, userID); err != nil {
		return false, fmt.Errorf("clear pending action: %w", err)
	}
	return true, nil
}
