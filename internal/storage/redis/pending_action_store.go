// Package redis provides a Redis-backed pending-action store. The
// conversation slot is ephemeral state, so it lives well in Redis:
// native key expiry covers the TTL and SET replaces atomically.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

// PendingActionStore implements storage.PendingActionStore using Redis.
type PendingActionStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewPendingActionStore creates a new Redis pending-action store.
func NewPendingActionStore(client *redis.Client) *PendingActionStore {
	return &PendingActionStore{
		client: client,
		prefix: "pending_action:",
		now:    time.Now,
	}
}

// Compile-time interface check.
var _ storage.PendingActionStore = (*PendingActionStore)(nil)

func (s *PendingActionStore) key(userID int64) string {
	return fmt.Sprintf("%s%d", s.prefix, userID)
}

// Set arms the slot, replacing any prior action for the user. When the
// action carries an expiry, the key expires natively.
func (s *PendingActionStore) Set(ctx context.Context, a *domain.PendingAction) error {
	if a == nil || a.UserID == 0 || !a.Kind.IsValid() {
		return storage.ErrInvalidInput
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal pending action: %w", err)
	}

	var ttl time.Duration
	if a.ExpiresAt > 0 {
		ttl = time.UnixMilli(a.ExpiresAt).Sub(s.now())
		if ttl <= 0 {
			return storage.ErrInvalidInput
		}
	}

	if err := s.client.Set(ctx, s.key(a.UserID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("set pending action: %w", err)
	}
	return nil
}

// Get retrieves the armed slot. Expired keys read as absent.
func (s *PendingActionStore) Get(ctx context.Context, userID int64) (*domain.PendingAction, error) {
	payload, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pending action: %w", err)
	}

	var a domain.PendingAction
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("unmarshal pending action: %w", err)
	}
	return &a, nil
}

// Clear empties the slot. Clearing an empty slot is not an error.
func (s *PendingActionStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("clear pending action: %w", err)
	}
	return nil
}
