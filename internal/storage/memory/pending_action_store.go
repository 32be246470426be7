package memory

import (
	"context"
	"sync"
	"time"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

// PendingActionStore is an in-memory implementation of
// storage.PendingActionStore. One slot per user, replace-on-set.
// Expired slots are swept lazily on read.
type PendingActionStore struct {
	mu   sync.Mutex
	data map[int64]*domain.PendingAction
	now  func() time.Time
}

// NewPendingActionStore creates a new in-memory pending-action store.
func NewPendingActionStore() *PendingActionStore {
	return &PendingActionStore{
		data: make(map[int64]*domain.PendingAction),
		now:  time.Now,
	}
}

// Set arms the slot, replacing any prior action for the user.
func (s *PendingActionStore) Set(_ context.Context, a *domain.PendingAction) error {
	if a == nil || a.UserID == 0 || !a.Kind.IsValid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *a
	s.data[a.UserID] = &copy
	return nil
}

// Get retrieves the armed slot. Expired entries read as absent.
func (s *PendingActionStore) Get(_ context.Context, userID int64) (*domain.PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.data[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	if a.ExpiresAt > 0 && s.now().UnixMilli() >= a.ExpiresAt {
		delete(s.data, userID)
		return nil, storage.ErrNotFound
	}

	copy := *a
	return &copy, nil
}

// Clear empties the slot.
func (s *PendingActionStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, userID)
	return nil
}
