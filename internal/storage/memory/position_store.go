package memory

import (
	"context"
	"sort"
	"sync"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

// PositionStore is an in-memory implementation of storage.PositionStore.
type PositionStore struct {
	mu   sync.RWMutex
	data map[int64][]domain.Position
}

// NewPositionStore creates a new in-memory position store.
func NewPositionStore() *PositionStore {
	return &PositionStore{
		data: make(map[int64][]domain.Position),
	}
}

// List retrieves all positions for a user, ordered by timestamp ASC.
func (s *PositionStore) List(_ context.Context, userID int64) ([]domain.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.data[userID]
	out := make([]domain.Position, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out, nil
}

// Add appends a position row.
func (s *PositionStore) Add(_ context.Context, userID int64, p domain.Position) error {
	if userID == 0 || p.TokenMint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[userID] = append(s.data[userID], p)
	return nil
}

// RemoveAll removes every row for the given mint.
func (s *PositionStore) RemoveAll(_ context.Context, userID int64, tokenMint string) error {
	if userID == 0 || tokenMint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.data[userID]
	kept := rows[:0]
	for _, p := range rows {
		if p.TokenMint != tokenMint {
			kept = append(kept, p)
		}
	}
	s.data[userID] = kept
	return nil
}
