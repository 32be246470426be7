package memory

import (
	"context"
	"sort"
	"sync"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

// TradeLogStore is an in-memory implementation of storage.TradeLogStore.
type TradeLogStore struct {
	mu   sync.RWMutex
	data []*domain.ExecutedTrade
}

// NewTradeLogStore creates a new in-memory trade log.
func NewTradeLogStore() *TradeLogStore {
	return &TradeLogStore{}
}

// Append records one confirmed trade.
func (s *TradeLogStore) Append(_ context.Context, t *domain.ExecutedTrade) error {
	if t == nil || t.UserID == 0 || t.Signature == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *t
	s.data = append(s.data, &copy)
	return nil
}

// ListByUser retrieves all executed trades for a user, ordered by timestamp ASC.
func (s *TradeLogStore) ListByUser(_ context.Context, userID int64) ([]*domain.ExecutedTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.ExecutedTrade
	for _, t := range s.data {
		if t.UserID == userID {
			copy := *t
			out = append(out, &copy)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out, nil
}
