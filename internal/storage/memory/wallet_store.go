package memory

import (
	"context"
	"sync"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

// WalletStore is an in-memory implementation of storage.WalletStore.
type WalletStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.Wallet
}

// NewWalletStore creates a new in-memory wallet store.
func NewWalletStore() *WalletStore {
	return &WalletStore{
		data: make(map[int64]*domain.Wallet),
	}
}

// Insert adds a wallet. Returns ErrDuplicateKey if the user already has one.
func (s *WalletStore) Insert(_ context.Context, w *domain.Wallet) error {
	if w == nil || w.UserID == 0 || w.PublicKey == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[w.UserID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *w
	s.data[w.UserID] = &copy
	return nil
}

// Get retrieves the wallet for a user.
func (s *WalletStore) Get(_ context.Context, userID int64) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.data[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copy := *w
	return &copy, nil
}

// Delete removes the wallet for a user, reporting whether one existed.
func (s *WalletStore) Delete(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.data[userID]
	delete(s.data, userID)
	return existed, nil
}
