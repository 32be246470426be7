package memory

import (
	"context"
	"sync"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

// SettingsStore is an in-memory implementation of storage.SettingsStore.
// Updates are read-modify-write under one lock, so concurrent patches
// for the same user cannot lose writes.
type SettingsStore struct {
	mu   sync.RWMutex
	data map[int64]domain.Settings
}

// NewSettingsStore creates a new in-memory settings store.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{
		data: make(map[int64]domain.Settings),
	}
}

// Get retrieves stored settings or the default record.
func (s *SettingsStore) Get(_ context.Context, userID int64) (domain.Settings, error) {
	if userID == 0 {
		return domain.Settings{}, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if cur, ok := s.data[userID]; ok {
		return cur, nil
	}
	return domain.DefaultSettings(), nil
}

// Update merges the patch onto current-or-default settings atomically.
func (s *SettingsStore) Update(_ context.Context, userID int64, patch domain.SettingsPatch) (domain.Settings, error) {
	if userID == 0 {
		return domain.Settings{}, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.data[userID]
	if !ok {
		cur = domain.DefaultSettings()
	}
	next := patch.Apply(cur)
	s.data[userID] = next
	return next, nil
}
