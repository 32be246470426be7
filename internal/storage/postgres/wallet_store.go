package postgres

import (
	"context"
	"fmt"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

// WalletStore implements storage.WalletStore using PostgreSQL.
// The primary key on user_id makes every insert race-free: the second
// concurrent create for the same user fails with ErrDuplicateKey.
type WalletStore struct {
	pool *Pool
}

// NewWalletStore creates a new WalletStore.
func NewWalletStore(pool *Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WalletStore = (*WalletStore)(nil)

// Insert adds a wallet. Returns ErrDuplicateKey if the user already has one.
func (s *WalletStore) Insert(ctx context.Context, w *domain.Wallet) error {
	if w == nil || w.UserID == 0 || w.PublicKey == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO wallets (user_id, public_key, encrypted_secret, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, w.UserID, w.PublicKey, w.EncryptedSecret, w.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// Get retrieves the wallet for a user. Returns ErrNotFound if none.
func (s *WalletStore) Get(ctx context.Context, userID int64) (*domain.Wallet, error) {
	query := `
		SELECT user_id, public_key, encrypted_secret, created_at
		FROM wallets
		WHERE user_id = $1
	`

	var w domain.Wallet
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&w.UserID,
		&w.PublicKey,
		&w.EncryptedSecret,
		&w.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

// Delete removes the wallet for a user, reporting whether one existed.
func (s *WalletStore) Delete(ctx context.Context, userID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("delete wallet: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
