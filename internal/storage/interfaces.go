package storage

import (
	"context"

	"solana-swap-engine/internal/domain"
)

// WalletStore provides access to wallet storage. Backends serialize
// writers per user key; concurrent handlers must never lose an update.
type WalletStore interface {
	// Insert adds a wallet. Returns ErrDuplicateKey if the user already
	// has one; existing wallets are never overwritten.
	Insert(ctx context.Context, w *domain.Wallet) error

	// Get retrieves the wallet for a user. Returns ErrNotFound if none.
	Get(ctx context.Context, userID int64) (*domain.Wallet, error)

	// Delete removes the wallet for a user. Returns whether one existed.
	Delete(ctx context.Context, userID int64) (bool, error)
}

// SettingsStore provides access to per-user trade settings.
type SettingsStore interface {
	// Get retrieves stored settings or the default record. Never returns
	// an absent value for a valid user.
	Get(ctx context.Context, userID int64) (domain.Settings, error)

	// Update merges the patch onto current-or-default settings and
	// persists the result atomically. Returns the new record.
	Update(ctx context.Context, userID int64, patch domain.SettingsPatch) (domain.Settings, error)
}

// PositionStore provides access to open-position bookkeeping. Rows are
// append-only per executed buy; there is no merge-on-buy.
type PositionStore interface {
	// List retrieves all positions for a user, ordered by timestamp ASC.
	List(ctx context.Context, userID int64) ([]domain.Position, error)

	// Add appends a position row.
	Add(ctx context.Context, userID int64, p domain.Position) error

	// RemoveAll removes every row for the given mint (full exit).
	RemoveAll(ctx context.Context, userID int64, tokenMint string) error
}

// PendingActionStore holds the single conversation slot per user.
type PendingActionStore interface {
	// Set arms the slot, replacing any prior action for the user.
	Set(ctx context.Context, a *domain.PendingAction) error

	// Get retrieves the armed slot. Returns ErrNotFound when the slot is
	// empty or expired.
	Get(ctx context.Context, userID int64) (*domain.PendingAction, error)

	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context, userID int64) error
}

// TradeLogStore is the append-only sink for executed trades.
type TradeLogStore interface {
	// Append records one confirmed trade.
	Append(ctx context.Context, t *domain.ExecutedTrade) error

	// ListByUser retrieves all executed trades for a user, ordered by
	// timestamp ASC.
	ListByUser(ctx context.Context, userID int64) ([]*domain.ExecutedTrade, error)
}
