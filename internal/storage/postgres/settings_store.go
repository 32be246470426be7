package postgres

import (
	"context"
	"fmt"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

// SettingsStore implements storage.SettingsStore using PostgreSQL.
// Update runs the read-merge-write inside one transaction with a row
// lock, so concurrent patches for the same user serialize instead of
// losing writes.
type SettingsStore struct {
	pool *Pool
}

// NewSettingsStore creates a new SettingsStore.
func NewSettingsStore(pool *Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SettingsStore = (*SettingsStore)(nil)

// Get retrieves stored settings or the default record.
func (s *SettingsStore) Get(ctx context.Context, userID int64) (domain.Settings, error) {
	if userID == 0 {
		return domain.Settings{}, storage.ErrInvalidInput
	}

	query := `
		SELECT priority_fee_sol, mev_protection, default_buy_sol, slippage_bps
		FROM user_settings
		WHERE user_id = $1
	`

	var cur domain.Settings
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&cur.PriorityFeeSOL,
		&cur.MevProtection,
		&cur.DefaultBuyAmountSOL,
		&cur.SlippageBps,
	)
	if err != nil {
		if isNotFoundError(err) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return cur, nil
}

// Update merges the patch onto current-or-default settings atomically.
func (s *SettingsStore) Update(ctx context.Context, userID int64, patch domain.SettingsPatch) (domain.Settings, error) {
	if userID == 0 {
		return domain.Settings{}, storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cur := domain.DefaultSettings()
	err = tx.QueryRow(ctx, `
		SELECT priority_fee_sol, mev_protection, default_buy_sol, slippage_bps
		FROM user_settings
		WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(
		&cur.PriorityFeeSOL,
		&cur.MevProtection,
		&cur.DefaultBuyAmountSOL,
		&cur.SlippageBps,
	)
	if err != nil && !isNotFoundError(err) {
		return domain.Settings{}, fmt.Errorf("lock settings: %w", err)
	}

	next := patch.Apply(cur)

	_, err = tx.Exec(ctx, `
		INSERT INTO user_settings (user_id, priority_fee_sol, mev_protection, default_buy_sol, slippage_bps)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			priority_fee_sol = EXCLUDED.priority_fee_sol,
			mev_protection   = EXCLUDED.mev_protection,
			default_buy_sol  = EXCLUDED.default_buy_sol,
			slippage_bps     = EXCLUDED.slippage_bps
	`, userID, next.PriorityFeeSOL, next.MevProtection, next.DefaultBuyAmountSOL, next.SlippageBps)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("upsert settings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Settings{}, fmt.Errorf("commit settings: %w", err)
	}
	return next, nil
}
