package postgres

import (
	"context"
	"fmt"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

// PositionStore implements storage.PositionStore using PostgreSQL.
type PositionStore struct {
	pool *Pool
}

// NewPositionStore creates a new PositionStore.
func NewPositionStore(pool *Pool) *PositionStore {
	return &PositionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PositionStore = (*PositionStore)(nil)

// List retrieves all positions for a user, ordered by timestamp ASC.
func (s *PositionStore) List(ctx context.Context, userID int64) ([]domain.Position, error) {
	query := `
		SELECT token_mint, amount_raw, buy_price_sol, created_at
		FROM positions
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var out []domain.Position
	for rows.Next() {
		var p domain.Position
		var amountRaw int64
		if err := rows.Scan(&p.TokenMint, &amountRaw, &p.BuyPriceSOL, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		p.AmountRaw = uint64(amountRaw)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}
	return out, nil
}

// Add appends a position row. Repeated buys of the same mint make
// separate rows; cost basis is never merged.
func (s *PositionStore) Add(ctx context.Context, userID int64, p domain.Position) error {
	if userID == 0 || p.TokenMint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO positions (user_id, token_mint, amount_raw, buy_price_sol, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, userID, p.TokenMint, int64(p.AmountRaw), p.BuyPriceSOL, p.Timestamp)
	if err != nil {
		return fmt.Errorf("add position: %w", err)
	}
	return nil
}

// RemoveAll removes every row for the given mint.
func (s *PositionStore) RemoveAll(ctx context.Context, userID int64, tokenMint string) error {
	if userID == 0 || tokenMint == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx,
		`DELETE FROM positions WHERE user_id = $1 AND token_mint = $2`,
		userID, tokenMint)
	if err != nil {
		return fmt.Errorf("remove positions: %w", err)
	}
	return nil
}
