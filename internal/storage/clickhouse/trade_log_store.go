package clickhouse

import (
	"context"
	"fmt"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

// TradeLogStore implements storage.TradeLogStore using ClickHouse.
// The log is append-only analytics data; the engine writes one row per
// confirmed swap and never updates or deletes.
type TradeLogStore struct {
	conn *Conn
}

// NewTradeLogStore creates a new TradeLogStore.
func NewTradeLogStore(conn *Conn) *TradeLogStore {
	return &TradeLogStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeLogStore = (*TradeLogStore)(nil)

// Append records one confirmed trade.
func (s *TradeLogStore) Append(ctx context.Context, t *domain.ExecutedTrade) error {
	if t == nil || t.UserID == 0 || t.Signature == "" {
		return storage.ErrInvalidInput
	}

	err := s.conn.Exec(ctx, `
		INSERT INTO executed_trades (
			user_id, token_mint, direction, in_amount, out_amount,
			price_impact, signature, route, timestamp_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.UserID,
		t.TokenMint,
		string(t.Direction),
		t.InAmount,
		t.OutAmount,
		t.PriceImpact,
		t.Signature,
		t.Route,
		t.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append executed trade: %w", err)
	}
	return nil
}

// ListByUser retrieves all executed trades for a user, ordered by timestamp ASC.
func (s *TradeLogStore) ListByUser(ctx context.Context, userID int64) ([]*domain.ExecutedTrade, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT user_id, token_mint, direction, in_amount, out_amount,
		       price_impact, signature, route, timestamp_ms
		FROM executed_trades
		WHERE user_id = ?
		ORDER BY timestamp_ms ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query executed trades: %w", err)
	}
	defer rows.Close()

	var out []*domain.ExecutedTrade
	for rows.Next() {
		var t domain.ExecutedTrade
		var direction string
		if err := rows.Scan(
			&t.UserID,
			&t.TokenMint,
			&direction,
			&t.InAmount,
			&t.OutAmount,
			&t.PriceImpact,
			&t.Signature,
			&t.Route,
			&t.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan executed trade: %w", err)
		}
		t.Direction = domain.TradeDirection(direction)
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate executed trades: %w", err)
	}
	return out, nil
}
