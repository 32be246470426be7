package executor

import (
	"fmt"
	"sync"

	"solana-swap-engine/internal/domain"
)

// Lease serializes fund-moving operations per user: at most one trade
// or withdrawal may be in flight for a user at any time.
type Lease struct {
	mu   sync.Mutex
	held map[int64]struct{}
}

// NewLease creates an empty lease table.
func NewLease() *Lease {
	return &Lease{held: make(map[int64]struct{})}
}

// Acquire takes the lease for userID or fails with ErrTradeInFlight.
func (l *Lease) Acquire(userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[userID]; ok {
		return fmt.Errorf("user %d: %w", userID, domain.ErrTradeInFlight)
	}
	l.held[userID] = struct{}{}
	return nil
}

// Release returns the lease for userID. Releasing an unheld lease is a
// no-op.
func (l *Lease) Release(userID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, userID)
}
