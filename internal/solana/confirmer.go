package solana

import (
	"context"
	"fmt"
	"time"

	"solana-swap-engine/internal/domain"
)

// DefaultPollInterval is how often the confirmer falls back to polling
// getSignatureStatuses when no WebSocket notification has arrived.
const DefaultPollInterval = 2 * time.Second

// Confirmer tracks a submitted transaction until it is confirmed or its
// blockhash expires. A WebSocket signature subscription is the fast
// path; status polling runs underneath it so a missed notification
// never strands a confirmation.
type Confirmer struct {
	rpc          RPCClient
	ws           WSClient
	pollInterval time.Duration
}

// ConfirmerOption configures Confirmer.
type ConfirmerOption func(*Confirmer)

// WithPollInterval sets the status polling interval.
func WithPollInterval(d time.Duration) ConfirmerOption {
	return func(c *Confirmer) {
		c.pollInterval = d
	}
}

// NewConfirmer builds a Confirmer. ws may be nil, in which case only
// polling is used.
func NewConfirmer(rpc RPCClient, ws WSClient, opts ...ConfirmerOption) *Confirmer {
	c := &Confirmer{
		rpc:          rpc,
		ws:           ws,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Confirm blocks until signature reaches confirmed commitment, fails
// on-chain, or the chain advances past lastValidBlockHeight. Expiry is
// double-checked against transaction history before being reported as
// domain.ErrConfirmationTimeout, so a landed transaction is never
// declared lost.
func (c *Confirmer) Confirm(ctx context.Context, signature string, lastValidBlockHeight uint64) error {
	var wsCh <-chan SignatureNotification
	if c.ws != nil {
		// Subscription failures degrade to polling only.
		if ch, err := c.ws.SubscribeSignature(ctx, signature); err == nil {
			wsCh = ch
		}
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation of %s aborted: %w", signature, domain.ErrConfirmationTimeout)

		case notif, ok := <-wsCh:
			if !ok {
				wsCh = nil
				continue
			}
			if notif.Err != nil {
				return fmt.Errorf("transaction %s failed on-chain: %v: %w",
					signature, notif.Err, domain.ErrSubmission)
			}
			return nil

		case <-ticker.C:
			status, err := c.status(ctx, signature, false)
			if err != nil {
				// Transient RPC trouble, keep waiting
				continue
			}
			if status != nil {
				if status.Err != nil {
					return fmt.Errorf("transaction %s failed on-chain: %v: %w",
						signature, status.Err, domain.ErrSubmission)
				}
				if status.Confirmed() {
					return nil
				}
				continue
			}

			height, err := c.rpc.GetBlockHeight(ctx)
			if err != nil {
				continue
			}
			if height > lastValidBlockHeight {
				return c.expire(ctx, signature)
			}
		}
	}
}

// expire runs the reconciliation probe after the blockhash window
// closed: the transaction may have landed without the status cache
// ever showing it.
func (c *Confirmer) expire(ctx context.Context, signature string) error {
	status, err := c.status(ctx, signature, true)
	if err != nil || status == nil {
		return fmt.Errorf("blockhash expired for %s: %w", signature, domain.ErrConfirmationTimeout)
	}
	if status.Err != nil {
		return fmt.Errorf("transaction %s failed on-chain: %v: %w",
			signature, status.Err, domain.ErrSubmission)
	}
	return nil
}

// Reconcile reports whether signature landed, consulting transaction
// history beyond the node's recent status cache.
func (c *Confirmer) Reconcile(ctx context.Context, signature string) (*SignatureStatus, error) {
	return c.status(ctx, signature, true)
}

func (c *Confirmer) status(ctx context.Context, signature string, searchHistory bool) (*SignatureStatus, error) {
	statuses, err := c.rpc.GetSignatureStatuses(ctx, []string{signature}, searchHistory)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, nil
	}
	return statuses[0], nil
}
