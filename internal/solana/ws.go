package solana

import "context"

// WSClient defines the Solana WebSocket subscription interface.
type WSClient interface {
	// SubscribeSignature subscribes to the confirmation of a single
	// transaction signature. The node delivers at most one notification
	// per subscription; the channel is closed after it arrives.
	SubscribeSignature(ctx context.Context, signature string) (<-chan SignatureNotification, error)

	// Close closes the WebSocket connection.
	Close() error
}

// SignatureNotification is the one-shot message of a signature
// subscription. A nil Err means the transaction landed successfully.
type SignatureNotification struct {
	Signature string
	Slot      int64
	Err       interface{}
}
