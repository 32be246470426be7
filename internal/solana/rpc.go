// Package solana provides JSON-RPC and WebSocket clients for the parts
// of the Solana node API the swap engine needs: balances, blockhashes,
// transaction submission and confirmation tracking.
package solana

import "context"

// RPCClient defines the Solana RPC HTTP interface.
type RPCClient interface {
	// GetBalance returns the lamport balance of a public key.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)

	// GetTokenBalance returns the raw token amount held by owner for
	// mint, taken from the owner's largest token account.
	GetTokenBalance(ctx context.Context, owner, mint string) (uint64, error)

	// GetLatestBlockhash returns a recent blockhash and the last block
	// height at which a transaction built on it is still valid.
	GetLatestBlockhash(ctx context.Context) (*Blockhash, error)

	// GetBlockHeight returns the current block height.
	GetBlockHeight(ctx context.Context) (uint64, error)

	// SendTransaction submits a base64-encoded signed transaction and
	// returns its signature.
	SendTransaction(ctx context.Context, txBase64 string, opts *SendOpts) (string, error)

	// GetSignatureStatuses returns the status of each signature, nil
	// for signatures the node has not seen. searchHistory widens the
	// lookup beyond the node's recent status cache.
	GetSignatureStatuses(ctx context.Context, signatures []string, searchHistory bool) ([]*SignatureStatus, error)
}
