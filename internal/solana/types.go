package solana

// Blockhash is the result of getLatestBlockhash.
type Blockhash struct {
	Hash                 string
	LastValidBlockHeight uint64
}

// SendOpts defines optional parameters for sendTransaction.
type SendOpts struct {
	SkipPreflight bool
	MaxRetries    int // node-side resend attempts
}

// SignatureStatus is one entry from getSignatureStatuses.
type SignatureStatus struct {
	Slot               uint64
	Confirmations      *uint64
	ConfirmationStatus string // "processed", "confirmed" or "finalized"
	Err                interface{}
}

// Confirmed reports whether the transaction reached at least the
// confirmed commitment level.
func (s *SignatureStatus) Confirmed() bool {
	return s.ConfirmationStatus == "confirmed" || s.ConfirmationStatus == "finalized"
}
