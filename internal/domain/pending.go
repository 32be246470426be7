package domain

// PendingKind identifies which multi-message flow a user is in the
// middle of.
type PendingKind string

const (
	// PendingImportSecret means the next free-text message is consumed
	// as a wallet secret to import.
	PendingImportSecret PendingKind = "AWAITING_IMPORT_SECRET"

	// PendingAmount means the next free-text message is consumed as a
	// numeric amount for a buy or sell.
	PendingAmount PendingKind = "AWAITING_AMOUNT"
)

// IsValid checks if the kind is a valid value.
func (k PendingKind) IsValid() bool {
	return k == PendingImportSecret || k == PendingAmount
}

// PendingAction is the single conversation slot a user can hold.
// Setting a new action replaces any prior one; there is never more than
// one per user.
type PendingAction struct {
	UserID    int64
	Kind      PendingKind
	TokenMint string         // set for PendingAmount
	Direction TradeDirection // set for PendingAmount
	ExpiresAt int64          // unix ms; expired slots read as absent
}
