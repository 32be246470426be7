package domain

import "errors"

// Error taxonomy of the engine. Callers branch on these with errors.Is;
// every failure path wraps exactly one of them.
var (
	// ErrValidation covers malformed addresses, amounts and secrets.
	// Surfaced before any mutation.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyExists is returned when wallet creation or import would
	// overwrite an existing wallet.
	ErrAlreadyExists = errors.New("wallet already exists")

	// ErrNoWallet is returned when an operation needs a wallet and none
	// is on file. Distinct from ErrCustody: there is nothing to recover.
	ErrNoWallet = errors.New("no wallet on file")

	// ErrCustody is returned when stored ciphertext no longer decrypts
	// to usable key material (encryption key rotated since write).
	// Recovery is delete-and-recreate or re-import.
	ErrCustody = errors.New("custody key mismatch")

	// ErrNoLiquidity is returned when the aggregator has no viable route
	// for the requested pair and amount.
	ErrNoLiquidity = errors.New("no liquidity")

	// ErrImpactTooHigh is returned by the risk gate when the quoted
	// price impact exceeds the ceiling. No transaction is built.
	ErrImpactTooHigh = errors.New("price impact too high")

	// ErrInsufficientBalance is returned by the risk gate when the
	// balance cannot cover amount plus priority fee.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNetwork covers unreachable quote/build/RPC collaborators.
	// The operation aborted before submission; safe to retry from scratch.
	ErrNetwork = errors.New("network failure")

	// ErrSubmission means the relay or chain rejected the transaction
	// before finality. No funds moved beyond any network fee.
	ErrSubmission = errors.New("submission rejected")

	// ErrConfirmationTimeout means the validity window expired without a
	// confirmation. The outcome is unknown: the caller must verify chain
	// state independently before assuming failure.
	ErrConfirmationTimeout = errors.New("confirmation timed out")

	// ErrTradeInFlight is returned when a user already has a swap attempt
	// executing. At most one attempt per user may be in flight.
	ErrTradeInFlight = errors.New("trade already in flight")
)
