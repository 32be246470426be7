package executor

import (
	"context"
	"encoding/base64"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/mr-tron/base58"

	"solana-swap-engine/internal/domain"
)

// WithdrawFeeLamports is the flat network fee reserved on top of the
// withdrawn amount.
const WithdrawFeeLamports = 5_000

// WithdrawResult reports a confirmed withdrawal.
type WithdrawResult struct {
	Signature string
	Lamports  uint64
}

// Withdraw moves amountSOL from the user's wallet to recipient as a
// system transfer. It shares the per-user lease with trades, so a
// withdrawal cannot race a swap on the same balance.
func (e *Executor) Withdraw(ctx context.Context, userID int64, recipient string, amountSOL float64) (*WithdrawResult, error) {
	if amountSOL <= 0 {
		return nil, fmt.Errorf("withdraw amount %f: %w", amountSOL, domain.ErrValidation)
	}
	recipientKey, err := parseRecipient(recipient)
	if err != nil {
		return nil, err
	}

	if err := e.lease.Acquire(userID); err != nil {
		return nil, err
	}
	defer e.lease.Release(userID)

	wallet, err := e.vault.Wallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	owner, err := solana.PublicKeyFromBase58(wallet.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("stored public key %q: %w", wallet.PublicKey, domain.ErrCustody)
	}

	lamports := uint64(amountSOL * domain.LamportsPerSOL)
	balance, err := e.rpc.GetBalance(ctx, wallet.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("balance check: %v: %w", err, domain.ErrNetwork)
	}
	if balance < lamports+WithdrawFeeLamports {
		return nil, fmt.Errorf("balance %d lamports, need %d: %w",
			balance, lamports+WithdrawFeeLamports, domain.ErrInsufficientBalance)
	}

	blockhash, err := e.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("get blockhash: %v: %w", err, domain.ErrNetwork)
	}
	hash, err := solana.HashFromBase58(blockhash.Hash)
	if err != nil {
		return nil, fmt.Errorf("parse blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, owner, recipientKey).Build(),
		},
		hash,
		solana.TransactionPayer(owner),
	)
	if err != nil {
		return nil, fmt.Errorf("build transfer: %w", err)
	}

	signer, err := e.vault.SignerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := signer.SignTransaction(tx); err != nil {
		return nil, err
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode transfer: %w", err)
	}

	// Withdrawals carry no MEV risk, the direct path is enough.
	submission, err := e.submitter.Submit(ctx, base64.StdEncoding.EncodeToString(raw), false)
	if err != nil {
		return nil, err
	}
	if err := e.confirmer.Confirm(ctx, submission.Signature, blockhash.LastValidBlockHeight); err != nil {
		return nil, err
	}

	e.log.WithFields(map[string]interface{}{
		"user":      userID,
		"lamports":  lamports,
		"signature": submission.Signature,
	}).Info("withdrawal confirmed")

	return &WithdrawResult{Signature: submission.Signature, Lamports: lamports}, nil
}

// parseRecipient validates that recipient is a base58 ed25519 public
// key on the curve, rejecting program-derived addresses.
func parseRecipient(recipient string) (solana.PublicKey, error) {
	raw, err := base58.Decode(recipient)
	if err != nil || len(raw) != solana.PublicKeyLength {
		return solana.PublicKey{}, fmt.Errorf("recipient %q is not a valid address: %w", recipient, domain.ErrValidation)
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return solana.PublicKey{}, fmt.Errorf("recipient %q is not on the ed25519 curve: %w", recipient, domain.ErrValidation)
	}
	return solana.PublicKeyFromBytes(raw), nil
}
