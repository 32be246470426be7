// Package executor drives a swap through its full lifecycle: quote,
// risk checks, build, sign, submit, confirm, and ledger bookkeeping.
package executor

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/relay"
	solrpc "solana-swap-engine/internal/solana"
	"solana-swap-engine/internal/storage"
	"solana-swap-engine/internal/vault"
)

// MaxPriceImpact is the hard ceiling on quoted price impact. Quotes
// above it are rejected regardless of the user's slippage setting.
const MaxPriceImpact = 0.30

// Quoter obtains swap quotes and builds unsigned transactions.
type Quoter interface {
	Quote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*domain.Quote, error)
	BuildSwap(ctx context.Context, quote *domain.Quote, userPublicKey string, priorityFeeLamports uint64) (string, error)
}

// Submitter sends signed transactions to the chain.
type Submitter interface {
	Submit(ctx context.Context, txBase64 string, protected bool) (*relay.Submission, error)
}

// TxConfirmer tracks a submitted signature to a terminal outcome.
type TxConfirmer interface {
	Confirm(ctx context.Context, signature string, lastValidBlockHeight uint64) error
}

// Metrics receives trade outcome observations. Implementations must be
// safe for concurrent use.
type Metrics interface {
	ObserveTrade(direction, outcome string, seconds float64)
}

// Deps wires an Executor. Trades, Metrics and Logger are optional.
type Deps struct {
	Vault     *vault.Vault
	RPC       solrpc.RPCClient
	Quoter    Quoter
	Submitter Submitter
	Confirmer TxConfirmer
	Settings  storage.SettingsStore
	Positions storage.PositionStore
	Trades    storage.TradeLogStore
	Metrics   Metrics
	Logger    logrus.FieldLogger
}

// Executor owns trade execution for all users. A per-user lease keeps
// concurrent requests from double-spending the same balance.
type Executor struct {
	vault     *vault.Vault
	rpc       solrpc.RPCClient
	quoter    Quoter
	submitter Submitter
	confirmer TxConfirmer
	settings  storage.SettingsStore
	positions storage.PositionStore
	trades    storage.TradeLogStore
	metrics   Metrics
	lease     *Lease
	log       logrus.FieldLogger
	now       func() time.Time
}

// New creates an Executor from deps.
func New(deps Deps) *Executor {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Executor{
		vault:     deps.Vault,
		rpc:       deps.RPC,
		quoter:    deps.Quoter,
		submitter: deps.Submitter,
		confirmer: deps.Confirmer,
		settings:  deps.Settings,
		positions: deps.Positions,
		trades:    deps.Trades,
		metrics:   deps.Metrics,
		lease:     NewLease(),
		log:       log,
		now:       time.Now,
	}
}

// Execute runs one swap to a terminal state. The quote is fetched
// fresh inside the leased section and consumed by exactly one build;
// nothing is ever re-signed or re-quoted on failure.
func (e *Executor) Execute(ctx context.Context, req domain.TradeRequest) (*domain.TradeResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if err := e.lease.Acquire(req.UserID); err != nil {
		return nil, err
	}
	defer e.lease.Release(req.UserID)

	started := e.now()
	result, err := e.execute(ctx, req)
	e.observe(req.Direction, err, e.now().Sub(started))
	return result, err
}

func validateRequest(req domain.TradeRequest) error {
	if !req.Direction.IsValid() {
		return fmt.Errorf("direction %q: %w", req.Direction, domain.ErrValidation)
	}
	if req.TokenMint == "" {
		return fmt.Errorf("empty token mint: %w", domain.ErrValidation)
	}
	if req.Direction == domain.DirectionBuy && req.AmountSOL <= 0 {
		return fmt.Errorf("buy amount %f: %w", req.AmountSOL, domain.ErrValidation)
	}
	if req.Direction == domain.DirectionSell && (req.SellPercent < 1 || req.SellPercent > 100) {
		return fmt.Errorf("sell percent %d: %w", req.SellPercent, domain.ErrValidation)
	}
	return nil
}

func (e *Executor) execute(ctx context.Context, req domain.TradeRequest) (*domain.TradeResult, error) {
	log := e.log.WithFields(logrus.Fields{
		"user":      req.UserID,
		"mint":      req.TokenMint,
		"direction": req.Direction,
	})

	wallet, err := e.vault.Wallet(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	settings, err := e.settings.Get(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	priorityFeeLamports := uint64(settings.PriorityFeeSOL * domain.LamportsPerSOL)

	inputMint, outputMint, inAmount, err := e.resolveLegs(ctx, req, wallet.PublicKey)
	if err != nil {
		return nil, err
	}

	log.WithField("stage", domain.StageQuoteRequested).Debug("requesting quote")
	quote, err := e.quoter.Quote(ctx, inputMint, outputMint, inAmount, settings.SlippageBps)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"stage":  domain.StageQuoted,
		"in":     quote.InAmount,
		"out":    quote.OutAmount,
		"impact": quote.PriceImpact,
	}).Debug("quote received")

	if err := e.riskCheck(ctx, req, quote, wallet.PublicKey, priorityFeeLamports); err != nil {
		return nil, err
	}

	unsignedTx, err := e.quoter.BuildSwap(ctx, quote, wallet.PublicKey, priorityFeeLamports)
	if err != nil {
		return nil, err
	}
	log.WithField("stage", domain.StageBuilt).Debug("swap transaction built")

	// Fetched before submission so the confirmation window is bounded
	// by a height at least as old as the transaction's blockhash.
	blockhash, err := e.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("get blockhash: %v: %w", err, domain.ErrNetwork)
	}

	signedTx, err := e.signBase64(ctx, req.UserID, unsignedTx)
	if err != nil {
		return nil, err
	}
	log.WithField("stage", domain.StageSigned).Debug("transaction signed")

	submission, err := e.submitter.Submit(ctx, signedTx, settings.MevProtection)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"stage":     domain.StageSubmitted,
		"signature": submission.Signature,
		"route":     submission.Route,
	}).Info("transaction submitted")

	if err := e.confirmer.Confirm(ctx, submission.Signature, blockhash.LastValidBlockHeight); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"stage":     domain.StageConfirmed,
		"signature": submission.Signature,
	}).Info("transaction confirmed")

	e.settle(ctx, req, quote, submission, log)

	return &domain.TradeResult{
		Stage:     domain.StageConfirmed,
		Signature: submission.Signature,
		Route:     submission.Route,
		InAmount:  quote.InAmount,
		OutAmount: quote.OutAmount,
	}, nil
}

// resolveLegs maps the request onto concrete swap legs. For sells the
// input amount comes from the live token balance, not the ledger.
func (e *Executor) resolveLegs(ctx context.Context, req domain.TradeRequest, pubkey string) (inputMint, outputMint string, amount uint64, err error) {
	if req.Direction == domain.DirectionBuy {
		return domain.SOLMint, req.TokenMint, uint64(req.AmountSOL * domain.LamportsPerSOL), nil
	}

	balance, err := e.rpc.GetTokenBalance(ctx, pubkey, req.TokenMint)
	if err != nil {
		return "", "", 0, fmt.Errorf("token balance: %v: %w", err, domain.ErrNetwork)
	}

	p := uint64(req.SellPercent)
	amount = balance/100*p + balance%100*p/100
	if amount == 0 {
		return "", "", 0, fmt.Errorf("no %s balance to sell: %w", req.TokenMint, domain.ErrInsufficientBalance)
	}
	return req.TokenMint, domain.SOLMint, amount, nil
}

func (e *Executor) riskCheck(ctx context.Context, req domain.TradeRequest, quote *domain.Quote, pubkey string, priorityFeeLamports uint64) error {
	if quote.PriceImpact > MaxPriceImpact {
		return fmt.Errorf("price impact %.2f%% exceeds %.0f%% ceiling: %w",
			quote.PriceImpact*100, MaxPriceImpact*100, domain.ErrImpactTooHigh)
	}

	if req.Direction == domain.DirectionBuy {
		balance, err := e.rpc.GetBalance(ctx, pubkey)
		if err != nil {
			return fmt.Errorf("balance check: %v: %w", err, domain.ErrNetwork)
		}
		required := quote.InAmount + priorityFeeLamports
		if balance < required {
			return fmt.Errorf("balance %d lamports, need %d: %w",
				balance, required, domain.ErrInsufficientBalance)
		}
	}
	return nil
}

// signBase64 decodes an unsigned base64 transaction, signs it with the
// user's key and re-encodes it. The signer is single-use.
func (e *Executor) signBase64(ctx context.Context, userID int64, txBase64 string) (string, error) {
	tx, err := solana.TransactionFromBase64(txBase64)
	if err != nil {
		return "", fmt.Errorf("decode transaction: %w", err)
	}

	signer, err := e.vault.SignerFor(ctx, userID)
	if err != nil {
		return "", err
	}
	if err := signer.SignTransaction(tx); err != nil {
		return "", err
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("encode transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// settle updates the position ledger and trade log after confirmation.
// Bookkeeping failures are logged, never surfaced: the swap already
// happened on-chain.
func (e *Executor) settle(ctx context.Context, req domain.TradeRequest, quote *domain.Quote, sub *relay.Submission, log logrus.FieldLogger) {
	switch req.Direction {
	case domain.DirectionBuy:
		err := e.positions.Add(ctx, req.UserID, domain.Position{
			TokenMint:   req.TokenMint,
			AmountRaw:   quote.OutAmount,
			BuyPriceSOL: req.AmountSOL,
			Timestamp:   e.now().UnixMilli(),
		})
		if err != nil {
			log.WithError(err).Error("failed to record position")
		}
	case domain.DirectionSell:
		if req.SellPercent == 100 {
			if err := e.positions.RemoveAll(ctx, req.UserID, req.TokenMint); err != nil {
				log.WithError(err).Error("failed to close positions")
			}
		}
	}

	if e.trades != nil {
		err := e.trades.Append(ctx, &domain.ExecutedTrade{
			UserID:      req.UserID,
			TokenMint:   req.TokenMint,
			Direction:   req.Direction,
			InAmount:    quote.InAmount,
			OutAmount:   quote.OutAmount,
			PriceImpact: quote.PriceImpact,
			Signature:   sub.Signature,
			Route:       sub.Route,
			Timestamp:   e.now().UnixMilli(),
		})
		if err != nil {
			log.WithError(err).Error("failed to append trade log")
		}
	}
}

func (e *Executor) observe(direction domain.TradeDirection, err error, elapsed time.Duration) {
	if e.metrics == nil {
		return
	}
	outcome := "confirmed"
	if err != nil {
		outcome = "failed"
	}
	e.metrics.ObserveTrade(direction.String(), outcome, elapsed.Seconds())
}
