// Package engine is the façade in front of vault, stores and executor:
// it turns typed conversational intents into typed results and owns the
// multi-message flow state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/executor"
	solrpc "solana-swap-engine/internal/solana"
	"solana-swap-engine/internal/storage"
	"solana-swap-engine/internal/vault"
)

// Trader executes trades and withdrawals. *executor.Executor satisfies it.
type Trader interface {
	Execute(ctx context.Context, req domain.TradeRequest) (*domain.TradeResult, error)
	Withdraw(ctx context.Context, userID int64, recipient string, amountSOL float64) (*executor.WithdrawResult, error)
}

// Deps wires an Engine. Logger is optional.
type Deps struct {
	Vault     *vault.Vault
	Trader    Trader
	Settings  storage.SettingsStore
	Positions storage.PositionStore
	Tracker   *Tracker
	RPC       solrpc.RPCClient
	Logger    logrus.FieldLogger
}

// Engine handles intents for all users.
type Engine struct {
	vault     *vault.Vault
	trader    Trader
	settings  storage.SettingsStore
	positions storage.PositionStore
	tracker   *Tracker
	rpc       solrpc.RPCClient
	log       logrus.FieldLogger
}

// New creates an Engine from deps.
func New(deps Deps) *Engine {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		vault:     deps.Vault,
		trader:    deps.Trader,
		settings:  deps.Settings,
		positions: deps.Positions,
		tracker:   deps.Tracker,
		rpc:       deps.RPC,
		log:       log,
	}
}

// Handle processes one intent to a terminal Result. Failures are
// reported through Result.Err wrapping exactly one taxonomy error; the
// method itself never panics on unknown input.
func (e *Engine) Handle(ctx context.Context, userID int64, intent domain.Intent) *domain.Result {
	result := e.dispatch(ctx, userID, intent)
	if result.Err != nil {
		e.log.WithFields(logrus.Fields{
			"user":   userID,
			"intent": intent.Kind,
		}).WithError(result.Err).Warn("intent failed")
	}
	return result
}

func (e *Engine) dispatch(ctx context.Context, userID int64, intent domain.Intent) *domain.Result {
	switch intent.Kind {
	case domain.IntentStartWallet:
		return e.walletStatus(ctx, userID)
	case domain.IntentCreateWallet:
		return e.createWallet(ctx, userID)
	case domain.IntentImportWallet:
		return e.importWallet(ctx, userID, intent.Secret)
	case domain.IntentDeleteWallet:
		return e.deleteWallet(ctx, userID)
	case domain.IntentExportKey:
		return e.exportKey(ctx, userID)
	case domain.IntentShowSettings:
		return e.showSettings(ctx, userID)
	case domain.IntentUpdateSetting:
		return e.updateSettings(ctx, userID, intent.Settings)
	case domain.IntentInitiateTrade:
		return e.initiateTrade(ctx, userID, intent)
	case domain.IntentConfirmAmount:
		return e.trade(ctx, userID, intent.TokenMint, intent.Direction, intent.Amount)
	case domain.IntentListPositions:
		return e.listPositions(ctx, userID)
	case domain.IntentWithdraw:
		return e.withdraw(ctx, userID, intent)
	case domain.IntentCancel:
		return e.cancel(ctx, userID)
	case domain.IntentFreeText:
		return e.freeText(ctx, userID, intent.Text)
	default:
		return fail(domain.ResultIgnored, fmt.Errorf("unknown intent %q: %w", intent.Kind, domain.ErrValidation))
	}
}

func fail(kind domain.ResultKind, err error) *domain.Result {
	return &domain.Result{Kind: kind, Err: err}
}

func (e *Engine) walletStatus(ctx context.Context, userID int64) *domain.Result {
	wallet, err := e.vault.Wallet(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoWallet) {
			return &domain.Result{Kind: domain.ResultWalletStatus, HasWallet: false}
		}
		return fail(domain.ResultWalletStatus, err)
	}

	lamports, err := e.rpc.GetBalance(ctx, wallet.PublicKey)
	if err != nil {
		return fail(domain.ResultWalletStatus, fmt.Errorf("balance lookup: %v: %w", err, domain.ErrNetwork))
	}

	return &domain.Result{
		Kind:       domain.ResultWalletStatus,
		HasWallet:  true,
		PublicKey:  wallet.PublicKey,
		BalanceSOL: float64(lamports) / domain.LamportsPerSOL,
	}
}

func (e *Engine) createWallet(ctx context.Context, userID int64) *domain.Result {
	wallet, err := e.vault.Generate(ctx, userID)
	if err != nil {
		return fail(domain.ResultWalletStatus, err)
	}
	return &domain.Result{
		Kind:      domain.ResultWalletStatus,
		HasWallet: true,
		PublicKey: wallet.PublicKey,
	}
}

// importWallet without a secret arms the tracker; the secret arrives as
// the next free-text message.
func (e *Engine) importWallet(ctx context.Context, userID int64, secret string) *domain.Result {
	if secret == "" {
		if err := e.tracker.AwaitSecret(ctx, userID); err != nil {
			return fail(domain.ResultAwaiting, err)
		}
		return &domain.Result{Kind: domain.ResultAwaiting, Awaiting: domain.PendingImportSecret}
	}

	wallet, err := e.vault.Import(ctx, userID, strings.TrimSpace(secret))
	if err != nil {
		return fail(domain.ResultWalletStatus, err)
	}
	return &domain.Result{
		Kind:      domain.ResultWalletStatus,
		HasWallet: true,
		PublicKey: wallet.PublicKey,
	}
}

func (e *Engine) deleteWallet(ctx context.Context, userID int64) *domain.Result {
	existed, err := e.vault.Delete(ctx, userID)
	if err != nil {
		return fail(domain.ResultWalletStatus, err)
	}
	return &domain.Result{Kind: domain.ResultWalletStatus, WalletExisted: existed}
}

func (e *Engine) exportKey(ctx context.Context, userID int64) *domain.Result {
	secret, ttl, err := e.vault.Reveal(ctx, userID)
	if err != nil {
		return fail(domain.ResultWalletKey, err)
	}
	return &domain.Result{
		Kind:        domain.ResultWalletKey,
		Secret:      secret,
		ExposeForMs: ttl.Milliseconds(),
	}
}

// Reveal returns the secret as a scoped Exposure. A non-positive
// lifetime uses the vault's default window; onDone runs exactly once,
// on expiry or dismissal.
func (e *Engine) Reveal(ctx context.Context, userID int64, lifetime time.Duration, onDone func()) (*Exposure, error) {
	secret, ttl, err := e.vault.Reveal(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lifetime <= 0 {
		lifetime = ttl
	}
	return newExposure(secret, lifetime, onDone), nil
}

func (e *Engine) showSettings(ctx context.Context, userID int64) *domain.Result {
	settings, err := e.settings.Get(ctx, userID)
	if err != nil {
		return fail(domain.ResultSettings, fmt.Errorf("load settings: %w", err))
	}
	return &domain.Result{Kind: domain.ResultSettings, Settings: &settings}
}

func (e *Engine) updateSettings(ctx context.Context, userID int64, patch domain.SettingsPatch) *domain.Result {
	if err := validatePatch(patch); err != nil {
		return fail(domain.ResultSettings, err)
	}
	settings, err := e.settings.Update(ctx, userID, patch)
	if err != nil {
		return fail(domain.ResultSettings, fmt.Errorf("update settings: %w", err))
	}
	return &domain.Result{Kind: domain.ResultSettings, Settings: &settings}
}

func validatePatch(p domain.SettingsPatch) error {
	if p.PriorityFeeSOL != nil && *p.PriorityFeeSOL <= 0 {
		return fmt.Errorf("priority fee %f: %w", *p.PriorityFeeSOL, domain.ErrValidation)
	}
	if p.DefaultBuyAmountSOL != nil && *p.DefaultBuyAmountSOL <= 0 {
		return fmt.Errorf("buy amount %f: %w", *p.DefaultBuyAmountSOL, domain.ErrValidation)
	}
	if p.SlippageBps != nil && (*p.SlippageBps < 1 || *p.SlippageBps > 10_000) {
		return fmt.Errorf("slippage %d bps: %w", *p.SlippageBps, domain.ErrValidation)
	}
	return nil
}

// initiateTrade without an amount arms the tracker and asks for one;
// with an amount it executes directly.
func (e *Engine) initiateTrade(ctx context.Context, userID int64, intent domain.Intent) *domain.Result {
	if _, err := e.vault.Wallet(ctx, userID); err != nil {
		return fail(domain.ResultTrade, err)
	}
	if !intent.Direction.IsValid() {
		return fail(domain.ResultTrade, fmt.Errorf("direction %q: %w", intent.Direction, domain.ErrValidation))
	}

	if !intent.HasAmount {
		if err := e.tracker.AwaitAmount(ctx, userID, intent.TokenMint, intent.Direction); err != nil {
			return fail(domain.ResultAwaiting, err)
		}
		return &domain.Result{Kind: domain.ResultAwaiting, Awaiting: domain.PendingAmount}
	}
	return e.trade(ctx, userID, intent.TokenMint, intent.Direction, intent.Amount)
}

func (e *Engine) trade(ctx context.Context, userID int64, tokenMint string, direction domain.TradeDirection, amount float64) *domain.Result {
	req := domain.TradeRequest{
		UserID:    userID,
		TokenMint: tokenMint,
		Direction: direction,
	}
	switch direction {
	case domain.DirectionBuy:
		req.AmountSOL = amount
	case domain.DirectionSell:
		req.SellPercent = int(amount)
	}

	result, err := e.trader.Execute(ctx, req)
	if err != nil {
		return fail(domain.ResultTrade, err)
	}
	return &domain.Result{Kind: domain.ResultTrade, Trade: result}
}

func (e *Engine) listPositions(ctx context.Context, userID int64) *domain.Result {
	positions, err := e.positions.List(ctx, userID)
	if err != nil {
		return fail(domain.ResultPositions, fmt.Errorf("list positions: %w", err))
	}
	return &domain.Result{Kind: domain.ResultPositions, Positions: positions}
}

func (e *Engine) withdraw(ctx context.Context, userID int64, intent domain.Intent) *domain.Result {
	amount := intent.Amount
	if intent.WithdrawAll {
		wallet, err := e.vault.Wallet(ctx, userID)
		if err != nil {
			return fail(domain.ResultWithdrawal, err)
		}
		lamports, err := e.rpc.GetBalance(ctx, wallet.PublicKey)
		if err != nil {
			return fail(domain.ResultWithdrawal, fmt.Errorf("balance lookup: %v: %w", err, domain.ErrNetwork))
		}
		if lamports <= executor.WithdrawFeeLamports {
			return fail(domain.ResultWithdrawal, fmt.Errorf("balance %d lamports: %w", lamports, domain.ErrInsufficientBalance))
		}
		amount = float64(lamports-executor.WithdrawFeeLamports) / domain.LamportsPerSOL
	}

	receipt, err := e.trader.Withdraw(ctx, userID, intent.ToAddress, amount)
	if err != nil {
		return fail(domain.ResultWithdrawal, err)
	}
	return &domain.Result{
		Kind:        domain.ResultWithdrawal,
		Signature:   receipt.Signature,
		LamportsOut: receipt.Lamports,
	}
}

func (e *Engine) cancel(ctx context.Context, userID int64) *domain.Result {
	cleared, err := e.tracker.Clear(ctx, userID)
	if err != nil {
		return fail(domain.ResultCancelled, err)
	}
	return &domain.Result{Kind: domain.ResultCancelled, PendingCleared: cleared}
}

// freeText resolves a plain message against the armed slot. Without one
// the message is ignored; the engine never guesses.
func (e *Engine) freeText(ctx context.Context, userID int64, text string) *domain.Result {
	pending, err := e.tracker.Take(ctx, userID)
	if err != nil {
		return fail(domain.ResultIgnored, err)
	}
	if pending == nil {
		return &domain.Result{Kind: domain.ResultIgnored}
	}

	text = strings.TrimSpace(text)
	switch pending.Kind {
	case domain.PendingImportSecret:
		return e.importWallet(ctx, userID, text)
	case domain.PendingAmount:
		amount, err := strconv.ParseFloat(text, 64)
		if err != nil || amount <= 0 {
			return fail(domain.ResultTrade, fmt.Errorf("amount %q: %w", text, domain.ErrValidation))
		}
		return e.trade(ctx, userID, pending.TokenMint, pending.Direction, amount)
	default:
		return &domain.Result{Kind: domain.ResultIgnored}
	}
}
