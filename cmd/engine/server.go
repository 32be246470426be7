package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/engine"
)

// apiServer exposes the intent façade over HTTP for the conversational
// front end. One POST per inbound user event.
type apiServer struct {
	engine *engine.Engine
	log    logrus.FieldLogger
}

func newAPIServer(eng *engine.Engine, log logrus.FieldLogger) *apiServer {
	return &apiServer{engine: eng, log: log}
}

// intentRequest is the wire form of one inbound event.
type intentRequest struct {
	UserID int64  `json:"user_id"`
	Kind   string `json:"kind"`

	Secret string `json:"secret,omitempty"`

	Settings struct {
		PriorityFeeSOL      *float64 `json:"priority_fee_sol,omitempty"`
		MevProtection       *bool    `json:"mev_protection,omitempty"`
		DefaultBuyAmountSOL *float64 `json:"default_buy_amount_sol,omitempty"`
		SlippageBps         *int     `json:"slippage_bps,omitempty"`
	} `json:"settings,omitempty"`

	TokenMint string  `json:"token_mint,omitempty"`
	Direction string  `json:"direction,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
	HasAmount bool    `json:"has_amount,omitempty"`

	ToAddress   string `json:"to_address,omitempty"`
	WithdrawAll bool   `json:"withdraw_all,omitempty"`

	Text string `json:"text,omitempty"`
}

// intentResponse is the wire form of a Result. Error carries the
// taxonomy code when the operation failed.
type intentResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error,omitempty"`

	PublicKey  string  `json:"public_key,omitempty"`
	BalanceSOL float64 `json:"balance_sol,omitempty"`
	HasWallet  bool    `json:"has_wallet,omitempty"`

	Secret      string `json:"secret,omitempty"`
	ExposeForMs int64  `json:"expose_for_ms,omitempty"`

	WalletExisted  bool `json:"wallet_existed,omitempty"`
	PendingCleared bool `json:"pending_cleared,omitempty"`

	Settings  *settingsPayload  `json:"settings,omitempty"`
	Positions []positionPayload `json:"positions,omitempty"`
	Trade     *tradePayload     `json:"trade,omitempty"`
	Awaiting  string            `json:"awaiting,omitempty"`

	Signature   string `json:"signature,omitempty"`
	LamportsOut uint64 `json:"lamports_out,omitempty"`
}

type settingsPayload struct {
	PriorityFeeSOL      float64 `json:"priority_fee_sol"`
	MevProtection       bool    `json:"mev_protection"`
	DefaultBuyAmountSOL float64 `json:"default_buy_amount_sol"`
	SlippageBps         int     `json:"slippage_bps"`
}

type positionPayload struct {
	TokenMint   string  `json:"token_mint"`
	AmountRaw   uint64  `json:"amount_raw"`
	BuyPriceSOL float64 `json:"buy_price_sol"`
	Timestamp   int64   `json:"timestamp"`
}

type tradePayload struct {
	Stage     string `json:"stage"`
	Signature string `json:"signature,omitempty"`
	Route     string `json:"route,omitempty"`
	InAmount  uint64 `json:"in_amount,omitempty"`
	OutAmount uint64 `json:"out_amount,omitempty"`
}

func (s *apiServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == 0 {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	result := s.engine.Handle(r.Context(), req.UserID, req.toIntent())
	resp := toResponse(result)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(result.Err))
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

func (r *intentRequest) toIntent() domain.Intent {
	return domain.Intent{
		Kind:   domain.IntentKind(r.Kind),
		Secret: r.Secret,
		Settings: domain.SettingsPatch{
			PriorityFeeSOL:      r.Settings.PriorityFeeSOL,
			MevProtection:       r.Settings.MevProtection,
			DefaultBuyAmountSOL: r.Settings.DefaultBuyAmountSOL,
			SlippageBps:         r.Settings.SlippageBps,
		},
		TokenMint:   r.TokenMint,
		Direction:   domain.TradeDirection(r.Direction),
		Amount:      r.Amount,
		HasAmount:   r.HasAmount,
		ToAddress:   r.ToAddress,
		WithdrawAll: r.WithdrawAll,
		Text:        r.Text,
	}
}

func toResponse(result *domain.Result) intentResponse {
	resp := intentResponse{
		Kind:           string(result.Kind),
		Error:          errorCode(result.Err),
		PublicKey:      result.PublicKey,
		BalanceSOL:     result.BalanceSOL,
		HasWallet:      result.HasWallet,
		Secret:         result.Secret,
		ExposeForMs:    result.ExposeForMs,
		WalletExisted:  result.WalletExisted,
		PendingCleared: result.PendingCleared,
		Awaiting:       string(result.Awaiting),
		Signature:      result.Signature,
		LamportsOut:    result.LamportsOut,
	}
	if result.Settings != nil {
		resp.Settings = &settingsPayload{
			PriorityFeeSOL:      result.Settings.PriorityFeeSOL,
			MevProtection:       result.Settings.MevProtection,
			DefaultBuyAmountSOL: result.Settings.DefaultBuyAmountSOL,
			SlippageBps:         result.Settings.SlippageBps,
		}
	}
	for _, p := range result.Positions {
		resp.Positions = append(resp.Positions, positionPayload{
			TokenMint:   p.TokenMint,
			AmountRaw:   p.AmountRaw,
			BuyPriceSOL: p.BuyPriceSOL,
			Timestamp:   p.Timestamp,
		})
	}
	if result.Trade != nil {
		resp.Trade = &tradePayload{
			Stage:     string(result.Trade.Stage),
			Signature: result.Trade.Signature,
			Route:     result.Trade.Route,
			InAmount:  result.Trade.InAmount,
			OutAmount: result.Trade.OutAmount,
		}
	}
	return resp
}

// errorCode maps a taxonomy error to a stable wire code.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrValidation):
		return "VALIDATION"
	case errors.Is(err, domain.ErrAlreadyExists):
		return "ALREADY_EXISTS"
	case errors.Is(err, domain.ErrNoWallet):
		return "NO_WALLET"
	case errors.Is(err, domain.ErrCustody):
		return "CUSTODY"
	case errors.Is(err, domain.ErrNoLiquidity):
		return "NO_LIQUIDITY"
	case errors.Is(err, domain.ErrImpactTooHigh):
		return "IMPACT_TOO_HIGH"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	case errors.Is(err, domain.ErrNetwork):
		return "NETWORK"
	case errors.Is(err, domain.ErrSubmission):
		return "SUBMISSION"
	case errors.Is(err, domain.ErrConfirmationTimeout):
		return "CONFIRMATION_TIMEOUT"
	case errors.Is(err, domain.ErrTradeInFlight):
		return "TRADE_IN_FLIGHT"
	default:
		return "INTERNAL"
	}
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrTradeInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoWallet):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoLiquidity),
		errors.Is(err, domain.ErrImpactTooHigh),
		errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConfirmationTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrSubmission):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
