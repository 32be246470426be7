package domain

// TradeDirection distinguishes buys (SOL -> token) from sells (token -> SOL).
type TradeDirection string

const (
	DirectionBuy  TradeDirection = "BUY"
	DirectionSell TradeDirection = "SELL"
)

// String returns the string representation of the direction.
func (d TradeDirection) String() string {
	return string(d)
}

// IsValid checks if the direction is a valid value.
func (d TradeDirection) IsValid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// SwapStage identifies a stage of the swap state machine. Stages advance
// strictly in order; FAILED is terminal from any stage.
type SwapStage string

const (
	StageQuoteRequested SwapStage = "QUOTE_REQUESTED"
	StageQuoted         SwapStage = "QUOTED"
	StageRiskChecked    SwapStage = "RISK_CHECKED"
	StageBuilt          SwapStage = "BUILT"
	StageSigned         SwapStage = "SIGNED"
	StageSubmitted      SwapStage = "SUBMITTED"
	StageConfirmed      SwapStage = "CONFIRMED"
	StageFailed         SwapStage = "FAILED"
)

// SubmitRoute records which submission path produced the signature.
const (
	RouteDirect = "direct"
	RouteRelay  = "relay"
)

// TradeRequest is a fully resolved trade intent, ready for execution.
// For buys AmountSOL is the SOL to spend; for sells SellPercent is the
// fraction of the current token balance to liquidate (1-100).
type TradeRequest struct {
	UserID      int64
	TokenMint   string
	Direction   TradeDirection
	AmountSOL   float64
	SellPercent int
}

// TradeResult is the terminal outcome of one swap attempt.
type TradeResult struct {
	Stage     SwapStage
	Signature string
	Route     string
	InAmount  uint64
	OutAmount uint64
}

// ExecutedTrade is the analytics record appended after a confirmed swap.
type ExecutedTrade struct {
	UserID      int64
	TokenMint   string
	Direction   TradeDirection
	InAmount    uint64
	OutAmount   uint64
	PriceImpact float64
	Signature   string
	Route       string
	Timestamp   int64 // unix ms
}

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

// SOLMint is the mint address of wrapped native SOL.
const SOLMint = "So11111111111111111111111111111111111111112"
