package domain

import "encoding/json"

// Quote is an aggregator-issued swap estimate. It is immutable once
// issued and only valid for a short, aggregator-defined window; a quote
// is consumed by at most one build and never reused across attempts.
type Quote struct {
	InputMint   string
	OutputMint  string
	InAmount    uint64
	OutAmount   uint64
	PriceImpact float64 // fraction, 0.05 == 5%

	// Raw is the untouched aggregator payload. The build request echoes
	// it back verbatim, route plan included.
	Raw json.RawMessage
}
