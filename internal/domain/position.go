package domain

// Position is one unit of exposure opened by a single confirmed buy.
// Repeated buys of the same mint produce separate rows so the per-buy
// cost basis is preserved; rows are removed only on a full exit.
type Position struct {
	TokenMint   string
	AmountRaw   uint64  // token amount in smallest units
	BuyPriceSOL float64 // SOL spent on this buy
	Timestamp   int64   // unix ms
}
