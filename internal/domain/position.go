package domain

// PositionStatus enumerates lifecycle states of an open position.
type PositionStatus string

const (
	PositionStatusActive  PositionStatus = "ACTIVE"
	PositionStatusClosed  PositionStatus = "CLOSED"
	PositionStatusPending PositionStatus = "PENDING"
	PositionStatusError   PositionStatus = "ERROR"
)

// Position represents an open position owned by the portfolio collaborator.
// The engine only reads it to decide exits; it never mutates a position.
type Position struct {
	ID           string
	TokenAddress string
	StrategyType StrategyType // risk profile that opened the position

	EntryPrice   float64 // USD price at entry
	CurrentPrice float64 // latest USD price
	SizeUSD      float64 // position size in USD
	Range        PriceRange

	Status PositionStatus
	PnL    float64 // signed USD profit and loss

	EntryTimeMs int64  // Unix timestamp in milliseconds
	ExitTimeMs  *int64 // nil while the position is open
}

// PnLFraction returns PnL relative to position size.
// Returns 0 when size is not positive.
func (p *Position) PnLFraction() float64 {
	if p == nil || p.SizeUSD <= 0 {
		return 0
	}
	return p.PnL / p.SizeUSD
}
