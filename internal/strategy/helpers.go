package strategy

import (
	"math"

	"solana-strategy-engine/internal/domain"
)

// bandAround returns a symmetric price band of total width widthPct around
// price. The reference falls back through token price to 1.0 so the band
// invariant (0 < Min < Max) holds on every path.
func bandAround(price float64, token *domain.Token, widthPct float64) domain.PriceRange {
	if price <= 0 && token != nil && token.Price > 0 {
		price = token.Price
	}
	if price <= 0 {
		price = 1.0
	}
	if widthPct <= 0 {
		widthPct = 0.01
	}
	half := widthPct / 2
	if half >= 1 {
		half = 0.99
	}
	return domain.PriceRange{
		Min: price * (1 - half),
		Max: price * (1 + half),
	}
}

// volumeCollapsed is the crude liquidity-collapse heuristic shared by all
// profiles: 24h volume has fallen below volumeFactor of market cap while the
// price sits below priceFactor of the entry price.
func volumeCollapsed(token *domain.Token, position *domain.Position, volumeFactor, priceFactor float64) bool {
	if token == nil || position == nil || token.MarketCap <= 0 || position.EntryPrice <= 0 {
		return false
	}
	return token.Volume24h < token.MarketCap*volumeFactor &&
		position.CurrentPrice < position.EntryPrice*priceFactor
}

// cappedMultiplier returns min(raw, cap), flooring negatives at 0 so a
// hostile signal zeroes the chain instead of flipping its sign.
func cappedMultiplier(raw, cap float64) float64 {
	if raw < 0 {
		return 0
	}
	return math.Min(raw, cap)
}

// validEntryInput reports whether the snapshot is usable for entry gating.
func validEntryInput(token *domain.Token, data *domain.MarketData) bool {
	return token != nil && data != nil && token.Price >= 0 &&
		token.MarketCap >= 0 && token.Volume24h >= 0 && token.TVL >= 0
}

// validExitInput reports whether the position is usable for exit gating.
// A position the engine cannot reason about should be exited, so callers
// fail open when this returns false.
func validExitInput(position *domain.Position) bool {
	return position != nil && position.SizeUSD > 0 && position.EntryPrice > 0
}
