package domain

// Token represents a tradeable token snapshot supplied by the market-data
// collaborator. Read-only to the engine.
type Token struct {
	Address string // mint address
	Symbol  string // ticker symbol
	Name    string // display name

	MarketCap float64 // USD market capitalization, >= 0
	Price     float64 // current USD price, >= 0
	Volume24h float64 // USD volume over last 24h, >= 0
	TVL       float64 // USD total value locked in the token's pools, >= 0

	Sentiment float64 // normalized social sentiment in [-1, 1]
	Trending  bool    // currently listed as trending by the data source
}

// LiquidityRatio returns TVL relative to market cap, the engine's liquidity
// depth proxy. Returns 0 when market cap is not positive.
func (t *Token) LiquidityRatio() float64 {
	if t == nil || t.MarketCap <= 0 {
		return 0
	}
	return t.TVL / t.MarketCap
}
