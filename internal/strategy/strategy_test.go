package strategy

import (
	"math"
	"testing"

	"solana-strategy-engine/internal/domain"
)

// mildlyVaryingPrices has mean absolute return ~0.139: above the aggressive
// volatility floor, inside the balanced corridor.
var mildlyVaryingPrices = []float64{1.0, 1.15, 0.98, 1.12, 0.99}

// steadyRisingPrices has mean absolute return ~0.049 and a +10% trend over
// its 5 points, suiting the conservative corridor.
var steadyRisingPrices = []float64{1.0, 1.04, 0.99, 1.06, 1.10}

// makeToken builds the reference entry-candidate token.
func makeToken() *domain.Token {
	return &domain.Token{
		Address:   "So11111111111111111111111111111111111111112",
		Symbol:    "TEST",
		Name:      "Test Token",
		MarketCap: 1_000_000,
		Price:     1.0,
		Volume24h: 50_000,
		TVL:       25_000,
		Sentiment: 0.4,
		Trending:  true,
	}
}

// makeMarketData builds a snapshot with price and volume series at 30s
// spacing.
func makeMarketData(token *domain.Token, prices, volumes []float64) *domain.MarketData {
	data := &domain.MarketData{Token: token}
	for i, p := range prices {
		data.PriceHistory = append(data.PriceHistory, domain.TimeseriesPoint{
			TimestampMs: 1_000_000 + int64(i)*30_000,
			Value:       p,
		})
	}
	for i, v := range volumes {
		data.VolumeHistory = append(data.VolumeHistory, domain.TimeseriesPoint{
			TimestampMs: 1_000_000 + int64(i)*30_000,
			Value:       v,
		})
	}
	return data
}

// makePosition builds an active position with the given PnL.
func makePosition(t domain.StrategyType, sizeUSD, pnl float64) *domain.Position {
	return &domain.Position{
		ID:           "pos-1",
		TokenAddress: "So11111111111111111111111111111111111111112",
		StrategyType: t,
		EntryPrice:   1.0,
		CurrentPrice: 1.0,
		SizeUSD:      sizeUSD,
		Range:        domain.PriceRange{Min: 0.9, Max: 1.1},
		Status:       domain.PositionStatusActive,
		PnL:          pnl,
		EntryTimeMs:  1_000_000,
	}
}

// benignMarketData is a snapshot that triggers none of the market-driven
// exit conditions for any profile.
func benignMarketData() *domain.MarketData {
	token := makeToken()
	token.Sentiment = 0.2
	token.TVL = 150_000
	return makeMarketData(token, nil, nil)
}

func mustDefault(t *testing.T, st domain.StrategyType) domain.StrategyConfig {
	t.Helper()
	cfg, err := DefaultConfig(st)
	if err != nil {
		t.Fatalf("DefaultConfig(%s): %v", st, err)
	}
	return cfg
}

func allStrategies(t *testing.T) []Strategy {
	t.Helper()
	return []Strategy{
		NewAggressiveStrategy(mustDefault(t, domain.StrategyTypeAggressive), nil),
		NewBalancedStrategy(mustDefault(t, domain.StrategyTypeBalanced), nil),
		NewConservativeStrategy(mustDefault(t, domain.StrategyTypeConservative), nil),
	}
}

// The reference fixture must split the profiles: aggressive and balanced
// enter, conservative refuses on its volume floor.
func TestShouldEnter_ReferenceFixture(t *testing.T) {
	token := makeToken()
	data := makeMarketData(token, mildlyVaryingPrices, []float64{48_000, 52_000, 50_000})

	cases := []struct {
		strategy Strategy
		want     bool
	}{
		{NewAggressiveStrategy(mustDefault(t, domain.StrategyTypeAggressive), nil), true},
		{NewBalancedStrategy(mustDefault(t, domain.StrategyTypeBalanced), nil), true},
		{NewConservativeStrategy(mustDefault(t, domain.StrategyTypeConservative), nil), false},
	}

	for _, tc := range cases {
		if got := tc.strategy.ShouldEnter(token, data); got != tc.want {
			t.Errorf("%s.ShouldEnter = %v, want %v", tc.strategy.Type(), got, tc.want)
		}
	}
}

func TestShouldEnter_NilInputsFailClosed(t *testing.T) {
	token := makeToken()
	data := makeMarketData(token, mildlyVaryingPrices, nil)

	for _, s := range allStrategies(t) {
		if s.ShouldEnter(nil, data) {
			t.Errorf("%s.ShouldEnter(nil token) = true, want false", s.Type())
		}
		if s.ShouldEnter(token, nil) {
			t.Errorf("%s.ShouldEnter(nil data) = true, want false", s.Type())
		}
	}
}

func TestCalculatePositionSize_NilTokenReturnsZero(t *testing.T) {
	for _, s := range allStrategies(t) {
		if got := s.CalculatePositionSize(nil, nil, 10_000); got != 0 {
			t.Errorf("%s.CalculatePositionSize(nil) = %v, want 0", s.Type(), got)
		}
		if got := s.CalculatePositionSize(makeToken(), nil, 0); got != 0 {
			t.Errorf("%s.CalculatePositionSize(portfolio=0) = %v, want 0", s.Type(), got)
		}
	}
}

func TestCalculatePositionSize_BoundedByMaxPositionSize(t *testing.T) {
	tokens := []*domain.Token{
		makeToken(),
		{MarketCap: 5_000_000, Volume24h: 1_000_000, TVL: 1_000_000, Sentiment: 1.0, Trending: true, Price: 2.5},
		{MarketCap: 100_000, Volume24h: 20_000, TVL: 15_000, Sentiment: 0.6, Trending: true, Price: 0.1},
	}
	data := makeMarketData(makeToken(), mildlyVaryingPrices, nil)

	const portfolio = 10_000.0
	for _, s := range allStrategies(t) {
		limit := portfolio * s.Config().MaxPositionSize
		for i, token := range tokens {
			if got := s.CalculatePositionSize(token, data, portfolio); got > limit {
				t.Errorf("%s token[%d]: size %v exceeds limit %v", s.Type(), i, got, limit)
			}
		}
	}
}

func TestShouldExit_NilPositionFailsOpen(t *testing.T) {
	for _, s := range allStrategies(t) {
		if !s.ShouldExit(nil, benignMarketData()) {
			t.Errorf("%s.ShouldExit(nil position) = false, want true", s.Type())
		}
		if !s.ShouldExit(&domain.Position{SizeUSD: 0, EntryPrice: 1}, nil) {
			t.Errorf("%s.ShouldExit(zero-size position) = false, want true", s.Type())
		}
	}
}

// Crossing the stop-loss or take-profit threshold must trigger an exit for
// every profile, independent of market conditions.
func TestShouldExit_PnLThresholds(t *testing.T) {
	for _, s := range allStrategies(t) {
		cfg := s.Config()
		const size = 1000.0

		losing := makePosition(s.Type(), size, -cfg.StopLoss*size)
		if !s.ShouldExit(losing, benignMarketData()) {
			t.Errorf("%s: pnl at -stopLoss did not exit", s.Type())
		}

		winning := makePosition(s.Type(), size, cfg.TakeProfit*size)
		if !s.ShouldExit(winning, benignMarketData()) {
			t.Errorf("%s: pnl at takeProfit did not exit", s.Type())
		}

		holding := makePosition(s.Type(), size, -cfg.StopLoss*size+1)
		if s.ShouldExit(holding, benignMarketData()) {
			t.Errorf("%s: pnl inside thresholds exited", s.Type())
		}
	}
}

// The band invariant must hold for every profile on every input, including
// empty history, nil token and non-positive prices.
func TestCalculatePriceRange_Invariant(t *testing.T) {
	token := makeToken()
	full := makeMarketData(token, mildlyVaryingPrices, nil)
	empty := makeMarketData(token, nil, nil)

	cases := []struct {
		name  string
		token *domain.Token
		data  *domain.MarketData
		price float64
	}{
		{"full history", token, full, 1.0},
		{"empty history", token, empty, 1.0},
		{"nil data", token, nil, 0.004},
		{"nil token", nil, full, 1.0},
		{"zero price", token, full, 0},
		{"negative price nil token", nil, nil, -5},
		{"tiny price", token, empty, 1e-9},
		{"huge price", token, full, 1e9},
	}

	for _, s := range allStrategies(t) {
		for _, tc := range cases {
			band := s.CalculatePriceRange(tc.token, tc.data, tc.price)
			if !band.Valid() {
				t.Errorf("%s %s: invalid band [%v, %v]", s.Type(), tc.name, band.Min, band.Max)
			}
		}
	}
}

func TestCalculatePriceRange_DefaultBands(t *testing.T) {
	cases := []struct {
		strategy Strategy
		width    float64
	}{
		{NewAggressiveStrategy(mustDefault(t, domain.StrategyTypeAggressive), nil), 0.10},
		{NewBalancedStrategy(mustDefault(t, domain.StrategyTypeBalanced), nil), 0.08},
		{NewConservativeStrategy(mustDefault(t, domain.StrategyTypeConservative), nil), 0.05},
	}

	for _, tc := range cases {
		band := tc.strategy.CalculatePriceRange(nil, nil, 2.0)
		wantMin := 2.0 * (1 - tc.width/2)
		wantMax := 2.0 * (1 + tc.width/2)
		if math.Abs(band.Min-wantMin) > 1e-9 || math.Abs(band.Max-wantMax) > 1e-9 {
			t.Errorf("%s: default band [%v, %v], want [%v, %v]",
				tc.strategy.Type(), band.Min, band.Max, wantMin, wantMax)
		}
	}
}
