package strategy

import (
	"math"
	"testing"

	"solana-strategy-engine/internal/domain"
)

func newBalanced(t *testing.T) *BalancedStrategy {
	t.Helper()
	return NewBalancedStrategy(mustDefault(t, domain.StrategyTypeBalanced), nil)
}

// balancedToken passes every balanced gate with the mildly-varying fixture.
func balancedToken() *domain.Token {
	token := makeToken()
	token.Volume24h = 60_000
	token.TVL = 30_000
	return token
}

func TestBalancedShouldEnter_GateFlips(t *testing.T) {
	s := newBalanced(t)

	cases := []struct {
		name   string
		mutate func(token *domain.Token, data *domain.MarketData)
	}{
		{"sentiment at threshold", func(token *domain.Token, _ *domain.MarketData) {
			token.Sentiment = 0.1
		}},
		{"volume below floor", func(token *domain.Token, _ *domain.MarketData) {
			token.Volume24h = 49_999
		}},
		{"market cap below window", func(token *domain.Token, _ *domain.MarketData) {
			token.MarketCap = 99_999
		}},
		{"market cap above window", func(token *domain.Token, _ *domain.MarketData) {
			token.MarketCap = 2_000_001
		}},
		{"tvl below floor", func(token *domain.Token, _ *domain.MarketData) {
			token.TVL = 24_999
		}},
		{"not trending", func(token *domain.Token, _ *domain.MarketData) {
			token.Trending = false
		}},
		{"volatility above corridor", func(_ *domain.Token, data *domain.MarketData) {
			setPrices(data, []float64{1.0, 1.4, 0.9, 1.3, 0.8})
		}},
		{"volatility below corridor", func(_ *domain.Token, data *domain.MarketData) {
			setPrices(data, []float64{1.0, 1.001, 1.002, 1.0, 1.001})
		}},
		{"price series unstable", func(_ *domain.Token, data *domain.MarketData) {
			// 20% steps in one direction: volatility inside the corridor
			// but the dispersion fails the CV < 0.20 stability check.
			setPrices(data, []float64{1.0, 1.2, 1.44, 1.728, 2.0736})
		}},
		{"volume series inconsistent", func(_ *domain.Token, data *domain.MarketData) {
			setVolumes(data, []float64{10_000, 100_000, 20_000})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token := balancedToken()
			data := makeMarketData(token, mildlyVaryingPrices, []float64{48_000, 52_000, 50_000})
			tc.mutate(token, data)

			if s.ShouldEnter(token, data) {
				t.Errorf("entry allowed with gate flipped: %s", tc.name)
			}
		})
	}
}

// Short series make the stability checks vacuous rather than blocking.
func TestBalancedShouldEnter_ShortHistoryVacuousChecks(t *testing.T) {
	s := newBalanced(t)
	token := balancedToken()

	// Two volume points: below the 3-point consistency window.
	data := makeMarketData(token, mildlyVaryingPrices, []float64{10_000, 100_000})
	if !s.ShouldEnter(token, data) {
		t.Error("short volume history blocked entry")
	}
}

func TestBalancedCalculatePositionSize(t *testing.T) {
	s := newBalanced(t)
	token := makeToken()
	data := makeMarketData(token, mildlyVaryingPrices, nil)
	const portfolio = 10_000.0

	// 500 * 0.6 * 1.2 * 0.5 * (1/(1+CV)) with CV ~0.0768.
	got := s.CalculatePositionSize(token, data, portfolio)
	if math.Abs(got-167.17) > 0.1 {
		t.Errorf("size = %v, want ~167.17", got)
	}

	// Sub-floor chains collapse to 0.
	weak := makeToken()
	weak.Sentiment = 0.05
	if got := s.CalculatePositionSize(weak, data, portfolio); got != 0 {
		t.Errorf("sub-floor size = %v, want 0", got)
	}
}

func TestBalancedShouldExit_MarketConditions(t *testing.T) {
	s := newBalanced(t)

	// Sentiment panic below -0.3.
	panicToken := makeToken()
	panicToken.Sentiment = -0.35
	pos := makePosition(domain.StrategyTypeBalanced, 1000, -50)
	if !s.ShouldExit(pos, makeMarketData(panicToken, nil, nil)) {
		t.Error("sentiment panic did not exit")
	}

	// Aggressive tolerates -0.25; balanced does too (floor is -0.3).
	mild := makeToken()
	mild.Sentiment = -0.25
	mild.TVL = 150_000
	if s.ShouldExit(pos, makeMarketData(mild, nil, nil)) {
		t.Error("exited above the panic floor")
	}

	// Volatility spike at or above 0.5.
	spiky := benignMarketData()
	setPrices(spiky, []float64{1.0, 2.0, 1.0, 2.0})
	if !s.ShouldExit(pos, spiky) {
		t.Error("volatility spike did not exit")
	}

	// Volume collapse: under 5% of mcap with price under 90% of entry.
	collapsed := makeToken()
	collapsed.Sentiment = 0.1
	collapsed.Volume24h = 40_000
	dropped := makePosition(domain.StrategyTypeBalanced, 1000, -50)
	dropped.CurrentPrice = 0.85
	if !s.ShouldExit(dropped, makeMarketData(collapsed, nil, nil)) {
		t.Error("volume collapse did not exit")
	}
}

func setPrices(data *domain.MarketData, prices []float64) {
	data.PriceHistory = nil
	for i, p := range prices {
		data.PriceHistory = append(data.PriceHistory, domain.TimeseriesPoint{
			TimestampMs: 1_000_000 + int64(i)*30_000,
			Value:       p,
		})
	}
}

func setVolumes(data *domain.MarketData, volumes []float64) {
	data.VolumeHistory = nil
	for i, v := range volumes {
		data.VolumeHistory = append(data.VolumeHistory, domain.TimeseriesPoint{
			TimestampMs: 1_000_000 + int64(i)*30_000,
			Value:       v,
		})
	}
}
