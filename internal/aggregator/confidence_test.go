package aggregator

import (
	"math"
	"testing"

	"solana-strategy-engine/internal/domain"
)

func aggressiveCfg(t *testing.T) domain.StrategyConfig {
	t.Helper()
	return domain.StrategyConfig{
		Type:               domain.StrategyTypeAggressive,
		RiskTolerance:      domain.RiskToleranceHigh,
		SentimentThreshold: 0.3,
	}
}

func TestComputeConfidence(t *testing.T) {
	if got := computeConfidence(aggressiveCfg(t), nil); got != 0 {
		t.Errorf("nil token confidence = %v, want 0", got)
	}

	// Every band bumps up; the raw sum exceeds 1 and clamps.
	strong := &domain.Token{
		Sentiment: 0.9,
		Volume24h: 200_000,
		MarketCap: 1_000_000,
		TVL:       100_000,
	}
	cons := domain.StrategyConfig{
		Type:               domain.StrategyTypeConservative,
		SentimentThreshold: 0.2,
	}
	if got := computeConfidence(cons, strong); got != 1.0 {
		t.Errorf("strong token confidence = %v, want 1.0", got)
	}

	// Every band bumps down.
	weak := &domain.Token{
		Sentiment: -0.5,
		Volume24h: 5_000,
		MarketCap: 50_000,
		TVL:       5_000,
	}
	if got := computeConfidence(aggressiveCfg(t), weak); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("weak token confidence = %v, want 0.1", got)
	}

	// Reference token: +0.1 sentiment, +0.1 mcap, +0.05 profile bonus.
	mid := referenceToken()
	if got := computeConfidence(aggressiveCfg(t), mid); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("reference token confidence = %v, want 0.75", got)
	}

	// The profile bonus needs sentiment above the profile threshold.
	below := aggressiveCfg(t)
	below.SentimentThreshold = 0.45
	if got := computeConfidence(below, mid); math.Abs(got-0.70) > 1e-9 {
		t.Errorf("no-bonus confidence = %v, want 0.70", got)
	}
}

func TestBuildReasoning(t *testing.T) {
	full := &domain.Token{
		Sentiment: 0.6,
		Volume24h: 150_000,
		MarketCap: 800_000,
		TVL:       80_000,
		Trending:  true,
	}
	want := "Conservative: positive sentiment, high volume, established market cap, good liquidity, trending token"
	if got := buildReasoning(domain.StrategyTypeConservative, full); got != want {
		t.Errorf("reasoning = %q, want %q", got, want)
	}

	// A token below every reasoning band still gets a non-empty reason.
	quiet := &domain.Token{Sentiment: 0.2, Volume24h: 50_000, MarketCap: 300_000, TVL: 20_000}
	if got := buildReasoning(domain.StrategyTypeBalanced, quiet); got != "Balanced: entry gates satisfied" {
		t.Errorf("quiet reasoning = %q", got)
	}

	if got := buildReasoning(domain.StrategyTypeAggressive, nil); got != "Aggressive: entry gates satisfied" {
		t.Errorf("nil token reasoning = %q", got)
	}
}
