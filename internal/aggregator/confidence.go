package aggregator

import "solana-strategy-engine/internal/domain"

// Confidence signal bands. The per-evaluator confidence is a heuristic over
// the raw token signals, independent of the evaluator's own gate logic.
const (
	confidenceBase = 0.5

	strongSentimentBand   = 0.5
	positiveSentimentBand = 0.3

	highVolumeBand = 100_000.0
	lowVolumeBand  = 10_000.0

	highMarketCapBand = 500_000.0
	lowMarketCapBand  = 100_000.0

	highTVLBand = 50_000.0
	lowTVLBand  = 10_000.0
)

// profileSentimentBonus is the additional bump applied when sentiment clears
// the profile's own entry threshold.
func profileSentimentBonus(t domain.StrategyType) float64 {
	switch t {
	case domain.StrategyTypeAggressive:
		return 0.05
	case domain.StrategyTypeBalanced:
		return 0.05
	case domain.StrategyTypeConservative:
		return 0.10
	default:
		return 0
	}
}

// computeConfidence scores how strongly the token's signals support a
// decision, starting from 0.5 and applying fixed additive bumps per signal
// band, clamped to [0, 1].
func computeConfidence(cfg domain.StrategyConfig, token *domain.Token) float64 {
	if token == nil {
		return 0
	}

	c := confidenceBase

	switch {
	case token.Sentiment > strongSentimentBand:
		c += 0.2
	case token.Sentiment > positiveSentimentBand:
		c += 0.1
	case token.Sentiment < 0:
		c -= 0.1
	}

	switch {
	case token.Volume24h > highVolumeBand:
		c += 0.1
	case token.Volume24h < lowVolumeBand:
		c -= 0.1
	}

	switch {
	case token.MarketCap > highMarketCapBand:
		c += 0.1
	case token.MarketCap < lowMarketCapBand:
		c -= 0.1
	}

	switch {
	case token.TVL > highTVLBand:
		c += 0.1
	case token.TVL < lowTVLBand:
		c -= 0.1
	}

	if token.Sentiment > cfg.SentimentThreshold {
		c += profileSentimentBonus(cfg.Type)
	}

	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
