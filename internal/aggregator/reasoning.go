package aggregator

import (
	"strings"

	"solana-strategy-engine/internal/domain"
)

// profileDisplayName maps a strategy type to its human profile name.
func profileDisplayName(t domain.StrategyType) string {
	switch t {
	case domain.StrategyTypeAggressive:
		return "Aggressive"
	case domain.StrategyTypeBalanced:
		return "Balanced"
	case domain.StrategyTypeConservative:
		return "Conservative"
	default:
		return string(t)
	}
}

// buildReasoning produces the deterministic clause list for an entering
// evaluator, selected by the same signal bands as the confidence score and
// prefixed with the profile name.
func buildReasoning(t domain.StrategyType, token *domain.Token) string {
	var clauses []string

	if token != nil {
		if token.Sentiment > positiveSentimentBand {
			clauses = append(clauses, "positive sentiment")
		}
		if token.Volume24h > highVolumeBand {
			clauses = append(clauses, "high volume")
		}
		if token.MarketCap > highMarketCapBand {
			clauses = append(clauses, "established market cap")
		}
		if token.TVL > highTVLBand {
			clauses = append(clauses, "good liquidity")
		}
		if token.Trending {
			clauses = append(clauses, "trending token")
		}
	}

	if len(clauses) == 0 {
		// An entering token can sit below every reasoning band when the
		// profile gates passed on thresholds; never emit a blank reason.
		clauses = append(clauses, "entry gates satisfied")
	}

	return profileDisplayName(t) + ": " + strings.Join(clauses, ", ")
}
