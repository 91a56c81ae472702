package strategy

import (
	"go.uber.org/zap"

	"solana-strategy-engine/internal/domain"
)

// Aggressive profile parameters.
const (
	aggressiveMinVolume24h = 10_000.0
	aggressiveMinMarketCap = 50_000.0
	aggressiveMaxMarketCap = 5_000_000.0
	aggressiveMinTVL       = 10_000.0

	aggressiveMinVolatility      = 0.10
	aggressiveVolatilityCap      = 1.0
	aggressiveVolatilityFallback = 0.10

	aggressiveSentimentMultiplier = 2.0
	aggressiveSentimentCap        = 1.5
	aggressiveMarketCapDivisor    = 500_000.0
	aggressiveMarketCapCap        = 1.3
	aggressiveVolumeDivisor       = 50_000.0
	aggressiveVolumeCap           = 1.4
	aggressiveMinPositionUSD      = 100.0

	aggressivePanicSentiment       = -0.2
	aggressiveCollapseVolumeFactor = 0.02
	aggressiveCollapsePriceFactor  = 0.85

	aggressiveBaseRange          = 0.15
	aggressiveRangeVolMultiplier = 5.0
	aggressiveRangeFloorMult     = 0.5
	aggressiveRangeCapMult       = 2.0
	aggressiveDefaultBand        = 0.10
)

// AggressiveStrategy chases early momentum: low volume and TVL floors, a
// wide market-cap window and a volatility floor instead of a ceiling.
type AggressiveStrategy struct {
	cfg domain.StrategyConfig
	log *zap.Logger
}

// NewAggressiveStrategy creates an Aggressive evaluator with the given
// config. A nil logger disables fault logging.
func NewAggressiveStrategy(cfg domain.StrategyConfig, log *zap.Logger) *AggressiveStrategy {
	if log == nil {
		log = zap.NewNop()
	}
	cfg.Type = domain.StrategyTypeAggressive
	return &AggressiveStrategy{cfg: cfg, log: log}
}

// Type returns the profile identifier.
func (s *AggressiveStrategy) Type() domain.StrategyType {
	return domain.StrategyTypeAggressive
}

// Config returns a copy of the immutable configuration.
func (s *AggressiveStrategy) Config() domain.StrategyConfig {
	return s.cfg
}

// ShouldEnter requires every gate to hold: sentiment above threshold,
// volume, market cap and TVL floors, trending flag, and volatility above
// the profile floor. Fails closed on invalid input or fault.
func (s *AggressiveStrategy) ShouldEnter(token *domain.Token, data *domain.MarketData) (enter bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("entry evaluation fault, failing closed",
				zap.String("strategy", string(s.Type())), zap.Any("cause", r))
			enter = false
		}
	}()

	if !validEntryInput(token, data) {
		return false
	}

	if token.Sentiment <= s.cfg.SentimentThreshold {
		return false
	}
	if token.Volume24h < aggressiveMinVolume24h {
		return false
	}
	if token.MarketCap < aggressiveMinMarketCap || token.MarketCap > aggressiveMaxMarketCap {
		return false
	}
	if token.TVL < aggressiveMinTVL {
		return false
	}
	if !token.Trending {
		return false
	}

	vol := computeVolatility(data.PriceValues(), aggressiveVolatilityCap, aggressiveVolatilityFallback)
	return vol > aggressiveMinVolatility
}

// CalculatePositionSize scales the portfolio allocation by capped sentiment,
// market-cap and volume multipliers. Results below $100 floor to 0.
func (s *AggressiveStrategy) CalculatePositionSize(token *domain.Token, _ *domain.MarketData, portfolioValueUSD float64) (size float64) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("position sizing fault, returning zero",
				zap.String("strategy", string(s.Type())), zap.Any("cause", r))
			size = 0
		}
	}()

	if token == nil || portfolioValueUSD <= 0 {
		return 0
	}

	base := portfolioValueUSD * s.cfg.MaxPositionSize
	size = base
	size *= cappedMultiplier(token.Sentiment*aggressiveSentimentMultiplier, aggressiveSentimentCap)
	size *= cappedMultiplier(token.MarketCap/aggressiveMarketCapDivisor, aggressiveMarketCapCap)
	size *= cappedMultiplier(token.Volume24h/aggressiveVolumeDivisor, aggressiveVolumeCap)

	if size > base {
		size = base
	}
	if size < aggressiveMinPositionUSD {
		return 0
	}
	return size
}

// ShouldExit fires on any of: stop-loss, take-profit, sentiment panic below
// -0.2, or volume collapse. Fails open on invalid input or fault.
func (s *AggressiveStrategy) ShouldExit(position *domain.Position, current *domain.MarketData) (exit bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("exit evaluation fault, failing open",
				zap.String("strategy", string(s.Type())), zap.Any("cause", r))
			exit = true
		}
	}()

	if !validExitInput(position) {
		return true
	}

	pnl := position.PnLFraction()
	if pnl <= -s.cfg.StopLoss || pnl >= s.cfg.TakeProfit {
		return true
	}

	if current == nil || current.Token == nil {
		return false
	}
	if current.Token.Sentiment < aggressivePanicSentiment {
		return true
	}
	return volumeCollapsed(current.Token, position, aggressiveCollapseVolumeFactor, aggressiveCollapsePriceFactor)
}

// CalculatePriceRange widens the band with observed volatility, clamped to
// keep the band meaningful on flat or runaway series. Falls back to a 10%
// band on fault.
func (s *AggressiveStrategy) CalculatePriceRange(token *domain.Token, data *domain.MarketData, currentPrice float64) (band domain.PriceRange) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("price range fault, using default band",
				zap.String("strategy", string(s.Type())), zap.Any("cause", r))
			band = bandAround(currentPrice, token, aggressiveDefaultBand)
		}
	}()

	if token == nil {
		return bandAround(currentPrice, nil, aggressiveDefaultBand)
	}

	vol := computeVolatility(data.PriceValues(), aggressiveVolatilityCap, aggressiveVolatilityFallback)
	rangePct := aggressiveBaseRange * clamp(vol*aggressiveRangeVolMultiplier, aggressiveRangeFloorMult, aggressiveRangeCapMult)
	return bandAround(currentPrice, token, rangePct)
}
