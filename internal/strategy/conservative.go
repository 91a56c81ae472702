package strategy

import (
	"go.uber.org/zap"

	"solana-strategy-engine/internal/domain"
)

// Conservative profile parameters.
const (
	conservativeMinVolume24h = 100_000.0
	conservativeMinMarketCap = 200_000.0
	conservativeMaxMarketCap = 1_000_000.0
	conservativeMinTVL       = 50_000.0

	conservativeMinVolatility      = 0.02
	conservativeMaxVolatility      = 0.20
	conservativeVolatilityCap      = 0.3
	conservativeVolatilityFallback = 0.02

	conservativeMaxPriceCV     = 0.15
	conservativePriceCVWindow  = 10
	conservativeMaxVolumeCV    = 0.30
	conservativeVolumeCVWindow = 5

	conservativeTrendWindow    = 5
	conservativeMinTrendReturn = 0.05
	conservativeMinLiqRatio    = 0.10

	conservativeSentimentMultiplier = 1.2
	conservativeSentimentCap        = 1.0
	conservativeMarketCapDivisor    = 1_000_000.0
	conservativeMarketCapCap        = 1.0
	conservativeVolumeDivisor       = 200_000.0
	conservativeVolumeCap           = 1.0
	conservativeStabilityCap        = 1.0
	conservativeLiqRatioDivisor     = 0.2
	conservativeLiqRatioCap         = 1.0
	conservativeMinPositionUSD      = 25.0

	conservativePanicSentiment       = -0.1
	conservativeCollapseVolumeFactor = 0.08
	conservativeCollapsePriceFactor  = 0.95
	conservativeVolatilitySpike      = 0.3

	conservativeBaseRange          = 0.06
	conservativeRangeVolMultiplier = 3.0
	conservativeRangeFloorMult     = 0.5
	conservativeRangeCapMult       = 1.2
	conservativeDefaultBand        = 0.05
)

// ConservativeStrategy only enters deep, stable, already-rising markets:
// the tightest cap window, highest liquidity floors, a narrow volatility
// corridor, and positive recent trend plus liquidity-depth requirements
// that the other profiles skip.
type ConservativeStrategy struct {
	cfg domain.StrategyConfig
	log *zap.Logger
}

// NewConservativeStrategy creates a Conservative evaluator with the given
// config. A nil logger disables fault logging.
func NewConservativeStrategy(cfg domain.StrategyConfig, log *zap.Logger) *ConservativeStrategy {
	if log == nil {
		log = zap.NewNop()
	}
	cfg.Type = domain.StrategyTypeConservative
	return &ConservativeStrategy{cfg: cfg, log: log}
}

// Type returns the profile identifier.
func (s *ConservativeStrategy) Type() domain.StrategyType {
	return domain.StrategyTypeConservative
}

// Config returns a copy of the immutable configuration.
func (s *ConservativeStrategy) Config() domain.StrategyConfig {
	return s.cfg
}

// ShouldEnter requires the full gate conjunction including stability checks,
// a positive recent trend over the last 5 points and a TVL/market-cap ratio
// above 0.10. Stability checks are vacuously true on short history; the
// trend gate is not, since it demands positive evidence. Fails closed on
// invalid input or fault.
func (s *ConservativeStrategy) ShouldEnter(token *domain.Token, data *domain.MarketData) (enter bool) {
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
	if token.Volume24h < conservativeMinVolume24h {
		return false
	}
	if token.MarketCap < conservativeMinMarketCap || token.MarketCap > conservativeMaxMarketCap {
		return false
	}
	if token.TVL < conservativeMinTVL {
		return false
	}
	if !token.Trending {
		return false
	}

	prices := data.PriceValues()
	vol := computeVolatility(prices, conservativeVolatilityCap, conservativeVolatilityFallback)
	if vol <= conservativeMinVolatility || vol >= conservativeMaxVolatility {
		return false
	}

	if len(prices) >= conservativePriceCVWindow {
		if coefficientOfVariation(prices, conservativePriceCVWindow) >= conservativeMaxPriceCV {
			return false
		}
	}

	volumes := data.VolumeValues()
	if len(volumes) >= conservativeVolumeCVWindow {
		if coefficientOfVariation(volumes, conservativeVolumeCVWindow) >= conservativeMaxVolumeCV {
			return false
		}
	}

	ret, ok := recentReturn(prices, conservativeTrendWindow)
	if !ok || ret <= conservativeMinTrendReturn {
		return false
	}

	return token.LiquidityRatio() > conservativeMinLiqRatio
}

// CalculatePositionSize scales the portfolio allocation by capped sentiment,
// market-cap, volume, price-stability and liquidity-depth multipliers.
// Results below $25 floor to 0.
func (s *ConservativeStrategy) CalculatePositionSize(token *domain.Token, data *domain.MarketData, portfolioValueUSD float64) (size float64) {
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
	size *= cappedMultiplier(token.Sentiment*conservativeSentimentMultiplier, conservativeSentimentCap)
	size *= cappedMultiplier(token.MarketCap/conservativeMarketCapDivisor, conservativeMarketCapCap)
	size *= cappedMultiplier(token.Volume24h/conservativeVolumeDivisor, conservativeVolumeCap)

	cv := coefficientOfVariation(data.PriceValues(), conservativePriceCVWindow)
	size *= cappedMultiplier(1/(1+cv), conservativeStabilityCap)
	size *= cappedMultiplier(token.LiquidityRatio()/conservativeLiqRatioDivisor, conservativeLiqRatioCap)

	if size > base {
		size = base
	}
	if size < conservativeMinPositionUSD {
		return 0
	}
	return size
}

// ShouldExit fires on any of: stop-loss, take-profit, sentiment panic below
// -0.1, volume collapse, a volatility spike at or above 0.3, or liquidity
// depth dropping under 0.10 of market cap. Fails open on invalid input or
// fault.
func (s *ConservativeStrategy) ShouldExit(position *domain.Position, current *domain.MarketData) (exit bool) {
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
	if current.Token.Sentiment < conservativePanicSentiment {
		return true
	}
	if volumeCollapsed(current.Token, position, conservativeCollapseVolumeFactor, conservativeCollapsePriceFactor) {
		return true
	}

	vol := computeVolatility(current.PriceValues(), conservativeVolatilityCap, conservativeVolatilityFallback)
	if vol >= conservativeVolatilitySpike {
		return true
	}

	return current.Token.MarketCap > 0 && current.Token.LiquidityRatio() < conservativeMinLiqRatio
}

// CalculatePriceRange widens the band with observed volatility, clamped to
// the tightest corridor of the three profiles. Falls back to a 5% band on
// fault.
func (s *ConservativeStrategy) CalculatePriceRange(token *domain.Token, data *domain.MarketData, currentPrice float64) (band domain.PriceRange) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("price range fault, using default band",
				zap.String("strategy", string(s.Type())), zap.Any("cause", r))
			band = bandAround(currentPrice, token, conservativeDefaultBand)
		}
	}()

	if token == nil {
		return bandAround(currentPrice, nil, conservativeDefaultBand)
	}

	vol := computeVolatility(data.PriceValues(), conservativeVolatilityCap, conservativeVolatilityFallback)
	rangePct := conservativeBaseRange * clamp(vol*conservativeRangeVolMultiplier, conservativeRangeFloorMult, conservativeRangeCapMult)
	return bandAround(currentPrice, token, rangePct)
}
