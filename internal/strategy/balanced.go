package strategy

import (
	"go.uber.org/zap"

	"solana-strategy-engine/internal/domain"
)

// Balanced profile parameters.
const (
	balancedMinVolume24h = 50_000.0
	balancedMinMarketCap = 100_000.0
	balancedMaxMarketCap = 2_000_000.0
	balancedMinTVL       = 25_000.0

	balancedMinVolatility      = 0.05
	balancedMaxVolatility      = 0.30
	balancedVolatilityCap      = 0.5
	balancedVolatilityFallback = 0.05

	balancedMaxPriceCV     = 0.20
	balancedPriceCVWindow  = 5
	balancedMaxVolumeCV    = 0.50
	balancedVolumeCVWindow = 3

	balancedSentimentMultiplier = 1.5
	balancedSentimentCap        = 1.2
	balancedMarketCapDivisor    = 750_000.0
	balancedMarketCapCap        = 1.2
	balancedVolumeDivisor       = 100_000.0
	balancedVolumeCap           = 1.2
	balancedStabilityCap        = 1.0
	balancedMinPositionUSD      = 25.0

	balancedPanicSentiment       = -0.3
	balancedCollapseVolumeFactor = 0.05
	balancedCollapsePriceFactor  = 0.90
	balancedVolatilitySpike      = 0.5

	balancedBaseRange          = 0.10
	balancedRangeVolMultiplier = 4.0
	balancedRangeFloorMult     = 0.5
	balancedRangeCapMult       = 1.5
	balancedDefaultBand        = 0.08
)

// BalancedStrategy trades established tokens inside a volatility corridor,
// adding price-stability and volume-consistency gates on top of the
// aggressive gate set.
type BalancedStrategy struct {
	cfg domain.StrategyConfig
	log *zap.Logger
}

// NewBalancedStrategy creates a Balanced evaluator with the given config.
// A nil logger disables fault logging.
func NewBalancedStrategy(cfg domain.StrategyConfig, log *zap.Logger) *BalancedStrategy {
	if log == nil {
		log = zap.NewNop()
	}
	cfg.Type = domain.StrategyTypeBalanced
	return &BalancedStrategy{cfg: cfg, log: log}
}

// Type returns the profile identifier.
func (s *BalancedStrategy) Type() domain.StrategyType {
	return domain.StrategyTypeBalanced
}

// Config returns a copy of the immutable configuration.
func (s *BalancedStrategy) Config() domain.StrategyConfig {
	return s.cfg
}

// ShouldEnter requires the full gate conjunction: sentiment, volume, market
// cap window, TVL, trending, a volatility corridor, and stability checks on
// the price and volume series. Stability checks are vacuously true on short
// history. Fails closed on invalid input or fault.
func (s *BalancedStrategy) ShouldEnter(token *domain.Token, data *domain.MarketData) (enter bool) {
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
	if token.Volume24h < balancedMinVolume24h {
		return false
	}
	if token.MarketCap < balancedMinMarketCap || token.MarketCap > balancedMaxMarketCap {
		return false
	}
	if token.TVL < balancedMinTVL {
		return false
	}
	if !token.Trending {
		return false
	}

	prices := data.PriceValues()
	vol := computeVolatility(prices, balancedVolatilityCap, balancedVolatilityFallback)
	if vol <= balancedMinVolatility || vol >= balancedMaxVolatility {
		return false
	}

	if len(prices) >= balancedPriceCVWindow {
		if coefficientOfVariation(prices, balancedPriceCVWindow) >= balancedMaxPriceCV {
			return false
		}
	}

	volumes := data.VolumeValues()
	if len(volumes) >= balancedVolumeCVWindow {
		if coefficientOfVariation(volumes, balancedVolumeCVWindow) >= balancedMaxVolumeCV {
			return false
		}
	}

	return true
}

// CalculatePositionSize scales the portfolio allocation by capped sentiment,
// market-cap, volume and price-stability multipliers. Results below $25
// floor to 0.
func (s *BalancedStrategy) CalculatePositionSize(token *domain.Token, data *domain.MarketData, portfolioValueUSD float64) (size float64) {
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
	size *= cappedMultiplier(token.Sentiment*balancedSentimentMultiplier, balancedSentimentCap)
	size *= cappedMultiplier(token.MarketCap/balancedMarketCapDivisor, balancedMarketCapCap)
	size *= cappedMultiplier(token.Volume24h/balancedVolumeDivisor, balancedVolumeCap)

	cv := coefficientOfVariation(data.PriceValues(), balancedPriceCVWindow)
	size *= cappedMultiplier(1/(1+cv), balancedStabilityCap)

	if size > base {
		size = base
	}
	if size < balancedMinPositionUSD {
		return 0
	}
	return size
}

// ShouldExit fires on any of: stop-loss, take-profit, sentiment panic below
// -0.3, volume collapse, or a volatility spike above 0.5. Fails open on
// invalid input or fault.
func (s *BalancedStrategy) ShouldExit(position *domain.Position, current *domain.MarketData) (exit bool) {
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
	if current.Token.Sentiment < balancedPanicSentiment {
		return true
	}
	if volumeCollapsed(current.Token, position, balancedCollapseVolumeFactor, balancedCollapsePriceFactor) {
		return true
	}

	// The volatility cap coincides with the spike threshold, so a series
	// pinned at the cap counts as spiking.
	vol := computeVolatility(current.PriceValues(), balancedVolatilityCap, balancedVolatilityFallback)
	return vol >= balancedVolatilitySpike
}

// CalculatePriceRange widens the band with observed volatility, clamped to
// the profile corridor. Falls back to an 8% band on fault.
func (s *BalancedStrategy) CalculatePriceRange(token *domain.Token, data *domain.MarketData, currentPrice float64) (band domain.PriceRange) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("price range fault, using default band",
				zap.String("strategy", string(s.Type())), zap.Any("cause", r))
			band = bandAround(currentPrice, token, balancedDefaultBand)
		}
	}()

	if token == nil {
		return bandAround(currentPrice, nil, balancedDefaultBand)
	}

	vol := computeVolatility(data.PriceValues(), balancedVolatilityCap, balancedVolatilityFallback)
	rangePct := balancedBaseRange * clamp(vol*balancedRangeVolMultiplier, balancedRangeFloorMult, balancedRangeCapMult)
	return bandAround(currentPrice, token, rangePct)
}
