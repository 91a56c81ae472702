package strategy

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"solana-strategy-engine/internal/domain"
)

// Factory errors
var (
	ErrUnknownStrategyType       = errors.New("unknown strategy type")
	ErrMissingType               = errors.New("config requires Type")
	ErrMissingRiskTolerance      = errors.New("config requires RiskTolerance")
	ErrInvalidMaxPositionSize    = errors.New("MaxPositionSize must be in (0, 0.1]")
	ErrInvalidStopLoss           = errors.New("StopLoss must be in (0, 0.5]")
	ErrInvalidTakeProfit         = errors.New("TakeProfit must be in (0, 2.0]")
	ErrInvalidSentimentThreshold = errors.New("SentimentThreshold must be in [-1, 1]")
)

// ReturnBand is an expected-return fraction band for a profile.
type ReturnBand struct {
	Min float64
	Max float64
}

// defaultConfigs holds the hardcoded per-profile defaults merged with caller
// overrides at creation time.
var defaultConfigs = map[domain.StrategyType]domain.StrategyConfig{
	domain.StrategyTypeAggressive: {
		Type:               domain.StrategyTypeAggressive,
		RiskTolerance:      domain.RiskToleranceHigh,
		MaxPositionSize:    0.10,
		StopLoss:           0.30,
		TakeProfit:         1.00,
		SentimentThreshold: 0.3,
	},
	domain.StrategyTypeBalanced: {
		Type:               domain.StrategyTypeBalanced,
		RiskTolerance:      domain.RiskToleranceMedium,
		MaxPositionSize:    0.05,
		StopLoss:           0.15,
		TakeProfit:         0.50,
		SentimentThreshold: 0.1,
	},
	domain.StrategyTypeConservative: {
		Type:               domain.StrategyTypeConservative,
		RiskTolerance:      domain.RiskToleranceLow,
		MaxPositionSize:    0.02,
		StopLoss:           0.10,
		TakeProfit:         0.30,
		SentimentThreshold: 0.2,
	},
}

// Factory builds evaluators from profile defaults plus caller overrides.
// Stateless; construct one per process (or per test) and inject it.
type Factory struct {
	log *zap.Logger
}

// NewFactory creates a Factory. A nil logger disables fault logging.
func NewFactory(log *zap.Logger) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{log: log}
}

// DefaultConfig returns the hardcoded defaults for a profile.
func DefaultConfig(t domain.StrategyType) (domain.StrategyConfig, error) {
	cfg, ok := defaultConfigs[t]
	if !ok {
		return domain.StrategyConfig{}, fmt.Errorf("%w: %q", ErrUnknownStrategyType, t)
	}
	return cfg, nil
}

// ValidateConfig checks required fields and bounds. Returns nil when the
// config is acceptable for evaluator construction.
func ValidateConfig(cfg domain.StrategyConfig) error {
	if cfg.Type == "" {
		return ErrMissingType
	}
	if _, ok := defaultConfigs[cfg.Type]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStrategyType, cfg.Type)
	}
	if cfg.RiskTolerance == "" {
		return ErrMissingRiskTolerance
	}
	if cfg.MaxPositionSize <= 0 || cfg.MaxPositionSize > 0.1 {
		return ErrInvalidMaxPositionSize
	}
	if cfg.StopLoss <= 0 || cfg.StopLoss > 0.5 {
		return ErrInvalidStopLoss
	}
	if cfg.TakeProfit <= 0 || cfg.TakeProfit > 2.0 {
		return ErrInvalidTakeProfit
	}
	if cfg.SentimentThreshold < -1 || cfg.SentimentThreshold > 1 {
		return ErrInvalidSentimentThreshold
	}
	return nil
}

// FromConfig constructs the evaluator for an explicit, fully-populated
// config. Unknown types and out-of-bounds values are errors here; the
// composed CreateStrategy is the forgiving entry point.
func (f *Factory) FromConfig(cfg domain.StrategyConfig) (Strategy, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case domain.StrategyTypeAggressive:
		return NewAggressiveStrategy(cfg, f.log), nil
	case domain.StrategyTypeBalanced:
		return NewBalancedStrategy(cfg, f.log), nil
	case domain.StrategyTypeConservative:
		return NewConservativeStrategy(cfg, f.log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategyType, cfg.Type)
	}
}

// CreateStrategy merges the profile defaults with overrides and builds the
// evaluator. An unknown type falls back to Balanced with the same overrides
// (defensive default, warn-logged) rather than failing the caller.
func (f *Factory) CreateStrategy(t domain.StrategyType, overrides *domain.ConfigOverrides) (Strategy, error) {
	defaults, err := DefaultConfig(t)
	if err != nil {
		f.log.Warn("unknown strategy type, falling back to balanced",
			zap.String("requested", string(t)))
		defaults = defaultConfigs[domain.StrategyTypeBalanced]
	}

	return f.FromConfig(overrides.Merged(defaults))
}

// AvailableStrategies returns the closed profile set.
func AvailableStrategies() []domain.StrategyType {
	return []domain.StrategyType{
		domain.StrategyTypeAggressive,
		domain.StrategyTypeBalanced,
		domain.StrategyTypeConservative,
	}
}

// StrategyDescription returns a human-readable profile summary.
func StrategyDescription(t domain.StrategyType) string {
	switch t {
	case domain.StrategyTypeAggressive:
		return "High-risk momentum profile targeting early, volatile tokens with loose liquidity floors"
	case domain.StrategyTypeBalanced:
		return "Medium-risk profile trading established tokens inside a volatility corridor with stability checks"
	case domain.StrategyTypeConservative:
		return "Low-risk profile entering only deep, stable markets with positive recent trend"
	default:
		return ""
	}
}

// StrategyRiskLevel returns the 1-10 risk score of a profile (0 if unknown).
func StrategyRiskLevel(t domain.StrategyType) int {
	switch t {
	case domain.StrategyTypeAggressive:
		return 8
	case domain.StrategyTypeBalanced:
		return 5
	case domain.StrategyTypeConservative:
		return 2
	default:
		return 0
	}
}

// ExpectedReturns returns the expected per-trade return band of a profile,
// monotonically decreasing from Aggressive to Conservative.
func ExpectedReturns(t domain.StrategyType) ReturnBand {
	switch t {
	case domain.StrategyTypeAggressive:
		return ReturnBand{Min: 0.50, Max: 2.00}
	case domain.StrategyTypeBalanced:
		return ReturnBand{Min: 0.20, Max: 0.80}
	case domain.StrategyTypeConservative:
		return ReturnBand{Min: 0.05, Max: 0.30}
	default:
		return ReturnBand{}
	}
}
