package domain

// StrategyType enumerates the closed set of risk profiles.
type StrategyType string

const (
	StrategyTypeAggressive   StrategyType = "AGGRESSIVE"
	StrategyTypeBalanced     StrategyType = "BALANCED"
	StrategyTypeConservative StrategyType = "CONSERVATIVE"
)

// RiskTolerance is an informational label attached to a config.
type RiskTolerance string

const (
	RiskToleranceLow    RiskTolerance = "LOW"
	RiskToleranceMedium RiskTolerance = "MEDIUM"
	RiskToleranceHigh   RiskTolerance = "HIGH"
)

// StrategyConfig holds the tunable parameters of one evaluator.
// Immutable once an evaluator is constructed; updates build a new evaluator.
type StrategyConfig struct {
	Type          StrategyType
	RiskTolerance RiskTolerance

	MaxPositionSize    float64 // fraction of portfolio, (0, 0.1]
	StopLoss           float64 // loss fraction triggering exit, (0, 0.5]
	TakeProfit         float64 // gain fraction triggering exit, (0, 2.0]
	SentimentThreshold float64 // minimum sentiment for entry, [-1, 1]
}

// ConfigOverrides carries optional per-field overrides applied on top of a
// profile's defaults. Nil fields keep the default.
type ConfigOverrides struct {
	RiskTolerance      *RiskTolerance
	MaxPositionSize    *float64
	StopLoss           *float64
	TakeProfit         *float64
	SentimentThreshold *float64
}

// Merged returns cfg with the non-nil override fields applied.
func (o *ConfigOverrides) Merged(cfg StrategyConfig) StrategyConfig {
	if o == nil {
		return cfg
	}
	if o.RiskTolerance != nil {
		cfg.RiskTolerance = *o.RiskTolerance
	}
	if o.MaxPositionSize != nil {
		cfg.MaxPositionSize = *o.MaxPositionSize
	}
	if o.StopLoss != nil {
		cfg.StopLoss = *o.StopLoss
	}
	if o.TakeProfit != nil {
		cfg.TakeProfit = *o.TakeProfit
	}
	if o.SentimentThreshold != nil {
		cfg.SentimentThreshold = *o.SentimentThreshold
	}
	return cfg
}
