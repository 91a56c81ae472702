// Package config loads the host-side engine configuration: which evaluators
// to register, their per-field overrides, and ambient settings. The engine
// core itself only consumes the resulting domain structs.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"solana-strategy-engine/internal/domain"
	"solana-strategy-engine/internal/strategy"
)

// Config is the full host configuration.
type Config struct {
	Strategies []StrategyEntry `yaml:"strategies"`
	Portfolio  PortfolioConfig `yaml:"portfolio"`
	Log        LogConfig       `yaml:"log"`
	Metrics    MetricsConfig   `yaml:"metrics"`
}

// StrategyEntry selects one profile plus optional overrides. Omitted
// override fields keep the profile defaults.
type StrategyEntry struct {
	Type               string   `yaml:"type"` // aggressive | balanced | conservative
	RiskTolerance      *string  `yaml:"risk_tolerance,omitempty"`
	MaxPositionSize    *float64 `yaml:"max_position_size,omitempty"`
	StopLoss           *float64 `yaml:"stop_loss,omitempty"`
	TakeProfit         *float64 `yaml:"take_profit,omitempty"`
	SentimentThreshold *float64 `yaml:"sentiment_threshold,omitempty"`
}

// PortfolioConfig holds portfolio-level settings.
type PortfolioConfig struct {
	ValueUSD float64 `yaml:"value_usd"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// MetricsConfig controls the Prometheus endpoint of the host.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

// Load reads the YAML file, applies .env/environment overrides and defaults,
// and validates every strategy entry against the factory bounds.
func Load(path string) (*Config, error) {
	// Load .env if present; missing file is not an error.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// StrategyType maps the YAML profile name onto the domain enumeration.
// Unknown names map through unchanged so the factory's defensive fallback
// (and its warning) stays in one place.
func (e *StrategyEntry) StrategyType() domain.StrategyType {
	switch e.Type {
	case "aggressive":
		return domain.StrategyTypeAggressive
	case "balanced":
		return domain.StrategyTypeBalanced
	case "conservative":
		return domain.StrategyTypeConservative
	default:
		return domain.StrategyType(e.Type)
	}
}

// Overrides converts the entry's optional fields to domain overrides.
func (e *StrategyEntry) Overrides() *domain.ConfigOverrides {
	ov := &domain.ConfigOverrides{
		MaxPositionSize:    e.MaxPositionSize,
		StopLoss:           e.StopLoss,
		TakeProfit:         e.TakeProfit,
		SentimentThreshold: e.SentimentThreshold,
	}
	if e.RiskTolerance != nil {
		rt := domain.RiskTolerance(*e.RiskTolerance)
		ov.RiskTolerance = &rt
	}
	return ov
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("METRICS_NAMESPACE"); v != "" {
		cfg.Metrics.Namespace = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Portfolio.ValueUSD <= 0 {
		cfg.Portfolio.ValueUSD = 10_000
	}
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = []StrategyEntry{{Type: "balanced"}}
	}
}

// validate checks every entry's merged config against the factory bounds so
// a malformed file fails at startup, not at evaluation time.
func validate(cfg *Config) error {
	for i, e := range cfg.Strategies {
		defaults, err := strategy.DefaultConfig(e.StrategyType())
		if err != nil {
			// Unknown profile names are tolerated here; the factory
			// falls back to balanced and logs.
			defaults, _ = strategy.DefaultConfig(domain.StrategyTypeBalanced)
		}
		if err := strategy.ValidateConfig(e.Overrides().Merged(defaults)); err != nil {
			return fmt.Errorf("config.Load: strategies[%d] (%s): %w", i, e.Type, err)
		}
	}
	return nil
}
