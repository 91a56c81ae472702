// Package strategy implements the risk-profile evaluators of the decision
// engine. Each profile is a pure function set over immutable snapshots with
// total, fail-safe return values: entry and sizing fail closed, exit fails
// open, price ranges degrade to a default band. No operation panics outward.
package strategy

import (
	"solana-strategy-engine/internal/domain"
)

// Strategy is the four-operation contract every risk profile implements.
// The profile set is closed: Aggressive, Balanced, Conservative.
type Strategy interface {
	// Type returns the profile identifier.
	Type() domain.StrategyType

	// Config returns a copy of the immutable configuration.
	Config() domain.StrategyConfig

	// ShouldEnter reports whether all of the profile's entry gates hold
	// for the token. Returns false on nil/invalid input or internal fault.
	ShouldEnter(token *domain.Token, data *domain.MarketData) bool

	// CalculatePositionSize returns the USD amount to deploy, bounded by
	// portfolioValueUSD times the configured max position size. Returns 0
	// below the profile's minimum floor, on invalid input or fault;
	// callers must treat 0 as no-entry.
	CalculatePositionSize(token *domain.Token, data *domain.MarketData, portfolioValueUSD float64) float64

	// ShouldExit reports whether any of the profile's exit conditions
	// fires for the open position. Returns true on nil/invalid input or
	// internal fault.
	ShouldExit(position *domain.Position, current *domain.MarketData) bool

	// CalculatePriceRange returns the liquidity provision band around
	// currentPrice, widened by volatility observed in the price history.
	// Always returns a band with 0 < Min < Max, degrading to the
	// profile's default band on invalid input or fault.
	CalculatePriceRange(token *domain.Token, data *domain.MarketData, currentPrice float64) domain.PriceRange
}
