package domain

// PriceRange is a (min, max) USD price band. Invariant: 0 < Min < Max.
type PriceRange struct {
	Min float64
	Max float64
}

// Valid reports whether the band satisfies the range invariant.
func (r PriceRange) Valid() bool {
	return r.Min > 0 && r.Min < r.Max
}

// StrategyDecision is the aggregate outcome of evaluating one token across
// all registered evaluators. Created fresh per evaluation, never persisted.
type StrategyDecision struct {
	ShouldEnter bool

	// PositionSizeUSD is present only when ShouldEnter is true.
	// A zero size must be treated by callers as no-entry.
	PositionSizeUSD *float64

	// Range is present only when ShouldEnter is true.
	Range *PriceRange

	Confidence float64 // heuristic signal-support score in [0, 1]
	Reasoning  string  // human-readable explanation
}
