// Package aggregator holds the evaluator registry and merges per-profile
// opinions on one token into a single strategy decision.
package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"solana-strategy-engine/internal/domain"
	"solana-strategy-engine/internal/observability"
	"solana-strategy-engine/internal/strategy"
)

// ReferencePortfolioValueUSD is the fixed portfolio value position sizes are
// computed against. External callers rescale to their actual portfolio.
const ReferencePortfolioValueUSD = 10_000.0

const (
	reasoningNoEntry = "No strategies recommend entry"
	reasoningFault   = "Error occurred during strategy execution"
)

// ErrStrategyNotFound is returned when a registry id is unknown.
var ErrStrategyNotFound = errors.New("strategy not found in registry")

// StrategyInfo describes one registry entry.
type StrategyInfo struct {
	ID     string
	Type   domain.StrategyType
	Config domain.StrategyConfig
}

// Aggregator is the stateful decision component. Registry mutations are
// serialized against concurrent ExecuteStrategy reads with a RWMutex;
// evaluations themselves run on immutable snapshots and need no locking.
type Aggregator struct {
	factory *strategy.Factory
	log     *zap.Logger
	metrics *observability.Metrics

	mu         sync.RWMutex
	strategies map[string]strategy.Strategy
}

// New creates an Aggregator. A nil logger disables fault logging; nil
// metrics disables instrumentation.
func New(factory *strategy.Factory, log *zap.Logger, metrics *observability.Metrics) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{
		factory:    factory,
		log:        log,
		metrics:    metrics,
		strategies: make(map[string]strategy.Strategy),
	}
}

// AddStrategy builds an evaluator for the profile with the given overrides
// and registers it. Returns the generated registry id.
func (a *Aggregator) AddStrategy(t domain.StrategyType, overrides *domain.ConfigOverrides) (string, error) {
	s, err := a.factory.CreateStrategy(t, overrides)
	if err != nil {
		return "", err
	}
	return a.AddEvaluator(s), nil
}

// AddEvaluator registers a pre-built evaluator and returns its registry id.
func (a *Aggregator) AddEvaluator(s strategy.Strategy) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextIDLocked(s.Config())
	a.strategies[id] = s
	a.setGaugeLocked()
	return id
}

// RemoveStrategy drops a registry entry. Returns false if the id is unknown.
func (a *Aggregator) RemoveStrategy(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.strategies[id]; !ok {
		return false
	}
	delete(a.strategies, id)
	a.setGaugeLocked()
	return true
}

// ClearStrategies empties the registry.
func (a *Aggregator) ClearStrategies() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.strategies = make(map[string]strategy.Strategy)
	a.setGaugeLocked()
}

// GetStrategies returns the registry contents ordered by id.
func (a *Aggregator) GetStrategies() []StrategyInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()

	infos := make([]StrategyInfo, 0, len(a.strategies))
	for id, s := range a.strategies {
		infos = append(infos, StrategyInfo{ID: id, Type: s.Type(), Config: s.Config()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// UpdateStrategy merges overrides into the entry's full config, builds a
// replacement evaluator through the factory and swaps it in atomically.
// The old evaluator is discarded, never mutated in place.
func (a *Aggregator) UpdateStrategy(id string, overrides *domain.ConfigOverrides) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	existing, ok := a.strategies[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrStrategyNotFound, id)
	}

	replacement, err := a.factory.FromConfig(overrides.Merged(existing.Config()))
	if err != nil {
		return err
	}
	a.strategies[id] = replacement
	return nil
}

// evalResult is one evaluator's contribution to the aggregate.
type evalResult struct {
	enter      bool
	confidence float64
	sizeUSD    float64
	band       domain.PriceRange
	reasoning  string
	failed     bool
}

// ExecuteStrategy evaluates the token against every registered evaluator in
// parallel and merges the opinions. Entry is a logical OR over evaluators;
// confidence is the mean over all evaluated opinions with non-entering ones
// contributing 0; size and range are means over the entering ones. A failing
// evaluator contributes nothing and never aborts the batch. On an unexpected
// aggregate-level fault the safe-default no-entry decision is returned.
func (a *Aggregator) ExecuteStrategy(token *domain.Token, data *domain.MarketData) (decision domain.StrategyDecision) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("aggregate evaluation fault, returning safe default",
				zap.Any("cause", r))
			decision = domain.StrategyDecision{Reasoning: reasoningFault}
		}
		if a.metrics != nil {
			a.metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
			outcome := "skip"
			if decision.ShouldEnter {
				outcome = "enter"
			}
			a.metrics.DecisionsTotal.WithLabelValues(outcome).Inc()
		}
	}()

	// Snapshot the registry so mutations during the batch cannot interfere.
	// Sorted by id for deterministic reasoning order.
	a.mu.RLock()
	ids := make([]string, 0, len(a.strategies))
	for id := range a.strategies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	evaluators := make([]strategy.Strategy, len(ids))
	for i, id := range ids {
		evaluators[i] = a.strategies[id]
	}
	a.mu.RUnlock()

	results := make([]evalResult, len(evaluators))
	var wg sync.WaitGroup
	for i, s := range evaluators {
		wg.Add(1)
		go func(i int, s strategy.Strategy) {
			defer wg.Done()
			defer func() {
				// One evaluator's fault must not cancel its siblings.
				if r := recover(); r != nil {
					a.log.Warn("evaluator failed, continuing batch",
						zap.String("strategy", string(s.Type())), zap.Any("cause", r))
					results[i] = evalResult{failed: true}
					if a.metrics != nil {
						a.metrics.EvaluatorFailures.WithLabelValues(string(s.Type())).Inc()
					}
				}
			}()

			if a.metrics != nil {
				a.metrics.EvaluationsTotal.WithLabelValues(string(s.Type())).Inc()
			}

			r := evalResult{}
			if s.ShouldEnter(token, data) {
				r.enter = true
				r.confidence = computeConfidence(s.Config(), token)
				r.sizeUSD = s.CalculatePositionSize(token, data, ReferencePortfolioValueUSD)
				r.band = s.CalculatePriceRange(token, data, token.Price)
				r.reasoning = buildReasoning(s.Type(), token)
			}
			results[i] = r
		}(i, s)
	}
	wg.Wait()

	evaluated := 0
	entering := 0
	confidenceSum := 0.0
	sizeSum := 0.0
	minSum := 0.0
	maxSum := 0.0
	var reasons []string
	for _, r := range results {
		if r.failed {
			continue
		}
		evaluated++
		if !r.enter {
			continue
		}
		entering++
		confidenceSum += r.confidence
		sizeSum += r.sizeUSD
		minSum += r.band.Min
		maxSum += r.band.Max
		reasons = append(reasons, r.reasoning)
	}

	if entering == 0 {
		return domain.StrategyDecision{Reasoning: reasoningNoEntry}
	}

	size := sizeSum / float64(entering)
	band := domain.PriceRange{
		Min: minSum / float64(entering),
		Max: maxSum / float64(entering),
	}
	return domain.StrategyDecision{
		ShouldEnter:     true,
		PositionSizeUSD: &size,
		Range:           &band,
		Confidence:      confidenceSum / float64(evaluated),
		Reasoning:       strings.Join(reasons, "; "),
	}
}

// ShouldExitPosition asks every registered evaluator sharing the position's
// risk profile; the position exits if any of them says so. When no matching
// evaluator is registered, a default-config evaluator for the profile
// decides. Fails open on nil position or evaluator fault.
func (a *Aggregator) ShouldExitPosition(position *domain.Position, current *domain.MarketData) bool {
	if position == nil {
		return true
	}

	a.mu.RLock()
	var matching []strategy.Strategy
	for _, s := range a.strategies {
		if s.Type() == position.StrategyType {
			matching = append(matching, s)
		}
	}
	a.mu.RUnlock()

	if len(matching) == 0 {
		s, err := a.factory.CreateStrategy(position.StrategyType, nil)
		if err != nil {
			return true
		}
		a.log.Debug("no registered evaluator for position profile, using defaults",
			zap.String("position", position.ID),
			zap.String("strategy", string(position.StrategyType)))
		matching = append(matching, s)
	}

	for _, s := range matching {
		if a.exitOpinion(s, position, current) {
			return true
		}
	}
	return false
}

// exitOpinion isolates a single evaluator's exit call, failing open.
func (a *Aggregator) exitOpinion(s strategy.Strategy, position *domain.Position, current *domain.MarketData) (exit bool) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Warn("exit evaluation fault, failing open",
				zap.String("strategy", string(s.Type())), zap.Any("cause", r))
			exit = true
		}
	}()
	return s.ShouldExit(position, current)
}

// nextIDLocked generates a registry id from the config and the current time,
// disambiguating same-millisecond additions. Callers hold the write lock.
func (a *Aggregator) nextIDLocked(cfg domain.StrategyConfig) string {
	base := fmt.Sprintf("%s-%s-%d", cfg.Type, cfg.RiskTolerance, time.Now().UnixMilli())
	id := base
	for n := 1; ; n++ {
		if _, taken := a.strategies[id]; !taken {
			return id
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// setGaugeLocked updates the registry size gauge. Callers hold the lock.
func (a *Aggregator) setGaugeLocked() {
	if a.metrics != nil {
		a.metrics.ActiveStrategies.Set(float64(len(a.strategies)))
	}
}
