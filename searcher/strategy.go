package searcher

import (
	"sync"

	"golang.org/x/exp/rand"

	"github.com/Lobotuerk/MonteCarloTreeSearch/game"
)

// Strategy selects how rollout playouts are generated. Like the worker
// count it is process-wide configuration shared by every agent, with no
// per-agent override.
type Strategy int

const (
	// StrategyRandom plays out with the game's uniform random policy.
	StrategyRandom Strategy = iota
	// StrategyHeuristic plays out with the game's guided policy,
	// falling back to the random one for games that supply none.
	StrategyHeuristic
	// StrategyMixed picks the guided policy per playout with the
	// configured heuristic ratio.
	StrategyMixed
	// StrategyHeavy always plays out with the guided policy; it is the
	// caller's cue that the game's heuristic does deeper evaluation.
	StrategyHeavy
)

func (s Strategy) String() string {
	switch s {
	case StrategyHeuristic:
		return "heuristic"
	case StrategyMixed:
		return "mixed"
	case StrategyHeavy:
		return "heavy"
	default:
		return "random"
	}
}

// DefaultHeuristicRatio is the share of guided playouts under
// StrategyMixed until configured otherwise.
const DefaultHeuristicRatio = 0.5

var rolloutConfig = struct {
	mu       sync.Mutex
	strategy Strategy
	ratio    float64
}{strategy: StrategyRandom, ratio: DefaultHeuristicRatio}

// RolloutStrategy returns the strategy rollout workers currently apply.
func RolloutStrategy() Strategy {
	rolloutConfig.mu.Lock()
	defer rolloutConfig.mu.Unlock()
	return rolloutConfig.strategy
}

// SetRolloutStrategy switches the playout policy for every agent in the
// process. Unknown values fall back to StrategyRandom.
func SetRolloutStrategy(s Strategy) {
	if s < StrategyRandom || s > StrategyHeavy {
		s = StrategyRandom
	}
	rolloutConfig.mu.Lock()
	defer rolloutConfig.mu.Unlock()
	rolloutConfig.strategy = s
}

// HeuristicRatio returns the share of guided playouts under StrategyMixed.
func HeuristicRatio() float64 {
	rolloutConfig.mu.Lock()
	defer rolloutConfig.mu.Unlock()
	return rolloutConfig.ratio
}

// SetHeuristicRatio sets the share of guided playouts under
// StrategyMixed, clamped to [0, 1].
func SetHeuristicRatio(ratio float64) {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	rolloutConfig.mu.Lock()
	defer rolloutConfig.mu.Unlock()
	rolloutConfig.ratio = ratio
}

// playout runs one playout under the configured strategy. The outcome is
// range-checked by the caller like any other rollout result.
func playout(state game.State) float64 {
	rolloutConfig.mu.Lock()
	strategy, ratio := rolloutConfig.strategy, rolloutConfig.ratio
	rolloutConfig.mu.Unlock()

	switch strategy {
	case StrategyHeuristic, StrategyHeavy:
		return heuristicPlayout(state)
	case StrategyMixed:
		if rand.Float64() < ratio {
			return heuristicPlayout(state)
		}
		return state.Rollout()
	default:
		return state.Rollout()
	}
}

func heuristicPlayout(state game.State) float64 {
	if h, ok := state.(game.HeuristicState); ok {
		return h.HeuristicRollout()
	}
	return state.Rollout()
}
