package searcher

import "math"

// Hyperparameters for MCTS

// DefaultExploration is the UCB1 exploration constant, sqrt(2) rounded as
// in vanilla UCT.
const DefaultExploration = 1.41

func logVisits(visits int) float64 {
	return math.Log(float64(visits))
}

// ucb1 scores a child for selection: mean observed value plus an
// exploration bonus that shrinks as the child accumulates visits.
// normalizer is c^2*ln(N) for parent visit count N.
func ucb1(rewards float64, visits int, normalizer float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/float64(visits) + math.Sqrt(normalizer/float64(visits))
}
