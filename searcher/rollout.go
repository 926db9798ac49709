package searcher

import "github.com/Lobotuerk/MonteCarloTreeSearch/game"

// rollouts runs count independent playouts from state and returns their
// summed outcome. Each playout operates on its own clone, so no worker
// ever touches tree-owned state. The reduction is a plain sum, invariant
// to worker completion order.
//
// The caller blocks until every dispatched rollout has finished; rollouts
// never outlive the iteration that launched them.
func rollouts(state game.State, count int) (float64, error) {
	if count <= 1 {
		// Nothing to fan out; run inline on the controlling goroutine.
		res := runRollout(cloneState(state))
		return res.outcome, res.err
	}

	out := make(chan rolloutResult, count)
	for i := 0; i < count; i++ {
		sharedPool.submit(rolloutJob{state: cloneState(state), out: out})
	}

	var sum float64
	var err error
	for i := 0; i < count; i++ {
		res := <-out
		if res.err != nil && err == nil {
			err = res.err
		}
		sum += res.outcome
	}
	if err != nil {
		return 0, err
	}
	return sum, nil
}

func cloneState(state game.State) game.State {
	clone := state.Clone()
	if clone == nil {
		panic(&game.ContractError{Op: "Clone"})
	}
	return clone
}
