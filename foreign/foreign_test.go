package foreign

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/Lobotuerk/MonteCarloTreeSearch/game"
	"github.com/Lobotuerk/MonteCarloTreeSearch/searcher"
)

// duelPosition is the "foreign" side of the tests: a two-move game whose
// states only ever cross the boundary as JSON snapshots. One move wins
// outright for the side to move, the other loses outright.
type duelPosition struct {
	FirstSide bool    `json:"first_side"`
	Finished  bool    `json:"finished"`
	Outcome   float64 `json:"outcome"`
}

type duelRuntime struct{}

func (duelRuntime) Snapshot(state any) ([]byte, error) {
	pos, ok := state.(duelPosition)
	if !ok {
		return nil, fmt.Errorf("unsupported state %T", state)
	}
	return json.Marshal(pos)
}

func (duelRuntime) decode(snapshot []byte) (duelPosition, error) {
	var pos duelPosition
	err := json.Unmarshal(snapshot, &pos)
	return pos, err
}

func (r duelRuntime) LegalMoves(snapshot []byte) ([]MoveData, error) {
	pos, err := r.decode(snapshot)
	if err != nil || pos.Finished {
		return nil, err
	}
	return []MoveData{
		{Payload: []byte("lose"), Label: "losing move"},
		{Payload: []byte("win"), Label: "winning move"},
	}, nil
}

func (r duelRuntime) Apply(snapshot []byte, move MoveData) ([]byte, error) {
	pos, err := r.decode(snapshot)
	if err != nil {
		return nil, err
	}
	winner := pos.FirstSide
	if string(move.Payload) == "lose" {
		winner = !pos.FirstSide
	}
	next := duelPosition{FirstSide: !pos.FirstSide, Finished: true}
	if winner {
		next.Outcome = 1.0
	}
	return json.Marshal(next)
}

func (r duelRuntime) Rollout(snapshot []byte) (float64, error) {
	pos, err := r.decode(snapshot)
	if err != nil {
		return 0, err
	}
	if pos.Finished {
		return pos.Outcome, nil
	}
	moves, err := r.LegalMoves(snapshot)
	if err != nil {
		return 0, err
	}
	next, err := r.Apply(snapshot, moves[rand.Intn(len(moves))])
	if err != nil {
		return 0, err
	}
	return r.Rollout(next)
}

func (r duelRuntime) IsTerminal(snapshot []byte) (bool, error) {
	pos, err := r.decode(snapshot)
	return pos.Finished, err
}

func (r duelRuntime) FirstSideTurn(snapshot []byte) (bool, error) {
	pos, err := r.decode(snapshot)
	return pos.FirstSide, err
}

func TestStateRoundTrip(t *testing.T) {
	t.Run("wraps a foreign state behind a snapshot", func(t *testing.T) {
		state, err := NewState(duelRuntime{}, duelPosition{FirstSide: true})

		require.NoError(t, err)
		require.False(t, state.IsTerminal())
		require.True(t, state.FirstSideTurn())
		require.Len(t, state.LegalMoves(), 2)
	})

	t.Run("playing a move yields an independent snapshot", func(t *testing.T) {
		state, err := NewState(duelRuntime{}, duelPosition{FirstSide: true})
		require.NoError(t, err)

		moves := state.LegalMoves()
		next := state.Play(moves[1])

		require.True(t, next.IsTerminal(), "The duel ends after one move")
		require.False(t, next.FirstSideTurn())
		require.False(t, state.IsTerminal(), "The source state must not change")
		require.Equal(t, 1.0, next.Rollout(), "Terminal rollout reports the final result")
	})

	t.Run("clone shares no memory with the original", func(t *testing.T) {
		state, err := NewState(duelRuntime{}, duelPosition{FirstSide: true})
		require.NoError(t, err)

		clone := state.Clone().(*State)
		clone.snapshot[0] = 'X'

		require.NotEqual(t, state.snapshot[0], clone.snapshot[0],
			"Mutating a clone's snapshot must not reach the tree-owned state")
	})

	t.Run("move equality compares payloads", func(t *testing.T) {
		a := NewMove([]byte("win"), "winning move")
		b := NewMove([]byte("win"), "other label")
		c := NewMove([]byte("lose"), "winning move")

		require.True(t, a.Equal(b))
		require.False(t, a.Equal(c))
		require.Equal(t, "winning move", a.String())
	})
}

func TestSnapshotFailure(t *testing.T) {
	t.Run("serialization failure is its own error kind", func(t *testing.T) {
		_, err := NewState(duelRuntime{}, "not a duel position")

		var serr *SnapshotError
		require.ErrorAs(t, err, &serr,
			"Boundary failures must not be conflated with tree-search failures")
	})
}

func TestAgentOverForeignGame(t *testing.T) {
	t.Run("search drives a foreign game end to end", func(t *testing.T) {
		searcher.SetWorkerCount(1)
		state, err := NewState(duelRuntime{}, duelPosition{FirstSide: true})
		require.NoError(t, err)

		agent, err := searcher.NewAgent(state, searcher.WithIterations(200))
		require.NoError(t, err)

		move, err := agent.GenerateMove(nil)

		require.NoError(t, err)
		require.NotNil(t, move)
		require.True(t, move.Equal(NewMove([]byte("win"), "")),
			"The agent should find the winning move through the adapter")
	})

	t.Run("runtime failure mid-search surfaces as a contract error", func(t *testing.T) {
		searcher.SetWorkerCount(1)
		rt := &flakyRuntime{duelRuntime: duelRuntime{}}
		state, err := NewState(rt, duelPosition{FirstSide: true})
		require.NoError(t, err)
		rt.fail = true

		agent, err := searcher.NewAgent(state, searcher.WithIterations(10))
		require.NoError(t, err)

		_, err = agent.GenerateMove(nil)

		var cerr *game.ContractError
		require.ErrorAs(t, err, &cerr)
	})
}

// flakyRuntime starts failing once fail is set.
type flakyRuntime struct {
	duelRuntime
	fail bool
}

func (r *flakyRuntime) Apply(snapshot []byte, move MoveData) ([]byte, error) {
	if r.fail {
		return nil, errors.New("foreign runtime went away")
	}
	return r.duelRuntime.Apply(snapshot, move)
}
