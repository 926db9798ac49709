package experiments

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRaceGame(t *testing.T) {
	t.Run("transitions never mutate the source state", func(t *testing.T) {
		start := newRace(10)

		next := start.Play(raceMove{steps: 2})

		require.NotEqual(t, start, next, "Playing a move must yield a different position")
		require.Equal(t, newRace(10), start, "The source state must stay untouched")
		require.False(t, next.FirstSideTurn(), "The turn must alternate")
	})

	t.Run("crossing the finish line ends the game for the mover", func(t *testing.T) {
		state := raceState{position: 9, target: 10, firstSide: false}

		end := state.Play(raceMove{steps: 3}).(raceState)

		require.True(t, end.IsTerminal())
		require.Empty(t, end.LegalMoves(), "A terminal state offers no moves")
		require.Equal(t, 0.0, end.Rollout(), "The second side crossed first")
	})

	t.Run("rollout outcomes stay in the closed unit interval", func(t *testing.T) {
		state := newRace(15)
		for i := 0; i < 200; i++ {
			outcome := state.Rollout()
			require.GreaterOrEqual(t, outcome, 0.0)
			require.LessOrEqual(t, outcome, 1.0)
		}
	})
}
