package experiments

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/Lobotuerk/MonteCarloTreeSearch/game"
)

// raceState is a synthetic benchmark position: two sides alternate taking
// 1 to 3 steps toward a shared finish line, and the side that crosses it
// wins. The rules are trivial on purpose; the game exists only to give the
// engine trees of tunable depth to chew on.
type raceState struct {
	position  int
	target    int
	firstSide bool
	finished  bool
	firstWon  bool
}

type raceMove struct {
	steps int
}

func newRace(target int) raceState {
	return raceState{target: target, firstSide: true}
}

func (m raceMove) Equal(other game.Move) bool {
	o, ok := other.(raceMove)
	return ok && o.steps == m.steps
}

func (m raceMove) String() string {
	return fmt.Sprintf("advance %d", m.steps)
}

func (s raceState) LegalMoves() []game.Move {
	if s.finished {
		return nil
	}
	return []game.Move{raceMove{steps: 1}, raceMove{steps: 2}, raceMove{steps: 3}}
}

func (s raceState) Play(move game.Move) game.State {
	m := move.(raceMove)
	next := s
	next.position += m.steps
	if next.position >= next.target {
		next.finished = true
		next.firstWon = s.firstSide
	}
	next.firstSide = !s.firstSide
	return next
}

func (s raceState) Rollout() float64 {
	cur := s
	for !cur.finished {
		cur = cur.Play(raceMove{steps: 1 + rand.Intn(3)}).(raceState)
	}
	if cur.firstWon {
		return 1.0
	}
	return 0.0
}

func (s raceState) IsTerminal() bool { return s.finished }

func (s raceState) FirstSideTurn() bool { return s.firstSide }

// Clone is trivial: raceState is a plain value with no shared memory.
func (s raceState) Clone() game.State { return s }
