package searcher

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/Lobotuerk/MonteCarloTreeSearch/game"
)

type mockMove struct {
	id int
}

func (m mockMove) Equal(other game.Move) bool {
	o, ok := other.(mockMove)
	return ok && o.id == m.id
}

func (m mockMove) String() string {
	return fmt.Sprintf("move-%d", m.id)
}

type mockState struct {
	moves     []game.Move
	played    []game.Move
	terminal  bool
	firstSide bool
	outcome   float64
}

func (m mockState) LegalMoves() []game.Move {
	return m.moves
}

func (m mockState) Play(move game.Move) game.State {
	next := m
	next.played = append(append([]game.Move{}, m.played...), move)
	next.firstSide = !m.firstSide
	return next
}

func (m mockState) Rollout() float64    { return m.outcome }
func (m mockState) IsTerminal() bool    { return m.terminal }
func (m mockState) FirstSideTurn() bool { return m.firstSide }
func (m mockState) Clone() game.State   { return m }

// lineState is a take-away race: each side advances 1 to 3 steps toward
// target, the side that reaches it wins. Gives the protocol tests a real
// multi-ply game.
type lineState struct {
	position  int
	target    int
	firstSide bool
	finished  bool
	firstWon  bool
}

type lineMove struct {
	steps int
}

func (m lineMove) Equal(other game.Move) bool {
	o, ok := other.(lineMove)
	return ok && o.steps == m.steps
}

func (m lineMove) String() string {
	return fmt.Sprintf("advance %d", m.steps)
}

func (s lineState) LegalMoves() []game.Move {
	if s.finished {
		return nil
	}
	return []game.Move{lineMove{steps: 1}, lineMove{steps: 2}, lineMove{steps: 3}}
}

func (s lineState) Play(move game.Move) game.State {
	m := move.(lineMove)
	next := s
	next.position += m.steps
	if next.position >= next.target {
		next.finished = true
		next.firstWon = s.firstSide
	}
	next.firstSide = !s.firstSide
	return next
}

func (s lineState) Rollout() float64 {
	cur := s
	for !cur.finished {
		cur = cur.Play(lineMove{steps: 1 + rand.Intn(3)}).(lineState)
	}
	if cur.firstWon {
		return 1.0
	}
	return 0.0
}

func (s lineState) IsTerminal() bool    { return s.finished }
func (s lineState) FirstSideTurn() bool { return s.firstSide }
func (s lineState) Clone() game.State   { return s }

// riggedState is a two-move game: one move wins outright for the side to
// move, the other loses outright. Used to check that search converges on
// the provably correct move.
type riggedState struct {
	firstSide bool
	terminal  bool
	outcome   float64
}

var (
	winningMove = mockMove{id: 1}
	losingMove  = mockMove{id: 2}
)

func (s riggedState) LegalMoves() []game.Move {
	if s.terminal {
		return nil
	}
	return []game.Move{losingMove, winningMove}
}

func (s riggedState) Play(move game.Move) game.State {
	winner := s.firstSide
	if move.Equal(losingMove) {
		winner = !s.firstSide
	}
	outcome := 0.0
	if winner {
		outcome = 1.0
	}
	return riggedState{firstSide: !s.firstSide, terminal: true, outcome: outcome}
}

func (s riggedState) Rollout() float64 {
	if s.terminal {
		return s.outcome
	}
	moves := s.LegalMoves()
	return s.Play(moves[rand.Intn(len(moves))]).Rollout()
}

func (s riggedState) IsTerminal() bool    { return s.terminal }
func (s riggedState) FirstSideTurn() bool { return s.firstSide }
func (s riggedState) Clone() game.State   { return s }
