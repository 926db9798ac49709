package searcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/Lobotuerk/MonteCarloTreeSearch/game"
)

// Agent owns a persistent search tree across a multi-move game. Each call
// to GenerateMove advances the tree by the opponent's move when one is
// supplied, searches under the configured budgets, commits the strongest
// move and keeps the chosen subtree for the next turn instead of starting
// over.
//
// An Agent is not safe for concurrent use; the tree belongs to exactly one
// controlling goroutine.
type Agent struct {
	mcts     *MCTS
	root     *node
	last     MoveMetrics
	searched bool
}

// NewAgent builds an agent rooted at state. At least one of WithIterations
// and WithDuration must be supplied; zero or negative budgets are rejected.
func NewAgent(state game.State, options ...Option) (*Agent, error) {
	if state == nil {
		return nil, errors.New("searcher: initial state is required")
	}

	metrics := NewMetricsCollector()
	mcts, err := NewMCTS(append([]Option{WithMetrics(metrics)}, options...)...)
	if err != nil {
		return nil, err
	}

	return &Agent{
		mcts: mcts,
		root: newNode(nil, nil, state),
	}, nil
}

// GenerateMove runs one turn of the move protocol: incorporate the
// opponent's move if any, search, and return the committed move. A nil
// move with a nil error signals a terminal position; deciding game-over
// handling is the caller's business.
//
// A supplied opponent move that is not legal in the current position is
// the one caller error this protocol rejects. Game-contract violations
// discovered mid-search surface as *game.ContractError.
func (a *Agent) GenerateMove(opponent game.Move) (move game.Move, err error) {
	defer func() {
		if r := recover(); r != nil {
			cerr, ok := r.(*game.ContractError)
			if !ok {
				panic(r)
			}
			move, err = nil, cerr
		}
	}()

	reused := true
	if opponent != nil {
		reused, err = a.advance(opponent)
		if err != nil {
			return nil, err
		}
	}

	if a.root.terminal || (len(a.root.untried) == 0 && len(a.root.children) == 0) {
		log.Debug().Msg("no move to generate from a terminal position")
		return nil, nil
	}

	collector := a.mcts.metrics
	defer func() {
		collector.SetTreeReused(reused)
		a.last = collector.Complete()
		a.searched = true
	}()

	if err := a.mcts.search(a.root); err != nil {
		return nil, err
	}

	best := a.root.bestChild()
	if best == nil {
		// Budgets can expire before the forced iteration only when the
		// root went terminal mid-protocol; defended above.
		panic("search completed without expanding the root")
	}

	move = best.move
	best.detach()
	a.root = best

	log.Debug().
		Stringer("move", move).
		Int("visits", a.root.visits).
		Msg("committed move and advanced root")
	return move, nil
}

// advance incorporates the opponent's move before searching: reuse the
// matching subtree when the move was already expanded, rebuild the tree
// from scratch when it is legal but unexplored, reject it otherwise.
// Reports whether the existing tree was kept.
func (a *Agent) advance(m game.Move) (reused bool, err error) {
	if a.root.terminal {
		return false, fmt.Errorf("%w: %s played on a finished game", ErrIllegalMove, m)
	}

	if child := a.root.childByMove(m); child != nil {
		child.detach()
		a.root = child
		return true, nil
	}

	if !isLegal(a.root, m) {
		return false, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	// Legal but never expanded: nothing in the tree is reachable anymore.
	log.Debug().Stringer("move", m).Msg("opponent move outside the tree, starting over")
	state := a.root.state.Play(m)
	if state == nil {
		panic(&game.ContractError{Op: "Play"})
	}
	a.root = newNode(nil, nil, state)
	return false, nil
}

func isLegal(n *node, m game.Move) bool {
	for _, legal := range n.untried {
		if legal.Equal(m) {
			return true
		}
	}
	for _, child := range n.children {
		if child.move.Equal(m) {
			return true
		}
	}
	return false
}

// CurrentState returns the agent's current root position. States are
// immutable, so the returned value is safe to share.
func (a *Agent) CurrentState() game.State {
	return a.root.state
}

// LastSearch returns the metrics of the most recent search, or the zero
// value if no search has run yet.
func (a *Agent) LastSearch() MoveMetrics {
	return a.last
}

// Feedback renders a human-readable summary of the last search for
// observability. It never fails and is safe to call at any point in the
// agent's lifecycle.
func (a *Agent) Feedback() string {
	var b strings.Builder

	fmt.Fprintf(&b, "tree: %d nodes, root visits %d\n", a.root.size(), a.root.visits)
	if a.searched {
		fmt.Fprintf(&b, "last search: %d iterations, %d rollouts in %v (tree reused: %t)\n",
			a.last.Iterations, a.last.Rollouts, a.last.Duration, a.last.TreeReused)
	} else {
		b.WriteString("last search: none\n")
	}

	children := slices.Clone(a.root.children)
	slices.SortStableFunc(children, func(x, y *node) int {
		return y.visits - x.visits
	})
	for _, child := range children {
		fmt.Fprintf(&b, "  %s: visits %d, value %.3f\n", child.move, child.visits, child.mean())
	}
	return b.String()
}
