package searcher

import (
	"errors"
	"fmt"
	"time"

	"github.com/Lobotuerk/MonteCarloTreeSearch/game"
)

var (
	// ErrNoBudget is returned when neither an iteration nor a duration
	// budget is configured.
	ErrNoBudget = errors.New("searcher: an iteration or duration budget is required")
	// ErrIllegalMove is returned when a supplied opponent move is not
	// legal in the current root position.
	ErrIllegalMove = errors.New("searcher: move is not legal in the current position")
)

type Option func(*MCTS)

// MCTS drives selection, expansion, rollout and backpropagation against a
// tree under an iteration and/or wall-clock budget. The loop runs on a
// single controlling goroutine; only rollouts fan out to the shared worker
// pool, and their join is synchronous within each iteration.
type MCTS struct {
	iterations  int
	duration    time.Duration
	exploration float64
	metrics     MetricsCollector
}

// WithIterations bounds the search to at most n iterations.
func WithIterations(n int) Option {
	return func(m *MCTS) {
		m.iterations = n
	}
}

// WithDuration bounds the search wall-clock time. The budget is checked at
// iteration boundaries only; an in-flight iteration always completes.
func WithDuration(d time.Duration) Option {
	return func(m *MCTS) {
		m.duration = d
	}
}

// WithExploration overrides the UCB1 exploration constant.
func WithExploration(c float64) Option {
	return func(m *MCTS) {
		m.exploration = c
	}
}

func WithMetrics(collector MetricsCollector) Option {
	return func(m *MCTS) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

func NewMCTS(options ...Option) (*MCTS, error) {
	m := &MCTS{ // Default values
		exploration: DefaultExploration,
		metrics:     NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(m)
	}

	if m.iterations < 0 {
		return nil, fmt.Errorf("searcher: iteration budget must be positive, got %d", m.iterations)
	}
	if m.duration < 0 {
		return nil, fmt.Errorf("searcher: duration budget must be positive, got %v", m.duration)
	}
	if m.exploration <= 0 {
		return nil, fmt.Errorf("searcher: exploration constant must be positive, got %v", m.exploration)
	}
	if m.iterations == 0 && m.duration == 0 {
		return nil, ErrNoBudget
	}
	return m, nil
}

// Search runs one standalone search from state and returns the strongest
// move, or nil when the position is terminal. Agents that keep a tree
// across moves drive the loop through their own root instead.
func (m *MCTS) Search(state game.State) (game.Move, error) {
	if state == nil {
		return nil, errors.New("searcher: state is required")
	}

	root := newNode(nil, nil, state)
	if root.terminal || len(root.untried) == 0 {
		return nil, nil
	}
	if err := m.search(root); err != nil {
		return nil, err
	}
	return root.bestChild().move, nil
}

// search grows the tree below root until a budget is exhausted, whichever
// comes first. If the budgets expire before any iteration completed on a
// non-terminal root, one iteration is forced so the root holds at least an
// initial estimate.
func (m *MCTS) search(root *node) error {
	start := time.Now()
	m.metrics.Start()

	completed := 0
	for m.withinBudget(completed, start) {
		if err := m.simulate(root); err != nil {
			return err
		}
		m.metrics.AddIteration()
		completed++
	}

	if completed == 0 && !root.terminal && len(root.untried) > 0 {
		if err := m.simulate(root); err != nil {
			return err
		}
		m.metrics.AddIteration()
	}
	return nil
}

func (m *MCTS) withinBudget(completed int, start time.Time) bool {
	if m.iterations > 0 && completed >= m.iterations {
		return false
	}
	if m.duration > 0 && time.Since(start) >= m.duration {
		return false
	}
	return true
}

// simulate runs one iteration: walk the tree policy to a frontier node,
// grow the tree by one node, play out from it and propagate the result
// back to the root.
func (m *MCTS) simulate(root *node) error {
	frontier := descend(root, m.exploration)
	if len(frontier.untried) > 0 {
		frontier = frontier.expand()
	}

	count := WorkerCount()
	sum, err := rollouts(frontier.state, count)
	if err != nil {
		return err
	}
	m.metrics.AddRollouts(count)

	frontier.backup(sum, count)
	return nil
}
