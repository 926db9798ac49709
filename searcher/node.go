package searcher

import (
	"github.com/Lobotuerk/MonteCarloTreeSearch/game"
)

// node is one vertex of the search tree. Every node exclusively owns its
// children; the tree is a strict arborescence with a single parentless root.
// Statistics are mutated only on the controlling goroutine during
// backpropagation, so the struct carries no lock.
type node struct {
	parent *node
	move   game.Move // move that led here from the parent; nil only at the root
	state  game.State

	firstSide bool // side to move at this node
	terminal  bool

	untried  []game.Move // candidate moves not yet expanded, in LegalMoves order
	children []*node

	// rewards accumulates outcomes from the perspective of the side that
	// moved into this node. visits counts completed backpropagation passes,
	// one per rollout.
	rewards float64
	visits  int
}

func newNode(parent *node, move game.Move, state game.State) *node {
	n := &node{
		parent:    parent,
		move:      move,
		state:     state,
		firstSide: state.FirstSideTurn(),
		terminal:  state.IsTerminal(),
	}
	if !n.terminal {
		n.untried = state.LegalMoves()
	}
	return n
}

// descend walks the tree policy from root: at each fully expanded node it
// follows the child maximizing UCB1, and stops at the first node that still
// has untried moves or is terminal.
func descend(root *node, exploration float64) *node {
	n := root
	for len(n.untried) == 0 && len(n.children) > 0 {
		n = n.selectChild(exploration)
	}
	return n
}

// selectChild returns the child with the highest UCB1 score. Ties go to the
// first-encountered child.
func (n *node) selectChild(exploration float64) *node {
	if n.visits == 0 {
		panic("node has children but no visits")
	}
	normalizer := exploration * exploration * logVisits(n.visits)

	best := n.children[0]
	bestScore := ucb1(best.rewards, best.visits, normalizer)
	for _, child := range n.children[1:] {
		if score := ucb1(child.rewards, child.visits, normalizer); score > bestScore {
			best = child
			bestScore = score
		}
	}
	return best
}

// expand materializes the next untried move as a new child node. Untried
// moves are consumed in the order LegalMoves produced them, which keeps
// expansion order deterministic for a given game implementation.
func (n *node) expand() *node {
	move := n.untried[0]
	n.untried = n.untried[1:]

	state := n.state.Play(move)
	if state == nil {
		panic(&game.ContractError{Op: "Play"})
	}
	child := newNode(n, move, state)
	n.children = append(n.children, child)
	return child
}

// backup propagates the summed outcome of count rollouts from n to the root
// inclusive. The outcome sum is from the fixed perspective of the first
// side; each ancestor credits it from the perspective of the side that
// moved into that ancestor, which alternates every level.
func (n *node) backup(sum float64, count int) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.visits += count
		if cur.firstSide {
			// The second side moved into this node.
			cur.rewards += float64(count) - sum
		} else {
			cur.rewards += sum
		}
	}
}

// bestChild returns the most robust child: highest visit count, then
// highest mean reward, then first-encountered. Returns nil when the node
// has no children.
func (n *node) bestChild() *node {
	var best *node
	for _, child := range n.children {
		if best == nil {
			best = child
			continue
		}
		switch {
		case child.visits > best.visits:
			best = child
		case child.visits == best.visits && child.mean() > best.mean():
			best = child
		}
	}
	return best
}

// childByMove finds the child reached by a move equal to m, or nil.
func (n *node) childByMove(m game.Move) *node {
	for _, child := range n.children {
		if child.move.Equal(m) {
			return child
		}
	}
	return nil
}

// detach promotes n to be a root: it drops the links to its parent so the
// abandoned siblings become unreachable and collectable.
func (n *node) detach() {
	n.parent = nil
	n.move = nil
}

// mean is the average observed value of this node from the perspective of
// the side that moved into it.
func (n *node) mean() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.rewards / float64(n.visits)
}

// size counts the nodes in the subtree rooted at n.
func (n *node) size() int {
	total := 1
	for _, child := range n.children {
		total += child.size()
	}
	return total
}
