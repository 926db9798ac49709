// Package game defines the contract a two-player, perfect-information,
// turn-based game must satisfy to be searchable by the engine. The engine
// is generic over this capability set and never constructs moves or
// states itself.
package game

import "fmt"

// Move is one legal transition, opaque to the engine. Moves are produced
// only by a State and consumed only by that same State's Play; the engine
// uses them for equality matching and logging.
type Move interface {
	// Equal reports whether other denotes the same transition. Used to
	// match an externally supplied move against tree children.
	Equal(Move) bool
	// String is a stable human-readable rendering.
	String() string
}

// State is one complete game position, including whose turn it is.
//
// State must be immutable - Play always returns a new value and never
// mutates its receiver. Multiple tree branches and concurrent rollout
// workers hold the same State at once, so referential independence is
// mandatory, not a style preference.
type State interface {
	// LegalMoves enumerates the playable moves. Must return an empty
	// sequence on a terminal state; the engine itself never asks.
	LegalMoves() []Move
	// Play applies a move and returns the resulting position.
	Play(Move) State
	// Rollout plays one randomized game from this position to completion
	// and returns the outcome in [0, 1] from the fixed perspective of the
	// first side: 1 means the first side won, 0 the second side, interior
	// values are draws or heuristic valuations. On a terminal state it
	// returns the final result directly.
	Rollout() float64
	// IsTerminal reports whether the game is over.
	IsTerminal() bool
	// FirstSideTurn reports whether the first side is to move.
	FirstSideTurn() bool
	// Clone deep-copies the state. Clones must share no mutable memory
	// with the receiver; rollout workers run on clones.
	Clone() State
}

// HeuristicState is an optional extension of State for games that can
// play out a position under a guided policy instead of uniform noise.
// The engine uses it only when a heuristic rollout strategy is
// configured; states without it fall back to Rollout.
type HeuristicState interface {
	State
	// HeuristicRollout plays one guided playout from this position to
	// completion, under the same [0, 1] outcome contract as Rollout.
	HeuristicRollout() float64
}

// ContractError reports that a game implementation violated this
// package's contract - a rollout outcome outside [0, 1], a nil state out
// of Play or Clone, a panic inside a game operation. It marks a
// collaborator bug, distinct from engine errors and from caller misuse.
type ContractError struct {
	Op  string // the State operation that misbehaved
	Err error  // underlying cause, if any
}

func (e *ContractError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("game: %s violated the state contract", e.Op)
	}
	return fmt.Sprintf("game: %s violated the state contract: %v", e.Op, e.Err)
}

func (e *ContractError) Unwrap() error { return e.Err }
