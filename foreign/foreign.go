// Package foreign bridges game implementations that live outside the Go
// type system, such as games hosted by a scripting runtime or reached over
// an in-process FFI boundary. Every state crossing into the engine is
// captured as a self-contained byte snapshot before any tree node stores
// it, so the tree and the rollout workers never hold references into
// foreign memory and may outlive, or run concurrently with, the foreign
// runtime's own execution context.
package foreign

import (
	"bytes"
	"fmt"

	"github.com/Lobotuerk/MonteCarloTreeSearch/game"
)

// MoveData is the wire form of a foreign move: an opaque payload the
// runtime can apply, plus a stable label for logging and move matching.
type MoveData struct {
	Payload []byte
	Label   string
}

// Runtime is the capability set a foreign game implementation must expose
// over snapshots. All methods must be safe to call from multiple
// goroutines; implementations that are not should serialize internally.
type Runtime interface {
	// Snapshot serializes a foreign state value into a snapshot owning no
	// references back into the foreign runtime.
	Snapshot(state any) ([]byte, error)
	// LegalMoves enumerates the moves playable from the snapshot.
	LegalMoves(snapshot []byte) ([]MoveData, error)
	// Apply plays a move and returns the snapshot of the new position.
	Apply(snapshot []byte, move MoveData) ([]byte, error)
	// Rollout plays one randomized game from the snapshot to completion
	// and returns the outcome in [0, 1].
	Rollout(snapshot []byte) (float64, error)
	// IsTerminal reports whether the game is over at the snapshot.
	IsTerminal(snapshot []byte) (bool, error)
	// FirstSideTurn reports whether the first side is to move.
	FirstSideTurn(snapshot []byte) (bool, error)
}

// SnapshotError reports that a foreign state or move could not be captured
// as a snapshot. It indicates a collaborator contract violation at the
// boundary, distinct from any tree-search failure.
type SnapshotError struct {
	Err error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("foreign: cannot snapshot state: %v", e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }

// Move adapts a foreign move to game.Move. Equality compares payloads
// byte for byte.
type Move struct {
	data MoveData
}

// NewMove wraps an already-encoded foreign move, e.g. an opponent move
// received from the foreign side.
func NewMove(payload []byte, label string) Move {
	return Move{data: MoveData{Payload: payload, Label: label}}
}

func (m Move) Equal(other game.Move) bool {
	o, ok := other.(Move)
	if !ok {
		return false
	}
	return bytes.Equal(m.data.Payload, o.data.Payload)
}

func (m Move) String() string {
	if m.data.Label == "" {
		return fmt.Sprintf("foreign-move(%d bytes)", len(m.data.Payload))
	}
	return m.data.Label
}

// Data returns the wire form of the move for handing back to the runtime.
func (m Move) Data() MoveData { return m.data }

// State adapts a snapshot to game.State. Terminality and side to move are
// queried once at construction; the snapshot itself is immutable and
// independently owned from the moment it is captured.
type State struct {
	rt        Runtime
	snapshot  []byte
	terminal  bool
	firstSide bool
}

// NewState captures a foreign state value behind the boundary and wraps it
// for the engine. Serialization failures are reported as *SnapshotError.
func NewState(rt Runtime, state any) (*State, error) {
	snapshot, err := rt.Snapshot(state)
	if err != nil {
		return nil, &SnapshotError{Err: err}
	}
	return wrap(rt, snapshot)
}

func wrap(rt Runtime, snapshot []byte) (*State, error) {
	terminal, err := rt.IsTerminal(snapshot)
	if err != nil {
		return nil, &SnapshotError{Err: err}
	}
	firstSide, err := rt.FirstSideTurn(snapshot)
	if err != nil {
		return nil, &SnapshotError{Err: err}
	}
	return &State{
		rt:        rt,
		snapshot:  snapshot,
		terminal:  terminal,
		firstSide: firstSide,
	}, nil
}

// Runtime failures below surface as *game.ContractError panics; the agent
// converts them into errors at its boundary. By the game.State contract
// these methods cannot return errors themselves.

func (s *State) LegalMoves() []game.Move {
	if s.terminal {
		return nil
	}
	data, err := s.rt.LegalMoves(s.snapshot)
	if err != nil {
		panic(&game.ContractError{Op: "LegalMoves", Err: err})
	}
	moves := make([]game.Move, len(data))
	for i, d := range data {
		moves[i] = Move{data: d}
	}
	return moves
}

func (s *State) Play(move game.Move) game.State {
	m, ok := move.(Move)
	if !ok {
		panic(&game.ContractError{
			Op:  "Play",
			Err: fmt.Errorf("move %s was not produced by this runtime", move),
		})
	}
	snapshot, err := s.rt.Apply(s.snapshot, m.data)
	if err != nil {
		panic(&game.ContractError{Op: "Play", Err: err})
	}
	next, err := wrap(s.rt, snapshot)
	if err != nil {
		panic(&game.ContractError{Op: "Play", Err: err})
	}
	return next
}

func (s *State) Rollout() float64 {
	outcome, err := s.rt.Rollout(s.snapshot)
	if err != nil {
		panic(&game.ContractError{Op: "Rollout", Err: err})
	}
	return outcome
}

func (s *State) IsTerminal() bool { return s.terminal }

func (s *State) FirstSideTurn() bool { return s.firstSide }

// Clone copies the snapshot so the clone shares no memory with tree-owned
// state.
func (s *State) Clone() game.State {
	snapshot := make([]byte, len(s.snapshot))
	copy(snapshot, s.snapshot)
	return &State{
		rt:        s.rt,
		snapshot:  snapshot,
		terminal:  s.terminal,
		firstSide: s.firstSide,
	}
}

// Snapshot exposes the captured bytes, e.g. for handing the current
// position back to the foreign side.
func (s *State) Snapshot() []byte {
	snapshot := make([]byte, len(s.snapshot))
	copy(snapshot, s.snapshot)
	return snapshot
}
