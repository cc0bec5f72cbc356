package uttt

import (
	"errors"
	"fmt"
)

var (
	// Matches every malformed notation or game text error, use with errors.Is
	ErrFormat = errors.New("uttt: malformed notation")
	// Position has no history at all, not even the root entry
	ErrEmptyGame = errors.New("uttt: game has no recorded history")
	// Traverse target outside of the history
	ErrHistoryIndex = errors.New("uttt: history index out of range")
)

// Segment values of FormatError that don't point at a board segment
const (
	SegmentWhole  = -1
	SegmentTurn   = 9
	SegmentActive = 10
)

// FormatError reports a malformed position notation. Segment is the
// index of the failing board segment (0..8), or one of SegmentWhole,
// SegmentTurn, SegmentActive.
type FormatError struct {
	Input   string
	Segment int
	Reason  string
}

func (e *FormatError) Error() string {
	switch {
	case e.Segment == SegmentWhole:
		return fmt.Sprintf("uttt: invalid notation %q: %s", e.Input, e.Reason)
	case e.Segment == SegmentTurn:
		return fmt.Sprintf("uttt: invalid notation %q: turn token: %s", e.Input, e.Reason)
	case e.Segment == SegmentActive:
		return fmt.Sprintf("uttt: invalid notation %q: active board token: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("uttt: invalid notation %q: board segment %d: %s", e.Input, e.Segment, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// InvalidNotationError is returned when a move token doesn't resolve to
// a (sub-board, cell) pair. Ply is 1-based, 0 if unknown.
type InvalidNotationError struct {
	Token string
	Ply   int
}

func (e *InvalidNotationError) Error() string {
	if e.Ply > 0 {
		return fmt.Sprintf("uttt: invalid move notation %q at ply %d", e.Token, e.Ply)
	}
	return fmt.Sprintf("uttt: invalid move notation %q", e.Token)
}

// Why a move can't be played
type Violation int

const (
	ViolationNone Violation = iota
	ViolationOutOfRange
	ViolationGameOver
	ViolationWrongBoard
	ViolationBoardDecided
	ViolationOccupied
)

func (v Violation) String() string {
	switch v {
	case ViolationOutOfRange:
		return "index out of range"
	case ViolationGameOver:
		return "game is already over"
	case ViolationWrongBoard:
		return "move is not on the active board"
	case ViolationBoardDecided:
		return "sub-board is already decided"
	case ViolationOccupied:
		return "cell is occupied"
	}
	return "none"
}

// InvalidMoveError is returned by strict move application. Ply is the
// 1-based index the move would have in the history.
type InvalidMoveError struct {
	Move   Move
	Ply    int
	Reason Violation
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("uttt: illegal move %s (sub-board %d, cell %d) at ply %d: %s",
		e.Move, e.Move.SubBoard, e.Move.Cell, e.Ply, e.Reason)
}
