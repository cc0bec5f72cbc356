package uttt

import "strings"

// A single ply: which sub-board (big index) and which cell inside of it
// (small index), both in 0..8, row-major.
type Move struct {
	SubBoard int
	Cell     int
}

var (
	// Move of the synthetic root history entry, printed as "..."
	NullMove = Move{SubBoard: -1, Cell: -1}
	// Returned by ParseMoveNotation when the token doesn't resolve
	MoveIllegal = Move{SubBoard: 15, Cell: 15}
)

const nullMoveNotation = "..."

// Create a move, based on big and small indexes
func NewMove(bigIndex, smallIndex int) Move {
	return Move{SubBoard: bigIndex, Cell: smallIndex}
}

func (m Move) IsNull() bool {
	return m == NullMove
}

// Both indexes are within 0..8
func (m Move) IsValid() bool {
	return m.SubBoard >= 0 && m.SubBoard < 9 && m.Cell >= 0 && m.Cell < 9
}

// Enum for the squares (same for the smaller ones)
const (
	A3 int = iota
	B3
	C3
	A2
	B2
	C2
	A1
	B1
	C1
)

// Get string representation of the move, will contain
// a/b/c 1/2/3 as coordinates, for example big index = 7,
// small index = 2 -> <big index part><small index part>
// -> B1c3
//
//	     	A    B    C
//			 0 | 1 | 2	3
//			-----------
//			 3 | 4 | 5	2
//			-----------
//		     6 | 7 | 8	1
//
// The analysis engine uses the same table for its pv tokens.
func (m Move) String() string {
	if m.IsNull() {
		return nullMoveNotation
	}
	if !m.IsValid() {
		return "(none)"
	}

	builder := strings.Builder{}
	builder.Grow(4)
	builder.WriteByte('A' + byte(m.SubBoard%3))
	builder.WriteByte('3' - byte(m.SubBoard/3))
	builder.WriteByte('a' + byte(m.Cell%3))
	builder.WriteByte('3' - byte(m.Cell/3))
	return builder.String()
}

// MoveNotation is the token form of the move, see Move.String
func MoveNotation(m Move) string {
	return m.String()
}

// Convert given move notation (should be done with Move.String()) to a Move.
// Returns NullMove for "...", and MoveIllegal if the token doesn't resolve.
func ParseMoveNotation(str string) Move {
	if str == nullMoveNotation {
		return NullMove
	}
	if len(str) != 4 {
		return MoveIllegal
	}

	// Make sure the coordinates are within the range
	_cmp := func(i int, letter byte) bool {
		return (str[i] >= letter && str[i] <= letter+2) &&
			(str[i+1] >= '1' && str[i+1] <= '3')
	}

	if _cmp(0, 'A') && _cmp(2, 'a') {
		return NewMove(
			int(str[0]-'A')+int('3'-str[1])*3,
			int(str[2]-'a')+int('3'-str[3])*3)
	}

	return MoveIllegal
}
