package uttt

// Type defines for the position
type Player uint8

const (
	Empty Player = iota
	X
	O
)

// Index of the active board, when the player on turn can choose any
// unresolved sub-board
const AnyBoard = -1

// Starting position of every game, '9' means 9 empty cells in a row
const StartingPosition string = "9/9/9/9/9/9/9/9/9 x -"

// Get the other side, Empty stays Empty
func (p Player) Opponent() Player {
	switch p {
	case X:
		return O
	case O:
		return X
	}
	return Empty
}

func (p Player) String() string {
	switch p {
	case X:
		return "x"
	case O:
		return "o"
	}
	return ""
}

// Create player from a notation character
func PlayerFromRune(r rune) Player {
	switch r {
	case 'x':
		return X
	case 'o':
		return O
	default:
		return Empty
	}
}

// One of the 9 small tic tac toe boards. Winner and Draw are derived
// from the cells, use UpdateSubBoard to build a consistent value.
type SubBoard struct {
	Cells  [9]Player
	Winner Player
	Draw   bool
}

// Either won by someone or drawn, no more moves can be played here
func (sb SubBoard) Decided() bool {
	return sb.Winner != Empty || sb.Draw
}

// HistoryEntry records one ply and the context needed to undo it.
// The first entry of every history is a synthetic root with a null move,
// carrying the starting notation of the game.
type HistoryEntry struct {
	Move              Move
	ActiveBoardBefore int
	PlayerToMove      Player
	Position          string
}

// Position is the full game state. It's a value type: every transition
// returns a new Position and leaves the receiver untouched.
type Position struct {
	SubBoards    [9]SubBoard
	Turn         Player
	Winner       Player
	Draw         bool
	ActiveBoard  int
	LastMove     Move
	History      []HistoryEntry
	HistoryIndex int
}
