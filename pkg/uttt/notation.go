package uttt

import (
	"fmt"
	"strconv"
	"strings"
)

// string notation for the big tic tac toe position
// Much like the FEN representation of a chessboard
// Will result in something like this:
//
//	X/X/X/X/X/X/X/X/X <turn> <big index>
//
// where `X` is one small square string, saves board
// position's data, same as FEN, but instead of chess pieces
// we have got 'o' and 'x'
//
// For example, let X be:
//
//	o | x | x
//
// ----------
//
//	x | o |
//
// ----------
//
//	o |   |
//
// then X format string would be:
//
//	oxxxo1o2
//
// <turn> - either 'o' or 'x'
//
// <big index> - where should current player make move on the
// big plane, it is an integer between 0 and 8, or - if player can move anywhere
//
// Examples:
//
// * 9/9/9/9/9/9/9/9/9 x -
//
// * 9/9/9/7x1/4xo3/8x/9/4o4/o8 x 0
func (p Position) Notation() string {
	builder := strings.Builder{}

	for boardIndex := range p.SubBoards {
		// In each board, we will generate the small square string
		counter := 0
		for _, cell := range p.SubBoards[boardIndex].Cells {
			if cell == Empty {
				counter++
				continue
			}

			// Write the counter, and current piece
			if counter > 0 {
				builder.WriteString(strconv.Itoa(counter))
				counter = 0
			}
			builder.WriteString(cell.String())
		}

		if counter > 0 {
			builder.WriteString(strconv.Itoa(counter))
		}

		if boardIndex != 8 {
			builder.WriteByte('/')
		}
	}

	// Add the turn
	builder.WriteByte(' ')
	if p.Turn == O {
		builder.WriteByte('o')
	} else {
		builder.WriteByte('x')
	}

	// Add the active board
	builder.WriteByte(' ')
	if p.ActiveBoard == AnyBoard {
		builder.WriteByte('-')
	} else {
		builder.WriteByte('0' + byte(p.ActiveBoard))
	}

	return builder.String()
}

// ToNotation encodes the position, see Position.Notation
func ToNotation(p Position) string {
	return p.Notation()
}

// Create the position from given notation string. Winners and draws are
// always recomputed from the cells. If the active board points at an
// already decided sub-board, it's reset to AnyBoard. The result has a
// single root history entry holding the (normalised) notation.
//
// "startpos" is accepted as an alias of StartingPosition.
func FromNotation(notation string) (Position, error) {
	if notation == "startpos" {
		notation = StartingPosition
	}

	fields := strings.Split(notation, " ")
	if len(fields) != 3 {
		return Position{}, &FormatError{
			Input:   notation,
			Segment: SegmentWhole,
			Reason:  fmt.Sprintf("expected 3 space separated fields, got %d", len(fields)),
		}
	}

	segments := strings.Split(fields[0], "/")
	if len(segments) != 9 {
		return Position{}, &FormatError{
			Input:   notation,
			Segment: SegmentWhole,
			Reason:  fmt.Sprintf("expected 9 board segments, got %d", len(segments)),
		}
	}

	pos := Position{LastMove: NullMove}
	for i, segment := range segments {
		cells, err := parseSegment(segment)
		if err != nil {
			return Position{}, &FormatError{Input: notation, Segment: i, Reason: err.Error()}
		}
		pos.SubBoards[i] = UpdateSubBoard(cells)
	}

	// Read the side
	switch fields[1] {
	case "x":
		pos.Turn = X
	case "o":
		pos.Turn = O
	default:
		return Position{}, &FormatError{
			Input:   notation,
			Segment: SegmentTurn,
			Reason:  fmt.Sprintf("expected 'x' or 'o', got %q", fields[1]),
		}
	}

	// Read the active board
	if v := fields[2]; v == "-" {
		pos.ActiveBoard = AnyBoard
	} else if len(v) == 1 && v[0] >= '0' && v[0] <= '8' {
		pos.ActiveBoard = int(v[0] - '0')
	} else {
		return Position{}, &FormatError{
			Input:   notation,
			Segment: SegmentActive,
			Reason:  fmt.Sprintf("expected a digit 0-8 or '-', got %q", v),
		}
	}

	// Don't allow playing on a terminated ttt board
	if pos.ActiveBoard != AnyBoard && pos.SubBoards[pos.ActiveBoard].Decided() {
		pos.ActiveBoard = AnyBoard
	}

	pos.Winner, pos.Draw = checkOverall(pos.SubBoards)
	pos.History = []HistoryEntry{pos.rootEntry()}
	return pos, nil
}

// Decode one board segment: digits are run-lengths of empty cells,
// 'x' and 'o' are occupied cells, the total must be exactly 9
func parseSegment(segment string) ([9]Player, error) {
	var cells [9]Player
	count := 0
	run := 0
	inRun := false

	flush := func() error {
		if !inRun {
			return nil
		}
		count += run
		run, inRun = 0, false
		if count > 9 {
			return fmt.Errorf("describes more than 9 cells")
		}
		return nil
	}

	for i := 0; i < len(segment); i++ {
		switch v := segment[i]; {
		case v >= '0' && v <= '9':
			run = run*10 + int(v-'0')
			inRun = true
			if run > 9 {
				return cells, fmt.Errorf("run-length %d exceeds 9 cells", run)
			}
		case v == 'x' || v == 'o':
			if err := flush(); err != nil {
				return cells, err
			}
			if count >= 9 {
				return cells, fmt.Errorf("describes more than 9 cells")
			}
			cells[count] = PlayerFromRune(rune(v))
			count++
		default:
			return cells, fmt.Errorf("unexpected character %q at offset %d", v, i)
		}
	}

	if err := flush(); err != nil {
		return cells, err
	}
	if count != 9 {
		return cells, fmt.Errorf("describes %d cells, expected 9", count)
	}
	return cells, nil
}
