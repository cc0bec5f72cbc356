package uttt

// Create an empty position, cross starts and can play on any board
func NewPosition() Position {
	pos := Position{
		Turn:        X,
		ActiveBoard: AnyBoard,
		LastMove:    NullMove,
	}
	pos.History = []HistoryEntry{pos.rootEntry()}
	return pos
}

func (p Position) rootEntry() HistoryEntry {
	return HistoryEntry{
		Move:              NullMove,
		ActiveBoardBefore: p.ActiveBoard,
		PlayerToMove:      p.Turn,
		Position:          p.Notation(),
	}
}

// Find out why given move can't be played, ViolationNone if it's legal
func (p Position) violation(move Move) Violation {
	switch {
	case !move.IsValid():
		return ViolationOutOfRange
	case p.IsTerminated():
		return ViolationGameOver
	case p.ActiveBoard != AnyBoard && p.ActiveBoard != move.SubBoard:
		return ViolationWrongBoard
	case p.SubBoards[move.SubBoard].Decided():
		return ViolationBoardDecided
	case p.SubBoards[move.SubBoard].Cells[move.Cell] != Empty:
		return ViolationOccupied
	}
	return ViolationNone
}

// Check if given move is legal
func (p Position) IsLegal(move Move) bool {
	return p.violation(move) == ViolationNone
}

// Put the current piece on [bigIndex][smallIndex], update the board states,
// route the opponent and switch sides. Doesn't check legality and doesn't
// touch the history.
func (p Position) place(move Move) Position {
	cells := p.SubBoards[move.SubBoard].Cells
	cells[move.Cell] = p.Turn
	p.SubBoards[move.SubBoard] = UpdateSubBoard(cells)

	// If opponent's move would be on terminated tic tac toe board,
	// allow it to play on every board
	p.ActiveBoard = move.Cell
	if p.SubBoards[move.Cell].Decided() {
		p.ActiveBoard = AnyBoard
	}

	p.Winner, p.Draw = checkOverall(p.SubBoards)
	p.Turn = p.Turn.Opponent()
	p.LastMove = move
	return p
}

// Verifies legality of given move, then if it's valid, returns the position
// after it. If the history cursor isn't at the head, the moves after the
// cursor are discarded before the new one is recorded.
func (p Position) MakeLegalMove(move Move) (Position, error) {
	if len(p.History) == 0 {
		return p, ErrEmptyGame
	}
	if v := p.violation(move); v != ViolationNone {
		return p, &InvalidMoveError{Move: move, Ply: p.HistoryIndex + 1, Reason: v}
	}

	next := p.place(move)

	// Full slice expression, so append never writes into a shared array
	head := p.History[: p.HistoryIndex+1 : p.HistoryIndex+1]
	next.History = append(head, HistoryEntry{
		Move:              move,
		ActiveBoardBefore: p.ActiveBoard,
		PlayerToMove:      p.Turn,
	})
	next.HistoryIndex = len(next.History) - 1
	return next, nil
}

// Same as MakeLegalMove, but an illegal move returns the position unchanged
func (p Position) MakeMove(move Move) Position {
	next, err := p.MakeLegalMove(move)
	if err != nil {
		return p
	}
	return next
}

// Undo the move at the history cursor: clear its cell, restore the active
// board and the side to move, and drop it (with anything after it) from the
// history. No-op at the root.
func (p Position) UndoMove() Position {
	if p.HistoryIndex <= 0 || p.HistoryIndex >= len(p.History) {
		return p
	}

	last := p.History[p.HistoryIndex]
	cells := p.SubBoards[last.Move.SubBoard].Cells
	cells[last.Move.Cell] = Empty
	p.SubBoards[last.Move.SubBoard] = UpdateSubBoard(cells)

	p.ActiveBoard = last.ActiveBoardBefore
	p.Turn = last.PlayerToMove

	// The undone move was the only one that could have ended the game
	p.Winner = Empty
	p.Draw = false

	p.History = p.History[:p.HistoryIndex:p.HistoryIndex]
	p.HistoryIndex--
	p.LastMove = p.History[p.HistoryIndex].Move
	return p
}

// Returns all of the legal moves in the position, in board then cell order
func (p Position) LegalMoves() []Move {
	if p.IsTerminated() {
		return nil
	}

	moves := make([]Move, 0, 9)
	generate := func(bigIndex int) {
		sb := &p.SubBoards[bigIndex]
		if sb.Decided() {
			return
		}
		for smallIndex, cell := range sb.Cells {
			if cell == Empty {
				moves = append(moves, NewMove(bigIndex, smallIndex))
			}
		}
	}

	// No constraint, we can choose also the 'Big Index' position
	if p.ActiveBoard == AnyBoard {
		for bigIndex := 0; bigIndex < 9; bigIndex++ {
			generate(bigIndex)
		}
	} else {
		generate(p.ActiveBoard)
	}

	return moves
}
