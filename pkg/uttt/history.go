package uttt

import "fmt"

// Notation of the position the game started from
func (p Position) RootNotation() string {
	if len(p.History) == 0 || p.History[0].Position == "" {
		return StartingPosition
	}
	return p.History[0].Position
}

// Position of the root entry, with a history holding only that entry
func (p Position) Root() (Position, error) {
	if len(p.History) == 0 {
		return Position{}, ErrEmptyGame
	}
	return FromNotation(p.RootNotation())
}

// Moves recorded in the history, without the root's null move
func (p Position) Moves() []Move {
	if len(p.History) < 2 {
		return nil
	}
	moves := make([]Move, 0, len(p.History)-1)
	for _, entry := range p.History[1:] {
		moves = append(moves, entry.Move)
	}
	return moves
}

func (p Position) AtRoot() bool {
	return p.HistoryIndex == 0
}

func (p Position) AtHead() bool {
	return p.HistoryIndex == len(p.History)-1
}

// Traverse rebuilds the position at given history index by replaying the
// recorded moves from the root. The history itself is kept as is, only the
// cursor moves, so the moves after the index are still available until a
// new move is made. Replay is strict: a corrupted history returns an
// *InvalidMoveError.
func (p Position) Traverse(index int) (Position, error) {
	if index < 0 || index >= len(p.History) {
		return p, fmt.Errorf("%w: %d not in [0, %d]", ErrHistoryIndex, index, len(p.History)-1)
	}

	pos, err := p.Root()
	if err != nil {
		return p, err
	}

	for i := 1; i <= index; i++ {
		move := p.History[i].Move
		if v := pos.violation(move); v != ViolationNone {
			return p, &InvalidMoveError{Move: move, Ply: i, Reason: v}
		}
		pos = pos.place(move)
	}

	pos.History = p.History
	pos.HistoryIndex = index
	return pos, nil
}

// Step the cursor one ply back, no-op at the root
func (p Position) Back() (Position, error) {
	if p.AtRoot() {
		return p, nil
	}
	return p.Traverse(p.HistoryIndex - 1)
}

// Step the cursor one ply forward, no-op at the head
func (p Position) Forward() (Position, error) {
	if p.AtHead() {
		return p, nil
	}
	return p.Traverse(p.HistoryIndex + 1)
}
