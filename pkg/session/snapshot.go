// Package session keeps positions between screens: a position is stored
// under an opaque id and restored later with its whole history.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

// Snapshot is the stored form of a position: the root notation, every
// recorded move and the history cursor.
type Snapshot struct {
	Root   string   `json:"root"`
	Moves  []string `json:"moves"`
	Cursor int      `json:"cursor"`
}

func NewSnapshot(pos uttt.Position) (Snapshot, error) {
	if len(pos.History) == 0 {
		return Snapshot{}, uttt.ErrEmptyGame
	}

	moves := pos.Moves()
	snap := Snapshot{
		Root:   pos.RootNotation(),
		Moves:  make([]string, len(moves)),
		Cursor: pos.HistoryIndex,
	}
	for i, m := range moves {
		snap.Moves[i] = uttt.MoveNotation(m)
	}
	return snap, nil
}

// Restore replays the moves strictly from the root, then moves the cursor
// back to where it was.
func (s Snapshot) Restore() (uttt.Position, error) {
	pos, err := uttt.FromNotation(s.Root)
	if err != nil {
		return uttt.Position{}, fmt.Errorf("session: root: %w", err)
	}

	for i, token := range s.Moves {
		move := uttt.ParseMoveNotation(token)
		if move == uttt.MoveIllegal || move.IsNull() {
			return uttt.Position{}, &uttt.InvalidNotationError{Token: token, Ply: i + 1}
		}
		if pos, err = pos.MakeLegalMove(move); err != nil {
			return uttt.Position{}, fmt.Errorf("session: %w", err)
		}
	}

	if pos, err = pos.Traverse(s.Cursor); err != nil {
		return uttt.Position{}, fmt.Errorf("session: cursor: %w", err)
	}
	return pos, nil
}

func encode(pos uttt.Position) ([]byte, error) {
	snap, err := NewSnapshot(pos)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snap)
}

func decode(data []byte) (uttt.Position, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return uttt.Position{}, fmt.Errorf("session: corrupted snapshot: %w", err)
	}
	return snap.Restore()
}
