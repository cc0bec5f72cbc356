package pgn

import (
	"fmt"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

// Import replays the game from its starting position (the Setup/Position
// headers, or the standard one) and returns the position at the last move.
// The first token that doesn't resolve is an *uttt.InvalidNotationError,
// the first illegal move an *uttt.InvalidMoveError, both with the ply.
func Import(game ExportedGame) (uttt.Position, error) {
	if len(game.Moves) == 0 {
		return uttt.Position{}, uttt.ErrEmptyGame
	}

	pos := uttt.NewPosition()
	if game.Headers.Get(HeaderSetup) == "1" {
		var err error
		pos, err = uttt.FromNotation(game.Headers.Get(HeaderPosition))
		if err != nil {
			return uttt.Position{}, fmt.Errorf("pgn: setup position: %w", err)
		}
	}

	for ply := 1; ply < len(game.Moves); ply++ {
		token := game.Moves[ply]
		move := uttt.ParseMoveNotation(token)
		if move == uttt.MoveIllegal {
			return uttt.Position{}, &uttt.InvalidNotationError{Token: token, Ply: ply}
		}
		if move.IsNull() {
			continue
		}

		next, err := pos.MakeLegalMove(move)
		if err != nil {
			return uttt.Position{}, err
		}
		pos = next
	}

	return pos, nil
}

// Parse and import the text of an exported game
func ImportText(text string) (uttt.Position, error) {
	game, err := Parse(text)
	if err != nil {
		return uttt.Position{}, err
	}
	return Import(game)
}
