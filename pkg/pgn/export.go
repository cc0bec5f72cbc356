// Package pgn exports and imports whole games in a PGN-like text format:
// a block of [Name "Value"] headers, numbered move text and a result.
package pgn

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

const DateLayout = "2006.01.02"

type ExportOptions struct {
	// Merged over the defaults by name, these values win
	Headers map[string]string
	// Derive the result from the final position
	IncludeResult bool
	// Explicit result, used instead of the derived one
	Result uttt.Result
	// Date for the Date header, today if zero
	Date time.Time
}

// Exported game, ready to be rendered with String
type ExportedGame struct {
	Headers Headers
	// Moves[0] is the "..." placeholder, so Moves[i] is the i-th ply
	Moves  []string
	Result uttt.Result
}

// Number of plies in the game
func (g ExportedGame) Plies() int {
	if len(g.Moves) == 0 {
		return 0
	}
	return len(g.Moves) - 1
}

// Export builds the exported form of the game recorded in the position's
// history. The whole history is exported, regardless of the cursor.
func Export(pos uttt.Position, opts ExportOptions) (ExportedGame, error) {
	if len(pos.History) == 0 {
		return ExportedGame{}, uttt.ErrEmptyGame
	}

	game := ExportedGame{
		Headers: defaultHeaders(opts.Date),
		Moves:   make([]string, 0, len(pos.History)),
	}

	root := pos.RootNotation()
	if root != uttt.StartingPosition {
		game.Headers.Set(HeaderSetup, "1")
		game.Headers.Set(HeaderPosition, root)
	}

	// Overrides, existing names keep their place, new ones are sorted
	names := make([]string, 0, len(opts.Headers))
	for name := range opts.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == HeaderResult {
			continue
		}
		game.Headers.Set(name, opts.Headers[name])
	}

	game.Moves = append(game.Moves, uttt.NullMove.String())
	for _, entry := range pos.History[1:] {
		game.Moves = append(game.Moves, uttt.MoveNotation(entry.Move))
	}

	switch {
	case opts.Result != "":
		game.Result = opts.Result
	case opts.Headers[HeaderResult] != "":
		game.Result = uttt.Result(opts.Headers[HeaderResult])
	case opts.IncludeResult:
		head := pos
		if !pos.AtHead() {
			var err error
			if head, err = pos.Traverse(len(pos.History) - 1); err != nil {
				return ExportedGame{}, err
			}
		}
		game.Result = head.Result()
	}

	return game, nil
}

func defaultHeaders(date time.Time) Headers {
	if date.IsZero() {
		date = time.Now()
	}
	return Headers{
		{Name: HeaderEvent, Value: "?"},
		{Name: HeaderDate, Value: date.Format(DateLayout)},
		{Name: HeaderRound, Value: "1"},
		{Name: HeaderX, Value: "?"},
		{Name: HeaderO, Value: "?"},
	}
}

// Numbered move text, "1. a b 2. c"
func (g ExportedGame) MoveText() string {
	var b strings.Builder
	for i := 1; i < len(g.Moves); i++ {
		if i%2 == 1 {
			b.WriteString(strconv.Itoa((i + 1) / 2))
			b.WriteString(". ")
		}
		b.WriteString(g.Moves[i])
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}

// String renders the game: headers, a blank line, the move text and the
// result on its own line if there is one.
func (g ExportedGame) String() string {
	var b strings.Builder
	b.WriteString(g.Headers.String())
	if len(g.Headers) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(g.MoveText())
	b.WriteString("\n")
	if g.Result != "" {
		b.WriteString(g.Result.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Export the game straight to text
func ExportText(pos uttt.Position, opts ExportOptions) (string, error) {
	game, err := Export(pos, opts)
	if err != nil {
		return "", err
	}
	return game.String(), nil
}
