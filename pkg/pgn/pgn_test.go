package pgn

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

var testDate = time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

func threePlies(t *testing.T) uttt.Position {
	t.Helper()
	pos := uttt.NewPosition()
	for _, m := range []uttt.Move{uttt.NewMove(4, 4), uttt.NewMove(4, 0), uttt.NewMove(0, 8)} {
		var err error
		pos, err = pos.MakeLegalMove(m)
		require.NoError(t, err)
	}
	return pos
}

func TestExportDefaults(t *testing.T) {
	game, err := Export(threePlies(t), ExportOptions{Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, Headers{
		{HeaderEvent, "?"},
		{HeaderDate, "2024.03.09"},
		{HeaderRound, "1"},
		{HeaderX, "?"},
		{HeaderO, "?"},
	}, game.Headers)
	assert.Equal(t, []string{"...", "B2b2", "B2a3", "A3c1"}, game.Moves)
	assert.Equal(t, 3, game.Plies())
	assert.Empty(t, game.Result)
}

func TestExportString(t *testing.T) {
	game, err := Export(threePlies(t), ExportOptions{Date: testDate, IncludeResult: true})
	require.NoError(t, err)

	want := `[Event "?"]
[Date "2024.03.09"]
[Round "1"]
[X "?"]
[O "?"]

1. B2b2 B2a3 2. A3c1
*
`
	assert.Equal(t, want, game.String())

	// Move text alone, when there are no headers
	game.Headers = nil
	lines := strings.Split(game.String(), "\n")
	assert.Equal(t, "1. B2b2 B2a3 2. A3c1", lines[0])
	assert.Equal(t, "*", lines[1])
}

func TestExportHeaderOverrides(t *testing.T) {
	game, err := Export(uttt.NewPosition(), ExportOptions{
		Date: testDate,
		Headers: map[string]string{
			HeaderEvent: "Club match",
			"Site":      "Home",
			"Annotator": "me",
			HeaderX:     "alice",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, Headers{
		{HeaderEvent, "Club match"},
		{HeaderDate, "2024.03.09"},
		{HeaderRound, "1"},
		{HeaderX, "alice"},
		{HeaderO, "?"},
		{"Annotator", "me"},
		{"Site", "Home"},
	}, game.Headers)
	assert.Equal(t, []string{"..."}, game.Moves)
}

func TestExportResult(t *testing.T) {
	pos, err := uttt.FromNotation("xxx6/9/9/9/x3x3x/9/9/9/xx7 x 8")
	require.NoError(t, err)
	pos, err = pos.MakeLegalMove(uttt.NewMove(8, 2))
	require.NoError(t, err)

	game, err := Export(pos, ExportOptions{IncludeResult: true})
	require.NoError(t, err)
	assert.Equal(t, uttt.ResultXWins, game.Result)

	// Explicit result wins over the derived one
	game, err = Export(pos, ExportOptions{IncludeResult: true, Result: uttt.ResultDraw})
	require.NoError(t, err)
	assert.Equal(t, uttt.ResultDraw, game.Result)

	game, err = Export(pos, ExportOptions{IncludeResult: true, Headers: map[string]string{HeaderResult: "0-1"}})
	require.NoError(t, err)
	assert.Equal(t, uttt.ResultOWins, game.Result)
	_, ok := game.Headers.Lookup(HeaderResult)
	assert.False(t, ok)

	// Result comes from the head, not the cursor
	back, err := pos.Back()
	require.NoError(t, err)
	game, err = Export(back, ExportOptions{IncludeResult: true})
	require.NoError(t, err)
	assert.Equal(t, uttt.ResultXWins, game.Result)
}

func TestExportSetup(t *testing.T) {
	setup := "9/9/9/9/4x4/9/9/9/9 o 4"
	pos, err := uttt.FromNotation(setup)
	require.NoError(t, err)
	pos = pos.MakeMove(uttt.NewMove(4, 0))

	game, err := Export(pos, ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, "1", game.Headers.Get(HeaderSetup))
	assert.Equal(t, setup, game.Headers.Get(HeaderPosition))

	text := game.String()
	imported, err := ImportText(text)
	require.NoError(t, err)
	assert.Equal(t, pos.Notation(), imported.Notation())
	assert.Equal(t, setup, imported.RootNotation())

	// Standard start doesn't get the setup headers
	game, err = Export(uttt.NewPosition(), ExportOptions{})
	require.NoError(t, err)
	_, ok := game.Headers.Lookup(HeaderSetup)
	assert.False(t, ok)
}

func TestExportEmptyGame(t *testing.T) {
	_, err := Export(uttt.Position{}, ExportOptions{})
	assert.ErrorIs(t, err, uttt.ErrEmptyGame)
}

func TestParse(t *testing.T) {
	text := `[Event "Test"]
[Site "somewhere, with spaces"]

1. B2b2 B2a3
2. A3c1 ... 1/2-1/2
`
	game, err := Parse(text)
	require.NoError(t, err)

	assert.Equal(t, "Test", game.Headers.Get(HeaderEvent))
	assert.Equal(t, "somewhere, with spaces", game.Headers.Get("Site"))
	assert.Equal(t, []string{"...", "B2b2", "B2a3", "A3c1"}, game.Moves)
	assert.Equal(t, uttt.ResultDraw, game.Result)
}

func TestParseForgiving(t *testing.T) {
	game, err := Parse("1. B2b2 garbage 2. zz99")
	require.NoError(t, err)
	assert.Empty(t, game.Headers)
	assert.Equal(t, []string{"...", "B2b2", "garbage", "zz99"}, game.Moves)
	assert.Empty(t, game.Result)

	// Result only in the headers
	game, err = Parse("[Result \"1-0\"]\n\n1. B2b2")
	require.NoError(t, err)
	assert.Equal(t, uttt.ResultXWins, game.Result)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("[Event \"ok\"]\n[Broken header\n\n1. B2b2")
	var headerErr *HeaderError
	require.ErrorAs(t, err, &headerErr)
	assert.Equal(t, 2, headerErr.Line)
	assert.ErrorIs(t, err, uttt.ErrFormat)

	_, err = Parse("   \n\n")
	assert.ErrorIs(t, err, uttt.ErrEmptyGame)
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, err error)
	}{
		{
			name: "bad token",
			text: "1. B2b2 zz99",
			check: func(t *testing.T, err error) {
				var notationErr *uttt.InvalidNotationError
				require.ErrorAs(t, err, &notationErr)
				assert.Equal(t, "zz99", notationErr.Token)
				assert.Equal(t, 2, notationErr.Ply)
			},
		},
		{
			name: "wrong board",
			text: "1. B2b2 A3a3",
			check: func(t *testing.T, err error) {
				var moveErr *uttt.InvalidMoveError
				require.ErrorAs(t, err, &moveErr)
				assert.Equal(t, 2, moveErr.Ply)
				assert.Equal(t, uttt.ViolationWrongBoard, moveErr.Reason)
			},
		},
		{
			name: "occupied",
			text: "1. B2b2 B2a3 2. A3b2 B2b2",
			check: func(t *testing.T, err error) {
				var moveErr *uttt.InvalidMoveError
				require.ErrorAs(t, err, &moveErr)
				assert.Equal(t, 4, moveErr.Ply)
				assert.Equal(t, uttt.ViolationOccupied, moveErr.Reason)
			},
		},
		{
			name: "bad setup",
			text: "[Setup \"1\"]\n[Position \"x9/9/9/9/9/9/9/9/9 x -\"]\n\n1. B2b2",
			check: func(t *testing.T, err error) {
				var formatErr *uttt.FormatError
				require.ErrorAs(t, err, &formatErr)
				assert.Equal(t, 0, formatErr.Segment)
				assert.ErrorIs(t, err, uttt.ErrFormat)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportText(tt.text)
			require.Error(t, err)
			tt.check(t, err)
		})
	}

	_, err := Import(ExportedGame{})
	assert.ErrorIs(t, err, uttt.ErrEmptyGame)
}

func TestRoundTrip(t *testing.T) {
	random := rand.New(rand.NewSource(1))

	for game := 0; game < 100; game++ {
		pos := uttt.NewPosition()
		plies := 1 + random.Intn(81)
		for i := 0; i < plies && !pos.IsTerminated(); i++ {
			moves := pos.LegalMoves()
			pos = pos.MakeMove(moves[random.Intn(len(moves))])
		}

		text, err := ExportText(pos, ExportOptions{IncludeResult: true})
		require.NoError(t, err)

		parsed, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, pos.Result(), parsed.Result)

		imported, err := Import(parsed)
		require.NoError(t, err)
		require.Equal(t, pos, imported, "round trip of:\n%s", text)
	}
}
