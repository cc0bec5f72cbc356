package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

// Display renders positions on a terminal, colours depend on the profile
// of the output (none for pipes and tests).
type Display struct {
	out *termenv.Output
}

func NewDisplay(w io.Writer, opts ...termenv.OutputOption) *Display {
	return &Display{out: termenv.NewOutput(w, opts...)}
}

func (d *Display) Writer() io.Writer {
	return d.out
}

func (d *Display) style(s string) termenv.Style {
	return d.out.String(s)
}

func (d *Display) playerStyle(p uttt.Player, s string) termenv.Style {
	switch p {
	case uttt.X:
		return d.style(s).Foreground(d.out.Color("4"))
	case uttt.O:
		return d.style(s).Foreground(d.out.Color("1"))
	}
	return d.style(s)
}

// Colored name of the player
func (d *Display) Player(p uttt.Player) string {
	return d.playerStyle(p, strings.ToUpper(p.String())).Bold().String()
}

func (d *Display) Error(err error) string {
	return d.style("Error: " + err.Error()).Foreground(d.out.Color("1")).String()
}

func (d *Display) Info(s string) string {
	return d.style(s).Foreground(d.out.Color("6")).String()
}

func (d *Display) Prompt(pos uttt.Position) string {
	var b strings.Builder
	b.WriteString("uttt [")
	b.WriteString(d.Player(pos.Turn))
	switch {
	case pos.IsTerminated():
		b.WriteString(" " + pos.Result().String())
	case pos.ActiveBoard == uttt.AnyBoard:
		b.WriteString(" any")
	default:
		b.WriteString(" " + boardName(pos.ActiveBoard))
	}
	fmt.Fprintf(&b, " %d/%d", pos.HistoryIndex, len(pos.History)-1)
	b.WriteString("] > ")
	return d.style(b.String()).String()
}

// Super-board coordinate of a sub-board, "A3" for 0
func boardName(bigIndex int) string {
	return uttt.NewMove(bigIndex, 0).String()[:2]
}

// Board renders the 9x9 grid. Empty cells of the boards the player can
// move on are highlighted, the last move is underlined and decided
// boards are coloured with their winner.
func (d *Display) Board(pos uttt.Position) string {
	var b strings.Builder
	b.WriteString("      A       B       C\n")
	b.WriteString("    a b c   a b c   a b c\n")

	for row := 0; row < 9; row++ {
		bigRow, smallRow := row/3, row%3
		if row > 0 && smallRow == 0 {
			b.WriteString("    ------+-------+------\n")
		}

		if smallRow == 0 {
			fmt.Fprintf(&b, "%d %d ", 3-bigRow, 3-smallRow)
		} else {
			fmt.Fprintf(&b, "  %d ", 3-smallRow)
		}

		for bigCol := 0; bigCol < 3; bigCol++ {
			if bigCol > 0 {
				b.WriteString("| ")
			}
			bi := bigRow*3 + bigCol
			for smallCol := 0; smallCol < 3; smallCol++ {
				si := smallRow*3 + smallCol
				b.WriteString(d.cell(pos, bi, si))
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (d *Display) cell(pos uttt.Position, bi, si int) string {
	sb := pos.SubBoards[bi]
	player := sb.Cells[si]

	if player == uttt.Empty {
		if pos.IsLegal(uttt.NewMove(bi, si)) {
			return d.style(".").Foreground(d.out.Color("3")).String()
		}
		if sb.Winner != uttt.Empty {
			return d.playerStyle(sb.Winner, ".").Faint().String()
		}
		return "."
	}

	style := d.playerStyle(player, player.String())
	if pos.LastMove == uttt.NewMove(bi, si) {
		style = style.Bold().Underline()
	}
	if sb.Winner != uttt.Empty && sb.Winner != player {
		style = style.Faint()
	}
	return style.String()
}

// Status line under the board
func (d *Display) Status(pos uttt.Position) string {
	switch {
	case pos.Winner != uttt.Empty:
		return fmt.Sprintf("%s wins (%s)", d.Player(pos.Winner), pos.Result())
	case pos.Draw:
		return fmt.Sprintf("Draw (%s)", pos.Result())
	}

	where := "any board"
	if pos.ActiveBoard != uttt.AnyBoard {
		where = "board " + boardName(pos.ActiveBoard)
	}
	status := fmt.Sprintf("%s to move on %s", d.Player(pos.Turn), where)
	if !pos.LastMove.IsNull() && pos.LastMove.IsValid() {
		status += fmt.Sprintf(", last move %s", pos.LastMove)
	}
	return status
}
