package uttt

import (
	"fmt"
	"math/rand"
	"testing"
)

func TestCheckLineWinner(t *testing.T) {
	tests := []struct {
		name  string
		slots [9]Player
		want  Player
	}{
		{"empty", [9]Player{}, Empty},
		{"row", [9]Player{Empty, Empty, Empty, O, O, O, X, X, Empty}, O},
		{"column", [9]Player{X, O, Empty, X, O, Empty, X, Empty, Empty}, X},
		{"diagonal", [9]Player{O, X, X, Empty, O, X, Empty, Empty, O}, O},
		{"anti-diagonal", [9]Player{O, O, X, Empty, X, Empty, X, Empty, Empty}, X},
		{"no line", [9]Player{X, O, X, X, O, X, O, X, O}, Empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckLineWinner(tt.slots); got != tt.want {
				t.Fatalf("CheckLineWinner(%v) = %v, want %v", tt.slots, got, tt.want)
			}
		})
	}
}

func TestUpdateSubBoard(t *testing.T) {
	drawn := UpdateSubBoard([9]Player{X, O, X, X, O, X, O, X, O})
	if !drawn.Draw || drawn.Winner != Empty {
		t.Fatalf("expected a drawn board, got winner=%v draw=%v", drawn.Winner, drawn.Draw)
	}

	// Full board with a line is a win, not a draw
	won := UpdateSubBoard([9]Player{X, X, X, O, O, X, O, X, O})
	if won.Draw || won.Winner != X {
		t.Fatalf("expected X to win, got winner=%v draw=%v", won.Winner, won.Draw)
	}

	open := UpdateSubBoard([9]Player{X, O})
	if open.Decided() {
		t.Fatal("board with empty cells and no line should be undecided")
	}
}

func TestRandomPlayout(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		t.Run(fmt.Sprintf("Playout-%d", i), func(t *testing.T) {
			p := NewPosition()
			movesLeft := 81
			for !p.IsTerminated() && movesLeft > 0 {
				moves := p.LegalMoves()
				if len(moves) == 0 {
					t.Fatal("No legal moves available")
				}
				p = p.MakeMove(moves[random.Intn(len(moves))])
				movesLeft--
			}
			if !p.IsTerminated() {
				t.Fatal("Game ended without a termination condition")
			}
			if p.Winner != Empty && p.Draw {
				t.Fatal("Winner and draw are mutually exclusive")
			}
		})
	}
}

func TestResult(t *testing.T) {
	tests := []struct {
		notation string
		result   Result
	}{
		{StartingPosition, ResultOngoing},
		{"xxx6/9/9/9/x3x3x/9/9/9/xxx6 o -", ResultXWins},
		{"ooo6/9/9/ooo6/9/9/ooo6/9/9 x -", ResultOWins},
	}

	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			pos, err := FromNotation(tt.notation)
			if err != nil {
				t.Fatal(err)
			}
			if got := pos.Result(); got != tt.result {
				t.Fatalf("expected %v, got %v", tt.result, got)
			}
		})
	}

	for _, s := range []string{"1-0", "0-1", "1/2-1/2", "*"} {
		if r, ok := ParseResult(s); !ok || r.String() != s {
			t.Fatalf("failed to parse %q", s)
		}
	}
	if _, ok := ParseResult("2-0"); ok {
		t.Fatal("expected failure on unknown result")
	}
}
