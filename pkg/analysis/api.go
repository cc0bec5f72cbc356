package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

// Body of the analysis request
type Request struct {
	Position string `json:"position" validate:"required,notation"`
	Depth    int    `json:"depth" validate:"min=1,max=64"`
	Threads  int    `json:"threads" validate:"min=1,max=64"`
	SizeMB   int    `json:"sizemb" validate:"min=1,max=4096"`
	MultiPv  int    `json:"multipv" validate:"min=1,max=81"`
}

// Validate the request before it's sent
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("analysis: invalid request: %s", strings.Join(describe(err), "; "))
	}
	return nil
}

// Engine evaluation, reported either as a number or a string ("+1.5", "M3")
type Eval string

func (e *Eval) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = Eval(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*e = Eval(n.String())
	return nil
}

// Float value of the evaluation, ok is false for mate scores and such
func (e Eval) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(e), 64)
	return f, err == nil
}

// One of the engine's principal variations
type Line struct {
	Eval    Eval     `json:"eval"`
	AbsEval Eval     `json:"abseval"`
	Pv      []string `json:"pv" validate:"required,min=1,dive,movetoken"`
}

// First move of the line
func (l Line) BestMove() uttt.Move {
	if len(l.Pv) == 0 {
		return uttt.MoveIllegal
	}
	return uttt.ParseMoveNotation(l.Pv[0])
}

// Decoded moves of the line
func (l Line) Moves() []uttt.Move {
	moves := make([]uttt.Move, len(l.Pv))
	for i, token := range l.Pv {
		moves[i] = uttt.ParseMoveNotation(token)
	}
	return moves
}

// Engine's reply, ranked lines first to last
type Response struct {
	Lines []Line `json:"lines" validate:"required,min=1,dive"`
	Depth int    `json:"depth" validate:"min=0"`
	Nodes uint64 `json:"nodes"`
	Cps   uint64 `json:"cps"`
}

// Best line of the response
func (r Response) Best() (Line, bool) {
	if len(r.Lines) == 0 {
		return Line{}, false
	}
	return r.Lines[0], true
}

// Verify replays every line on the analysed position, so a reply for a
// different position (or a buggy engine) is caught before it's displayed.
func (r Response) Verify(pos uttt.Position) error {
	for i, line := range r.Lines {
		p := pos
		for _, move := range line.Moves() {
			next, err := p.MakeLegalMove(move)
			if err != nil {
				return fmt.Errorf("analysis: line %d: %w", i+1, err)
			}
			p = next
		}
	}
	return nil
}
