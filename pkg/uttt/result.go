package uttt

// Game outcome, in the literal form used by exported games
type Result string

const (
	ResultXWins   Result = "1-0"
	ResultOWins   Result = "0-1"
	ResultDraw    Result = "1/2-1/2"
	ResultOngoing Result = "*"
)

// Parse one of the four result literals, ok is false for anything else
func ParseResult(s string) (Result, bool) {
	switch r := Result(s); r {
	case ResultXWins, ResultOWins, ResultDraw, ResultOngoing:
		return r, true
	}
	return "", false
}

func (r Result) String() string {
	return string(r)
}

// Outcome of the position
func (p Position) Result() Result {
	switch {
	case p.Winner == X:
		return ResultXWins
	case p.Winner == O:
		return ResultOWins
	case p.Draw:
		return ResultDraw
	}
	return ResultOngoing
}
