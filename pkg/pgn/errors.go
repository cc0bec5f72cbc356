package pgn

import (
	"fmt"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

// Malformed line in the header block of an exported game
type HeaderError struct {
	Line int // 1-based
	Text string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("malformed header on line %d: %q", e.Line, e.Text)
}

// Header syntax errors are format errors, same as bad notation
func (e *HeaderError) Is(target error) bool {
	return target == uttt.ErrFormat
}
