package pgn

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

var (
	headerRegex     = regexp.MustCompile(`^\[(\w+)\s+"(.*)"\]$`)
	moveNumberRegex = regexp.MustCompile(`^\d+\.$`)
)

// Parse scans the text of an exported game. Header lines are read while
// the block lasts, a line starting with '[' that doesn't match the
// [Name "Value"] syntax is a *HeaderError. In the body, move numbers are
// dropped, a result literal is captured and every other token is kept as
// a move, so bad tokens only fail later in Import.
func Parse(text string) (ExportedGame, error) {
	if strings.TrimSpace(text) == "" {
		return ExportedGame{}, uttt.ErrEmptyGame
	}

	game := ExportedGame{
		Headers: Headers{},
		Moves:   []string{uttt.NullMove.String()},
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	inHeaders := true
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if inHeaders {
			if strings.HasPrefix(line, "[") {
				match := headerRegex.FindStringSubmatch(line)
				if match == nil {
					return ExportedGame{}, &HeaderError{Line: lineNo, Text: line}
				}
				game.Headers.Set(match[1], match[2])
				continue
			}
			inHeaders = false
		}

		for _, token := range strings.Fields(line) {
			if moveNumberRegex.MatchString(token) || token == uttt.NullMove.String() {
				continue
			}
			if result, ok := uttt.ParseResult(token); ok {
				game.Result = result
				continue
			}
			game.Moves = append(game.Moves, token)
		}
	}
	if err := scanner.Err(); err != nil {
		return ExportedGame{}, err
	}

	if game.Result == "" {
		if result, ok := uttt.ParseResult(game.Headers.Get(HeaderResult)); ok {
			game.Result = result
		}
	}
	return game, nil
}
