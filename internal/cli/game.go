package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Play one or more moves",
		Usage:       "move <token> [token...], e.g. move B2b2",
		Handler:     moveHandler,
	})
	r.Register(&Command{
		Name:        "moves",
		ShortName:   "l",
		Description: "List legal moves",
		Usage:       "moves",
		Handler:     movesHandler,
	})
	r.Register(&Command{
		Name:        "show",
		ShortName:   "s",
		Description: "Show the board",
		Usage:       "show",
		Handler:     showHandler,
	})
	r.Register(&Command{
		Name:        "notation",
		ShortName:   "n",
		Description: "Print the position notation",
		Usage:       "notation",
		Handler:     notationHandler,
	})
	r.Register(&Command{
		Name:        "load",
		Description: "Set up a position from notation",
		Usage:       "load <board> <turn> <active> | load startpos",
		Handler:     loadHandler,
	})
	r.Register(&Command{
		Name:        "new",
		Description: "Start a new game",
		Usage:       "new",
		Handler:     newHandler,
	})
	r.Register(&Command{
		Name:        "analyze",
		ShortName:   "a",
		Description: "Ask the engine for the best lines",
		Usage:       "analyze [depth]",
		Handler:     analyzeHandler,
	})
}

func moveHandler(s *Session, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: move <token> [token...]")
	}

	for _, token := range args {
		move := uttt.ParseMoveNotation(token)
		if move == uttt.MoveIllegal || move.IsNull() {
			return &uttt.InvalidNotationError{Token: token, Ply: s.Pos.HistoryIndex + 1}
		}

		next, err := s.Pos.MakeLegalMove(move)
		if err != nil {
			return err
		}
		s.Pos = next
		s.Log.Debug("move", zap.String("move", move.String()), zap.String("position", s.Pos.Notation()))
	}
	return showHandler(s, nil)
}

func movesHandler(s *Session, args []string) error {
	moves := s.Pos.LegalMoves()
	if len(moves) == 0 {
		fmt.Fprintln(s.Out(), "No legal moves")
		return nil
	}

	tokens := make([]string, len(moves))
	for i, m := range moves {
		tokens[i] = m.String()
	}
	fmt.Fprintf(s.Out(), "%d moves: %s\n", len(moves), strings.Join(tokens, " "))
	return nil
}

func showHandler(s *Session, args []string) error {
	out := s.Out()
	fmt.Fprint(out, s.Display.Board(s.Pos))
	fmt.Fprintln(out, s.Display.Status(s.Pos))
	return nil
}

func notationHandler(s *Session, args []string) error {
	fmt.Fprintln(s.Out(), s.Pos.Notation())
	return nil
}

func loadHandler(s *Session, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: load <board> <turn> <active>")
	}

	pos, err := uttt.FromNotation(strings.Join(args, " "))
	if err != nil {
		return err
	}
	s.Pos = pos
	return showHandler(s, nil)
}

func newHandler(s *Session, args []string) error {
	s.Pos = uttt.NewPosition()
	return showHandler(s, nil)
}

func analyzeHandler(s *Session, args []string) error {
	if s.Analyzer == nil {
		return errors.New("no analysis engine configured (set engine.url)")
	}
	if s.Pos.IsTerminated() {
		return errors.New("game is over")
	}

	limits := s.Limits
	if len(args) > 0 {
		depth, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid depth %q", args[0])
		}
		limits.SetDepth(depth)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	resp, err := s.Analyzer.Analyze(ctx, limits.Request(s.Pos))
	if err != nil {
		return err
	}
	if err := resp.Verify(s.Pos); err != nil {
		return err
	}

	out := s.Out()
	fmt.Fprintf(out, "depth %d, %d nodes, %d nps\n", resp.Depth, resp.Nodes, resp.Cps)
	for i, line := range resp.Lines {
		fmt.Fprintf(out, "%d. %-8s %s\n", i+1, line.AbsEval, strings.Join(line.Pv, " "))
	}
	if best, ok := resp.Best(); ok {
		fmt.Fprintf(out, "best move: %s\n", s.Display.Info(best.BestMove().String()))
	}
	return nil
}
