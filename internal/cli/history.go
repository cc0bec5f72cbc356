package cli

import (
	"fmt"
	"strconv"
)

func (r *Registry) registerHistoryCommands() {
	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Description: "Take back the move at the cursor, dropping the moves after it",
		Usage:       "undo",
		Handler:     undoHandler,
	})
	r.Register(&Command{
		Name:        "back",
		ShortName:   "b",
		Description: "Step one move back in the history",
		Usage:       "back",
		Handler:     backHandler,
	})
	r.Register(&Command{
		Name:        "forward",
		ShortName:   "f",
		Description: "Step one move forward in the history",
		Usage:       "forward",
		Handler:     forwardHandler,
	})
	r.Register(&Command{
		Name:        "goto",
		ShortName:   "g",
		Description: "Jump to given ply (0 is the start)",
		Usage:       "goto <ply>",
		Handler:     gotoHandler,
	})
}

func undoHandler(s *Session, args []string) error {
	if s.Pos.AtRoot() {
		return fmt.Errorf("nothing to undo")
	}
	s.Pos = s.Pos.UndoMove()
	return showHandler(s, nil)
}

func backHandler(s *Session, args []string) error {
	pos, err := s.Pos.Back()
	if err != nil {
		return err
	}
	s.Pos = pos
	return showHandler(s, nil)
}

func forwardHandler(s *Session, args []string) error {
	pos, err := s.Pos.Forward()
	if err != nil {
		return err
	}
	s.Pos = pos
	return showHandler(s, nil)
}

func gotoHandler(s *Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: goto <ply>")
	}
	ply, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid ply %q", args[0])
	}

	pos, err := s.Pos.Traverse(ply)
	if err != nil {
		return err
	}
	s.Pos = pos
	return showHandler(s, nil)
}
