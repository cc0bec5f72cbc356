package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/pgn"
)

func (r *Registry) registerStorageCommands() {
	r.Register(&Command{
		Name:        "export",
		ShortName:   "e",
		Description: "Export the game, to a file or the screen",
		Usage:       "export [file]",
		Handler:     exportHandler,
	})
	r.Register(&Command{
		Name:        "import",
		ShortName:   "i",
		Description: "Import a game from a file",
		Usage:       "import <file>",
		Handler:     importHandler,
	})
	r.Register(&Command{
		Name:        "save",
		Description: "Store the position, prints its session id",
		Usage:       "save",
		Handler:     saveHandler,
	})
	r.Register(&Command{
		Name:        "restore",
		Description: "Restore a stored position",
		Usage:       "restore <id>",
		Handler:     restoreHandler,
	})
	r.Register(&Command{
		Name:        "archive",
		Description: "Archive the game, list or open archived games",
		Usage:       "archive [save | list [limit] | open <id>]",
		Handler:     archiveHandler,
	})
}

func exportHandler(s *Session, args []string) error {
	text, err := s.ExportText()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprint(s.Out(), text)
		return nil
	}

	if err := os.WriteFile(args[0], []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", args[0], err)
	}
	fmt.Fprintf(s.Out(), "Game exported to %s\n", args[0])
	return nil
}

func importHandler(s *Session, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: import <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	pos, err := pgn.ImportText(string(data))
	if err != nil {
		return err
	}

	s.Pos = pos
	s.Log.Info("game imported", zap.String("file", args[0]), zap.Int("plies", len(pos.History)-1))
	return showHandler(s, nil)
}

func saveHandler(s *Session, args []string) error {
	if s.Store == nil {
		return errors.New("no session store configured")
	}

	id, err := s.Store.Save(context.Background(), s.Pos)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out(), "Saved as %s\n", s.Display.Info(id))
	return nil
}

func restoreHandler(s *Session, args []string) error {
	if s.Store == nil {
		return errors.New("no session store configured")
	}
	if len(args) != 1 {
		return errors.New("usage: restore <id>")
	}

	pos, err := s.Store.Load(context.Background(), args[0])
	if err != nil {
		return err
	}
	s.Pos = pos
	return showHandler(s, nil)
}

func archiveHandler(s *Session, args []string) error {
	if s.Archive == nil {
		return errors.New("no archive configured (set archive.path)")
	}

	ctx := context.Background()
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "save":
		game, err := pgn.Export(s.Pos, s.exportOptions())
		if err != nil {
			return err
		}
		rec, err := s.Archive.Save(ctx, game)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.Out(), "Archived as %s (%s, %d plies)\n", s.Display.Info(rec.ID), rec.Result, rec.Plies)
		return nil

	case "list":
		limit := 20
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid limit %q", args[1])
			}
			limit = n
		}

		records, err := s.Archive.List(ctx, limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(s.Out(), "No games archived")
			return nil
		}

		w := tabwriter.NewWriter(s.Out(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tResult\tPlies\tCreated")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", rec.ID, rec.Result, rec.Plies, rec.Created.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()

	case "open":
		if len(args) != 2 {
			return errors.New("usage: archive open <id>")
		}
		rec, err := s.Archive.Get(ctx, args[1])
		if err != nil {
			return err
		}
		pos, err := rec.Game()
		if err != nil {
			return err
		}
		s.Pos = pos
		return showHandler(s, nil)
	}

	return fmt.Errorf("unknown archive command: %s", sub)
}
