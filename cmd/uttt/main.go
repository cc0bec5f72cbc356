// Command uttt is a local Ultimate Tic-Tac-Toe console: play, step through
// the history, export and import games, analyse positions with a remote
// engine or the built-in search.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/IlikeChooros/uttt-react-sub000/internal/cli"
	"github.com/IlikeChooros/uttt-react-sub000/internal/config"
	"github.com/IlikeChooros/uttt-react-sub000/internal/logger"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/analysis"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/archive"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/mcts"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/pgn"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/session"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

const usage = `usage: uttt [-config file] [command]

commands:
  play              interactive console (default)
  notation <str>    validate and normalise a position notation
  replay <file>     import a game, print its final position and result
  export <file>     import a game and print it with the configured headers
`

func main() {
	fs := flag.NewFlagSet("uttt", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Configuration file (yaml, json, toml or env)")
	history := fs.String("history", ".uttt_history", "Console history file")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Setup(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	args := fs.Args()
	cmd := "play"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "play":
		err = runPlay(cfg, log, *history)
	case "notation":
		err = runNotation(args)
	case "replay":
		err = runReplay(args)
	case "export":
		err = runExport(cfg, args)
	default:
		fs.Usage()
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		log.Error("command failed", zap.String("command", cmd), zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runPlay(cfg *config.Config, log *zap.Logger, historyFile string) error {
	s := cli.NewSession(os.Stdout)
	s.Log = log
	s.Limits = cfg.Engine.Limits
	s.Timeout = cfg.Engine.Timeout
	s.Headers = cfg.Headers

	if cfg.Engine.URL != "" {
		s.Analyzer = analysis.NewClient(cfg.Engine.URL,
			analysis.WithTimeout(cfg.Engine.Timeout),
			analysis.WithLogger(log.Named("analysis")))
	} else {
		s.Analyzer = mcts.NewEngine(
			mcts.WithMovetime(cfg.Engine.Movetime),
			mcts.WithLogger(log.Named("mcts")))
	}

	switch cfg.Session.Backend {
	case "redis":
		client, err := session.DialRedis(context.Background(), cfg.Session.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		s.Store = session.NewRedisStore(client, cfg.Session.TTL, log.Named("session"))
	default:
		s.Store = session.NewMemoryStore(cfg.Session.TTL)
	}

	if cfg.Archive.Path != "" {
		store, err := archive.Open(cfg.Archive.Path, log.Named("archive"))
		if err != nil {
			return err
		}
		defer store.Close()
		s.Archive = store
	}

	log.Info("console started",
		zap.String("engine", cfg.Engine.URL),
		zap.String("session", cfg.Session.Backend),
		zap.String("archive", cfg.Archive.Path))
	return cli.Run(s, historyFile)
}

func runNotation(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: uttt notation <board> <turn> <active>")
	}

	pos, err := uttt.FromNotation(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Println(pos.Notation())
	if pos.IsTerminated() {
		fmt.Println(pos.Result())
	}
	return nil
}

func readGame(args []string) (uttt.Position, error) {
	if len(args) != 1 {
		return uttt.Position{}, fmt.Errorf("game file required")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return uttt.Position{}, err
	}
	return pgn.ImportText(string(data))
}

func runReplay(args []string) error {
	pos, err := readGame(args)
	if err != nil {
		return err
	}

	display := cli.NewDisplay(os.Stdout)
	fmt.Print(display.Board(pos))
	fmt.Println(display.Status(pos))
	fmt.Printf("%s\n%s\n", pos.Notation(), pos.Result())
	return nil
}

func runExport(cfg *config.Config, args []string) error {
	pos, err := readGame(args)
	if err != nil {
		return err
	}

	s := cli.NewSession(os.Stdout)
	s.Pos = pos
	s.Headers = cfg.Headers

	text, err := s.ExportText()
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}
