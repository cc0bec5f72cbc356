package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/muesli/termenv"
)

// Run the interactive loop until 'exit' or end of input
func Run(s *Session, historyFile string) error {
	registry := NewRegistry(s)

	items := make([]readline.PrefixCompleterInterface, 0, len(registry.Names()))
	for _, name := range registry.Names() {
		items = append(items, readline.PcItem(name))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.Display.Prompt(s.Pos),
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	// Output goes through readline, so it doesn't clobber the prompt
	s.Display = NewDisplay(rl.Stdout(), termenv.WithProfile(termenv.EnvColorProfile()))

	out := s.Out()
	fmt.Fprintln(out, s.Display.Info("Ultimate Tic-Tac-Toe"))
	fmt.Fprintln(out, "Type 'help' for commands")
	_ = showHandler(s, nil)

	for {
		rl.SetPrompt(s.Display.Prompt(s.Pos))

		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := registry.Execute(line); errors.Is(err, ErrQuit) {
			return nil
		}
	}
}
