package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Returned by a handler to end the console
var ErrQuit = errors.New("quit")

// Command defines a console command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(*Session, []string) error
}

type Registry struct {
	session  *Session
	commands map[string]*Command
	names    []string
}

func NewRegistry(s *Session) *Registry {
	r := &Registry{
		session:  s,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerHistoryCommands()
	r.registerStorageCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})
	r.Register(&Command{
		Name:        "exit",
		ShortName:   "q",
		Description: "Exit the console",
		Usage:       "exit",
		Handler:     func(*Session, []string) error { return ErrQuit },
	})
	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	r.names = append(r.names, cmd.Name)
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Names of the registered commands, for completion
func (r *Registry) Names() []string {
	names := append([]string(nil), r.names...)
	sort.Strings(names)
	return names
}

// Execute runs one input line. Command errors are printed, only ErrQuit
// is returned.
func (r *Registry) Execute(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	out := r.session.Out()
	cmd, exists := r.commands[parts[0]]
	if !exists {
		fmt.Fprintln(out, r.session.Display.Error(fmt.Errorf("unknown command: %s", parts[0])))
		fmt.Fprintln(out, "Type 'help' for available commands")
		return nil
	}

	err := cmd.Handler(r.session, parts[1:])
	if errors.Is(err, ErrQuit) {
		return ErrQuit
	}
	if err != nil {
		fmt.Fprintln(out, r.session.Display.Error(err))
	}
	return nil
}

func (r *Registry) helpHandler(s *Session, args []string) error {
	out := s.Out()
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(out, "%s - %s\n", s.Display.Info(cmd.Name), cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(out, "Short form: %s\n", s.Display.Info(cmd.ShortName))
		}
		fmt.Fprintf(out, "Usage: %s\n", cmd.Usage)
		return nil
	}

	fmt.Fprintln(out, "Available commands:")
	for _, name := range r.Names() {
		cmd := r.commands[name]
		short := "   "
		if cmd.ShortName != "" {
			short = "[" + cmd.ShortName + "]"
		}
		fmt.Fprintf(out, "  %s %-9s %s\n", short, cmd.Name, cmd.Description)
	}
	fmt.Fprintln(out, "\nType 'help <command>' for detailed usage")
	return nil
}
