package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/analysis"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/archive"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/pgn"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/session"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

// Archiver is the part of the game archive the console uses
type Archiver interface {
	Save(ctx context.Context, game pgn.ExportedGame) (archive.Record, error)
	Get(ctx context.Context, id string) (archive.Record, error)
	List(ctx context.Context, limit int) ([]archive.Record, error)
}

// Session is the console state. Every command runs on the console's
// goroutine, one at a time, so the position has a single writer.
type Session struct {
	Pos uttt.Position

	Analyzer analysis.Analyzer // nil disables 'analyze'
	Limits   analysis.Limits
	Timeout  time.Duration

	Store   session.Store // nil disables 'save' and 'restore'
	Archive Archiver      // nil disables 'archive'

	// Default export headers, caller values win
	Headers map[string]string

	Display *Display
	Log     *zap.Logger
}

func NewSession(out io.Writer) *Session {
	return &Session{
		Pos:     uttt.NewPosition(),
		Limits:  *analysis.DefaultLimits(),
		Timeout: 30 * time.Second,
		Headers: map[string]string{},
		Display: NewDisplay(out),
		Log:     zap.NewNop(),
	}
}

func (s *Session) Out() io.Writer {
	return s.Display.Writer()
}

// Export options of the current game
func (s *Session) exportOptions() pgn.ExportOptions {
	headers := make(map[string]string, len(s.Headers))
	for name, value := range s.Headers {
		headers[headerName(name)] = value
	}
	return pgn.ExportOptions{Headers: headers, IncludeResult: true}
}

// Text of the current game, with the session's headers
func (s *Session) ExportText() (string, error) {
	return pgn.ExportText(s.Pos, s.exportOptions())
}

// Config keys come back lower cased, "event" -> "Event"
func headerName(name string) string {
	if name == "" {
		return name
	}
	switch strings.ToLower(name) {
	case "x":
		return pgn.HeaderX
	case "o":
		return pgn.HeaderO
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
