package mcts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/analysis"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

// Returned when the analysed position is already over
var ErrGameOver = errors.New("mcts: game is over, nothing to analyse")

const DefaultMovetime = 2 * time.Second

// In-process analyzer, used when no remote engine is configured
type Engine struct {
	movetime time.Duration
	log      *zap.Logger
}

var _ analysis.Analyzer = (*Engine)(nil)

type EngineOption func(*Engine)

// Time limit of a single analysis, the request's depth may end it sooner
func WithMovetime(movetime time.Duration) EngineOption {
	return func(e *Engine) {
		if movetime > 0 {
			e.movetime = movetime
		}
	}
}

func WithLogger(log *zap.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		movetime: DefaultMovetime,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Translate the request into the search limits, the depth bounds the tree
// depth and the size bounds the tree's memory
func (e *Engine) limits(req analysis.Request) *Limits {
	return DefaultLimits().
		SetDepth(req.Depth).
		SetThreads(req.Threads).
		SetMbSize(req.SizeMB).
		SetMultiPv(req.MultiPv).
		SetMovetime(int(e.movetime.Milliseconds()))
}

// Analyze runs a search on the requested position and reports the best
// lines the same way the remote engine does
func (e *Engine) Analyze(ctx context.Context, req analysis.Request) (analysis.Response, error) {
	if err := req.Validate(); err != nil {
		return analysis.Response{}, err
	}

	pos, err := uttt.FromNotation(req.Position)
	if err != nil {
		return analysis.Response{}, fmt.Errorf("mcts: %w", err)
	}
	if pos.IsTerminated() {
		return analysis.Response{}, ErrGameOver
	}

	tree := NewMCTS(pos)
	tree.SetLimits(e.limits(req))

	listener := NewStatsListener()
	listener.
		OnDepth(func(stats ListenerTreeStats) {
			if len(stats.Lines) == 0 {
				return
			}
			e.log.Debug("search depth",
				zap.Int("depth", stats.Maxdepth),
				zap.Int("cycles", stats.Cycles),
				zap.Stringer("best", stats.Lines[0].BestMove))
		}).
		OnStop(func(stats ListenerTreeStats) {
			e.log.Debug("search stopped",
				zap.Stringer("reason", stats.StopReason),
				zap.Int("cycles", stats.Cycles),
				zap.Int("depth", stats.Maxdepth),
				zap.Uint32("cps", stats.Cps),
				zap.Uint32("size", stats.Size))
		})
	tree.SetListener(listener)

	tree.Search(ctx)
	if err := ctx.Err(); err != nil {
		return analysis.Response{}, fmt.Errorf("mcts: search interrupted: %w", err)
	}

	return toResponse(tree, pos.Turn), nil
}

func toResponse(tree *MCTS, turn uttt.Player) analysis.Response {
	pvs := tree.MultiPv(BestChildMostVisits)
	lines := make([]analysis.Line, len(pvs))
	for i, pv := range pvs {
		eval := formatEval(pv, turn, turn)
		abs := formatEval(pv, turn, uttt.X)

		tokens := make([]string, len(pv.Pv))
		for j, move := range pv.Pv {
			tokens[j] = uttt.MoveNotation(move)
		}
		lines[i] = analysis.Line{Eval: eval, AbsEval: abs, Pv: tokens}
	}

	return analysis.Response{
		Lines: lines,
		Depth: tree.MaxDepth(),
		Nodes: uint64(tree.Size()),
		Cps:   uint64(tree.Cps()),
	}
}

// Evaluation of the line from side's point of view, turn being the side
// to move at the root. "M<n>" when the line ends with side winning on its
// n-th move, "-M<n>" when the opponent wins on its n-th move, otherwise
// the win rate scaled to [-1, 1].
func formatEval(pv PvResult, turn, side uttt.Player) analysis.Eval {
	if pv.Terminal && pv.Winner != uttt.Empty {
		n := len(pv.Pv) / 2
		if pv.Winner == turn {
			n = (len(pv.Pv) + 1) / 2
		}
		if pv.Winner == side {
			return analysis.Eval(fmt.Sprintf("M%d", n))
		}
		return analysis.Eval(fmt.Sprintf("-M%d", n))
	}

	score := 2*float64(pv.Root.AvgOutcome()) - 1
	if pv.Terminal {
		score = 0
	}
	if side != turn && score != 0 {
		score = -score
	}
	return analysis.Eval(fmt.Sprintf("%.2f", score))
}
