package mcts

import "github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"

type SearchLine struct {
	BestMove uttt.Move
	Moves    []uttt.Move
	Eval     float64
	Terminal bool
	Winner   uttt.Player
}

type ListenerTreeStats struct {
	Maxdepth   int
	Cycles     int
	TimeMs     int
	Cps        uint32
	Size       uint32
	Lines      []SearchLine
	StopReason StopReason
}

func toListenerStats(tree *MCTS) ListenerTreeStats {
	pv := tree.MultiPv(BestChildMostVisits)
	lines := make([]SearchLine, len(pv))
	for i := range pv {
		lines[i] = SearchLine{
			BestMove: pv[i].Root.Move,
			Moves:    pv[i].Pv,
			Eval:     float64(pv[i].Root.AvgOutcome()),
			Terminal: pv[i].Terminal,
			Winner:   pv[i].Winner,
		}
	}

	return ListenerTreeStats{
		Lines:      lines,
		Maxdepth:   tree.MaxDepth(),
		Cycles:     tree.Cycles(),
		TimeMs:     int(tree.Limiter.Elapsed()),
		Cps:        tree.Cps(),
		Size:       tree.Size(),
		StopReason: tree.Limiter.StopReason(),
	}
}

// Listener callback, receives current tree statistics
type ListenerFunc func(ListenerTreeStats)

type StatsListener struct {
	// called when the max depth increases
	onDepth ListenerFunc

	// called every nCycles cycles
	onCycle ListenerFunc
	nCycles int

	// called once when the search stops
	onStop ListenerFunc
}

func NewStatsListener() StatsListener {
	return StatsListener{nCycles: 1}
}

// Attach new on max depth change callback, called only by the main
// search thread
func (listener *StatsListener) OnDepth(onDepth ListenerFunc) *StatsListener {
	listener.onDepth = onDepth
	return listener
}

// Attach new on cycle callback, this evaluates the pv every time, so use
// a large interval
func (listener *StatsListener) OnCycle(onCycle ListenerFunc) *StatsListener {
	listener.onCycle = onCycle
	return listener
}

func (listener *StatsListener) SetCycleInterval(n int) *StatsListener {
	listener.nCycles = max(n, 1)
	return listener
}

// Attach 'on search end' callback, makes 'StopReason' available in the stats
func (listener *StatsListener) OnStop(onStop ListenerFunc) *StatsListener {
	listener.onStop = onStop
	return listener
}

func (listener *StatsListener) invokeCycle(tree *MCTS) {
	if listener.onCycle != nil && tree.Cycles()%listener.nCycles == 0 {
		listener.onCycle(toListenerStats(tree))
	}
}
