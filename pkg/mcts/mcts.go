package mcts

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

type TreeStats struct {
	maxdepth atomic.Int32
	cps      atomic.Uint32
	cycles   atomic.Uint32
}

// Monte carlo search tree over ultimate tic tac toe positions
type MCTS struct {
	TreeStats
	listener       *StatsListener
	Limiter        *Limiter
	Root           *Node
	position       uttt.Position
	size           atomic.Uint32
	wg             sync.WaitGroup
	collisionCount atomic.Int32
}

// Create new tree rooted at given position, the root is expanded right away
func NewMCTS(pos uttt.Position) *MCTS {
	mcts := &MCTS{
		listener: &StatsListener{nCycles: 1},
		Limiter:  NewLimiter(uint32(unsafe.Sizeof(Node{}))),
	}
	mcts.setRoot(pos)
	return mcts
}

func (mcts *MCTS) setRoot(pos uttt.Position) {
	mcts.position = trim(pos)
	mcts.Root = &Node{Move: pos.LastMove, Flags: TerminalFlag(pos.IsTerminated())}
	mcts.size.Store(1)

	if mcts.Root.CanExpand() {
		mcts.size.Add(expand(mcts.Root, mcts.position))
		mcts.Root.FinishExpanding()
	}
	mcts.maxdepth.Store(0)
}

// Position at the root of the tree, with only the last history entry
func (mcts *MCTS) Position() uttt.Position {
	return mcts.position
}

// Plays the move at the root, keeping the subtree below it. If the move
// was never expanded, the tree starts over from the new position.
func (mcts *MCTS) MakeMove(move uttt.Move) error {
	next, err := mcts.position.MakeLegalMove(move)
	if err != nil {
		return err
	}

	if mcts.Root.Expanded() {
		for i := range mcts.Root.Children {
			child := &mcts.Root.Children[i]
			if child.Move != move {
				continue
			}
			child.Parent = nil
			mcts.Root = child
			mcts.position = play(mcts.position, move)
			mcts.size.Store(uint32(countTreeNodes(child)))
			mcts.maxdepth.Store(max(mcts.maxdepth.Load()-1, 0))
			if child.CanExpand() {
				mcts.size.Add(expand(child, mcts.position))
				child.FinishExpanding()
			}
			return nil
		}
	}

	mcts.setRoot(next)
	return nil
}

func (mcts *MCTS) invokeListener(f ListenerFunc) {
	if f != nil {
		f(toListenerStats(mcts))
	}
}

// The number of times a node was chosen, while another thread was
// expanding it
func (mcts *MCTS) CollisionCount() int32 {
	return mcts.collisionCount.Load()
}

func (mcts *MCTS) SetListener(listener StatsListener) {
	*mcts.listener = listener
}

func (mcts *MCTS) StatsListener() *StatsListener {
	return mcts.listener
}

// Stop the search
func (mcts *MCTS) Stop() {
	mcts.Limiter.SetStop(true)
}

// Maxiumum depth reached during the search, usually MaxDepth != len(pv)
func (mcts *MCTS) MaxDepth() int {
	return int(mcts.maxdepth.Load())
}

// Total number of rollouts of the last search
func (mcts *MCTS) Cycles() int {
	return int(mcts.cycles.Load())
}

// Cycles per second of the last search
func (mcts *MCTS) Cps() uint32 {
	return mcts.cps.Load()
}

func (mcts *MCTS) StopReason() StopReason {
	return mcts.Limiter.StopReason()
}

func (mcts *MCTS) SetLimits(limits *Limits) {
	mcts.Limiter.SetLimits(limits)
}

func (mcts *MCTS) Limits() *Limits {
	return mcts.Limiter.Limits()
}

// Number of nodes in the tree
func (mcts *MCTS) Size() uint32 {
	return mcts.size.Load()
}

// Approximation of memory used by the tree
func (mcts *MCTS) MemoryUsage() uint32 {
	return mcts.Size() * uint32(unsafe.Sizeof(Node{}))
}

func (mcts *MCTS) String() string {
	return fmt.Sprintf("MCTS={Size=%d, Stats:{maxdepth=%d, cps=%d, cycles=%d}, Root=%v}",
		mcts.Size(), mcts.MaxDepth(), mcts.Cps(), mcts.Cycles(), mcts.Root)
}

func countTreeNodes(node *Node) int {
	nodes := 1
	for i := range node.Children {
		nodes += countTreeNodes(&node.Children[i])
	}
	return nodes
}

// Size of the tree, by counting the nodes
func (mcts *MCTS) Count() int {
	return countTreeNodes(mcts.Root)
}

// Win rate of the side to move at the root
func (mcts *MCTS) RootScore() Result {
	best := mcts.BestChild(mcts.Root, BestChildMostVisits)
	if best == nil {
		return 0.5
	}
	return best.AvgOutcome()
}

// Best child of given node, nil if it has none
func (mcts *MCTS) BestChild(node *Node, policy BestChildPolicy) *Node {
	if !node.Expanded() || len(node.Children) == 0 {
		return nil
	}

	best := &node.Children[0]
	for i := 1; i < len(node.Children); i++ {
		if better(&node.Children[i], best, policy) {
			best = &node.Children[i]
		}
	}
	return best
}

func better(a, b *Node, policy BestChildPolicy) bool {
	if policy == BestChildWinRate {
		return a.AvgOutcome() > b.AvgOutcome()
	}
	return a.RealVisits() > b.RealVisits()
}

// One principal variation of the tree
type PvResult struct {
	Root     *Node
	Pv       []uttt.Move
	Terminal bool
	Winner   uttt.Player
}

// Principal variation starting with the root's child
func (mcts *MCTS) Pv(child *Node, policy BestChildPolicy) PvResult {
	pos := mcts.position
	moves := make([]uttt.Move, 0, mcts.MaxDepth()+1)

	for node := child; node != nil; node = mcts.BestChild(node, policy) {
		moves = append(moves, node.Move)
		pos = play(pos, node.Move)
	}

	return PvResult{
		Root:     child,
		Pv:       moves,
		Terminal: pos.IsTerminated(),
		Winner:   pos.Winner,
	}
}

// Lines of the best root children, ordered best first, at most
// Limits.MultiPv of them
func (mcts *MCTS) MultiPv(policy BestChildPolicy) []PvResult {
	if !mcts.Root.Expanded() {
		return nil
	}

	children := make([]*Node, len(mcts.Root.Children))
	for i := range mcts.Root.Children {
		children[i] = &mcts.Root.Children[i]
	}
	slices.SortStableFunc(children, func(a, b *Node) int {
		switch {
		case better(a, b, policy):
			return -1
		case better(b, a, policy):
			return 1
		}
		return 0
	})

	n := min(max(mcts.Limits().MultiPv, 1), len(children))
	lines := make([]PvResult, n)
	for i := 0; i < n; i++ {
		lines[i] = mcts.Pv(children[i], policy)
	}
	return lines
}
