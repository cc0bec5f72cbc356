package mcts

import (
	"fmt"
	"sync/atomic"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

// Result of a rollout in [0, 1], 1 being a win for the side that moved
// into the node
type Result float64

// Visit, virtual loss and outcome counters of a node. Written by many
// search threads at once, so every field is atomic.
type NodeStats struct {
	// float64 sum of outcomes with 10^-3 precision
	sumOutcomes atomic.Uint64

	// Read together with virtualLoss through GetVvl
	visits atomic.Int32

	// Always visits - virtualLoss >= 0
	virtualLoss atomic.Int32
}

const (
	CanExpand     uint32 = 0
	ExpandingMask uint32 = 1
	ExpandedMask  uint32 = 2
	TerminalMask  uint32 = 4
)

type Node struct {
	NodeStats
	Move     uttt.Move
	Children []Node
	Parent   *Node
	Flags    uint32 // must be read/written atomically
}

// Set up a fresh node in place, nodes hold atomics and must not be copied
func (node *Node) init(parent *Node, move uttt.Move, terminated bool) {
	node.Move = move
	node.Parent = parent
	node.Flags = TerminalFlag(terminated)
}

// Win rate of the node, from the perspective of the side that moved into it
func (node *Node) AvgOutcome() Result {
	visits := node.RealVisits()
	if visits == 0 {
		return 0
	}
	return node.Outcomes() / Result(visits)
}

func (node *Node) Outcomes() Result {
	return Result(node.sumOutcomes.Load()) / 1e3
}

func (node *Node) AddOutcome(result Result) {
	node.sumOutcomes.Add(uint64(result * 1e3))
}

func (node *Node) Visits() int32 {
	return node.visits.Load()
}

func (node *Node) VirtualLoss() int32 {
	return node.virtualLoss.Load()
}

// Get both visits and virtual loss (to avoid situtation one of them is modified)
// returns (visits, virtual loss)
func (node *Node) GetVvl() (int32, int32) {
	for {
		visits := node.visits.Load()
		virtualLoss := node.virtualLoss.Load()

		if virtualLoss <= visits {
			return visits, virtualLoss
		}
	}
}

// Returns visits - virtual loss
func (node *Node) RealVisits() int32 {
	visits, virtualLoss := node.GetVvl()
	return visits - virtualLoss
}

// Adds given values to the visits and virtual loss counters, in the order
// that keeps virtual loss <= visits at every step
func (node *Node) AddVvl(visits, virtualLoss int32) {
	if virtualLoss < 0 {
		node.virtualLoss.Add(virtualLoss)
		node.visits.Add(visits)
		return
	}
	node.visits.Add(visits)
	node.virtualLoss.Add(virtualLoss)
}

// Sets visits and virtual loss of this node to specified value
func (node *Node) SetVvl(visits, virtualLoss int32) {
	if virtualLoss > visits {
		panic(fmt.Sprintf("Virtual loss (%d) cannot be greater than visits (%d)", virtualLoss, visits))
	}
	node.virtualLoss.Store(virtualLoss)
	node.visits.Store(visits)
}

// Reads the flags, and return wheter the node is terminal
func (node *Node) Terminal() bool {
	return atomic.LoadUint32(&node.Flags)&TerminalMask == TerminalMask
}

// Claim the node for expansion, only one thread gets true
func (node *Node) CanExpand() bool {
	return atomic.CompareAndSwapUint32(&node.Flags, CanExpand, ExpandingMask)
}

func (node *Node) Expanding() bool {
	return atomic.LoadUint32(&node.Flags)&ExpandingMask == ExpandingMask
}

func (node *Node) Expanded() bool {
	return atomic.LoadUint32(&node.Flags)&ExpandedMask == ExpandedMask
}

// Publish the children, after this other threads may read them
func (node *Node) FinishExpanding() {
	atomic.StoreUint32(&node.Flags, ExpandedMask)
}

func TerminalFlag(terminal bool) uint32 {
	flag := uint32(0)
	if terminal {
		flag |= TerminalMask
	}
	return flag
}

// Creates the children of given node, one per legal move in pos. Returns
// the number of new nodes.
func expand(node *Node, pos uttt.Position) uint32 {
	moves := pos.LegalMoves()
	children := make([]Node, len(moves))
	for i, move := range moves {
		children[i].init(node, move, play(pos, move).IsTerminated())
	}
	node.Children = children
	return uint32(len(children))
}

func (node *Node) String() string {
	return fmt.Sprintf("{move=%v, visits=%d, vl=%d, q=%.3f, flags=%d, children=%d}",
		node.Move, node.Visits(), node.VirtualLoss(), node.Outcomes(), atomic.LoadUint32(&node.Flags), len(node.Children))
}
