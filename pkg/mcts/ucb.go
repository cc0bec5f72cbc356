package mcts

import (
	"math"
	"math/rand"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

// Pick the child of parent with the highest UCB1 score, an unvisited
// child is always picked first
func selectUCB(parent *Node) *Node {
	if parent.Terminal() {
		return parent
	}

	max := float64(-1)
	index := 0
	lnParentVisits := math.Log(float64(parent.Visits()))
	var child *Node
	var actualVisits, visits, vl int32

	for i := 0; i < len(parent.Children); i++ {
		child = &parent.Children[i]
		visits, vl = child.GetVvl()
		actualVisits = visits - vl

		if actualVisits == 0 {
			return child
		}

		// UCB 1 : wins/visits + C * sqrt(ln(parent_visits)/visits)
		// The virtual loss counts as visits without wins
		ucb1 := float64(child.Outcomes())/float64(visits) +
			ExplorationParam*math.Sqrt(lnParentVisits/float64(visits))

		if ucb1 > max {
			max = ucb1
			index = i
		}
	}

	return &parent.Children[index]
}

// Walk up to the root, adding the result and removing the virtual loss.
// The game is zero sum, so the result flips on every ply.
func backpropagate(node *Node, result Result) {
	for node != nil {
		if node.Parent != nil {
			node.AddVvl(1-VirtualLoss, -VirtualLoss)
		} else {
			node.AddVvl(1, 0)
		}

		result = 1.0 - result
		node.AddOutcome(result)
		node = node.Parent
	}
}

// Play random moves until the game ends. Returns the result from the
// perspective of the side to move in pos.
func rollout(pos uttt.Position, r *rand.Rand) Result {
	turn := pos.Turn
	for !pos.IsTerminated() {
		moves := pos.LegalMoves()
		pos = play(pos, moves[r.Intn(len(moves))])
	}

	switch pos.Winner {
	case turn:
		return 1
	case uttt.Empty:
		return 0.5
	}
	return 0
}

// Positions inside the tree don't need the game record, keep only the
// last entry, so the history doesn't grow with the depth
func play(pos uttt.Position, move uttt.Move) uttt.Position {
	return trim(pos.MakeMove(move))
}

func trim(pos uttt.Position) uttt.Position {
	if len(pos.History) > 0 {
		pos.History = pos.History[pos.HistoryIndex : pos.HistoryIndex+1 : pos.HistoryIndex+1]
		pos.HistoryIndex = 0
	}
	return pos
}
