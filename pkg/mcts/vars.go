package mcts

import "time"

// Main thread id, the only one allowed to call the listener during the search
const mainThreadId = 0

// Virtual loss applied to every node on the selected path, so the other
// threads pick different lines while this one is still rolling out
const VirtualLoss int32 = 2

// Exploration parameter used in the UCB1 formula, sqrt(2) in theory,
// 0.75 plays better for ultimate tic tac toe
var ExplorationParam float64 = 0.75

// Set the exploration parameter used in UCB1 formula
func SetExplorationParam(c float64) {
	ExplorationParam = max(0.0, c)
}

type SeedGeneratorFnType func() int64

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// Set custom seed generator for the rollouts, by default uses current
// time in nanoseconds
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}

type BestChildPolicy int

const (
	// Choose the child with most visits, the go-to method for MCTS
	BestChildMostVisits BestChildPolicy = iota

	// Choose the child with the best win rate
	BestChildWinRate
)
