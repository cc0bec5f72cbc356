package mcts

import (
	"context"
	"math/rand"
	"runtime"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

// Run the search with Limits().Threads threads building the same tree,
// blocks until the limiter or the context stops it
func (mcts *MCTS) Search(ctx context.Context) {
	mcts.setupSearch(ctx)
	threads := max(1, mcts.Limits().Threads)

	mcts.wg.Add(threads)
	for id := 1; id < threads; id++ {
		go mcts.search(id)
	}
	mcts.search(mainThreadId)
	mcts.wg.Wait()
	mcts.Limiter.SetContext(context.Background())
}

// Resets the limiter and the counters, doesn't start the search
func (mcts *MCTS) setupSearch(ctx context.Context) {
	mcts.Limiter.SetContext(ctx)
	mcts.Limiter.Reset()
	mcts.cps.Store(0)
	mcts.cycles.Store(0)
	mcts.collisionCount.Store(0)
}

// Search loop of a single thread:
//
// 1. selection - choose the most promising leaf, expanding it when visited before
//
// 2. rollout - play random moves until the game ends
//
// 3. backpropagate - add the result up to the root
//
// threadId must be unique, 0 being the main thread
func (mcts *MCTS) search(threadId int) {
	defer mcts.wg.Done()
	threadRand := rand.New(rand.NewSource(SeedGeneratorFn() + int64(threadId)))

	if mcts.Root.Terminal() || len(mcts.Root.Children) == 0 {
		if threadId == mainThreadId {
			mcts.Limiter.EvaluateStopReason(mcts.Size(), uint32(mcts.MaxDepth()), uint32(mcts.Cycles()))
			mcts.invokeListener(mcts.listener.onStop)
		}
		return
	}

	for mcts.Limiter.Ok(mcts.Size(), uint32(mcts.MaxDepth()), uint32(mcts.Cycles())) {
		node, pos := mcts.selection(threadRand, threadId)
		backpropagate(node, rollout(pos, threadRand))

		cycles := mcts.cycles.Add(1)
		mcts.cps.Store(uint32(uint64(cycles) * 1000 / uint64(mcts.Limiter.Elapsed())))

		if threadId == mainThreadId {
			mcts.listener.invokeCycle(mcts)
		}
	}

	if threadId == mainThreadId {
		mcts.Limiter.EvaluateStopReason(mcts.Size(), uint32(mcts.MaxDepth()), uint32(mcts.Cycles()))
		// Make the other threads leave their loops
		mcts.Limiter.SetStop(true)
		mcts.invokeListener(mcts.listener.onStop)
	}
}

// Walk down the tree by UCB1 to a leaf, expanding it if it was visited
// before. Returns the leaf with its position.
func (mcts *MCTS) selection(threadRand *rand.Rand, threadId int) (*Node, uttt.Position) {
	node := mcts.Root
	pos := mcts.position
	depth := int32(0)

	for node.Expanded() {
		node = selectUCB(node)
		pos = play(pos, node.Move)
		depth++
		node.AddVvl(VirtualLoss, VirtualLoss)
	}

	if node.RealVisits() > 0 && !node.Terminal() {
		if mcts.Limiter.Expand() && node.CanExpand() {
			mcts.size.Add(expand(node, pos))
			node.FinishExpanding()
		}

		first := true
		for node.Expanding() {
			if first {
				mcts.collisionCount.Add(1)
				first = false
			}
			runtime.Gosched()
		}

		if node.Expanded() {
			node = &node.Children[threadRand.Intn(len(node.Children))]
			pos = play(pos, node.Move)
			depth++
			node.AddVvl(VirtualLoss, VirtualLoss)
		}
	}

	if mcts.updateMaxDepth(depth) && threadId == mainThreadId {
		mcts.invokeListener(mcts.listener.onDepth)
	}
	return node, pos
}

// Returns true if depth is the new maximum
func (mcts *MCTS) updateMaxDepth(depth int32) bool {
	for {
		current := mcts.maxdepth.Load()
		if depth <= current {
			return false
		}
		if mcts.maxdepth.CompareAndSwap(current, depth) {
			return true
		}
	}
}
