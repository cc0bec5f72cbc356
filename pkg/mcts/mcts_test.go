package mcts

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/analysis"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

// X wins the whole game with C3c3
const winningPosition = "xxx6/xxx6/xx7/9/9/9/9/9/9 x 2"

func TestMain(m *testing.M) {
	SetSeedGeneratorFn(func() int64 { return 42 })
	os.Exit(m.Run())
}

func mustPosition(t *testing.T, notation string) uttt.Position {
	t.Helper()
	pos, err := uttt.FromNotation(notation)
	if err != nil {
		t.Fatalf("FromNotation(%q): %v", notation, err)
	}
	return pos
}

func searchedTree(t *testing.T, pos uttt.Position, limits *Limits) *MCTS {
	t.Helper()
	tree := NewMCTS(pos)
	tree.SetLimits(limits)
	tree.Search(context.Background())
	return tree
}

// No node may keep virtual loss once the search is over
func checkVirtualLoss(t *testing.T, node *Node) {
	t.Helper()
	if vl := node.VirtualLoss(); vl != 0 {
		t.Fatalf("Node %v has virtual loss %d after search", node.Move, vl)
	}
	for i := range node.Children {
		checkVirtualLoss(t, &node.Children[i])
	}
}

func TestNewMCTS(t *testing.T) {
	tree := NewMCTS(uttt.NewPosition())

	if len(tree.Root.Children) != 81 {
		t.Fatalf("Root should have 81 children, got %d", len(tree.Root.Children))
	}
	if tree.Size() != 82 {
		t.Errorf("Size=%d, want=%d", tree.Size(), 82)
	}

	over := mustPosition(t, "xxx6/9/9/9/x3x3x/9/9/9/xxx6 o 8")
	tree = NewMCTS(over)
	if !tree.Root.Terminal() || len(tree.Root.Children) != 0 {
		t.Fatalf("Root of a finished game should be a terminal leaf, got %v", tree.Root)
	}
}

func TestSearch(t *testing.T) {
	tree := searchedTree(t, uttt.NewPosition(), DefaultLimits().SetCycles(3000))

	if tree.Cycles() < 3000 {
		t.Fatalf("Cycles=%d, want at least %d", tree.Cycles(), 3000)
	}
	if int(tree.Root.Visits()) != tree.Cycles() {
		t.Errorf("Root visits=%d, cycles=%d", tree.Root.Visits(), tree.Cycles())
	}
	if tree.StopReason() != StopCycles {
		t.Errorf("StopReason=%v, want=%v", tree.StopReason(), StopCycles)
	}
	if tree.Size() != uint32(tree.Count()) {
		t.Errorf("Size=%d, counted=%d", tree.Size(), tree.Count())
	}
	checkVirtualLoss(t, tree.Root)

	pv := tree.Pv(tree.BestChild(tree.Root, BestChildMostVisits), BestChildMostVisits)
	if len(pv.Pv) < 2 {
		t.Fatalf("Pv too short after search: %v", pv.Pv)
	}

	// Every pv must be playable from the root
	pos := uttt.NewPosition()
	for _, move := range pv.Pv {
		next, err := pos.MakeLegalMove(move)
		if err != nil {
			t.Fatalf("Pv %v is not legal: %v", pv.Pv, err)
		}
		pos = next
	}
	t.Logf("eval %.2f cps %d cycles %d pv %v", tree.RootScore(), tree.Cps(), tree.Cycles(), pv.Pv)
}

func TestSearchMultiThreaded(t *testing.T) {
	tree := searchedTree(t, uttt.NewPosition(), DefaultLimits().SetCycles(4000).SetThreads(4))

	if tree.Cycles() < 4000 {
		t.Fatalf("Cycles=%d, want at least %d", tree.Cycles(), 4000)
	}
	if int(tree.Root.Visits()) != tree.Cycles() {
		t.Errorf("Root visits=%d, cycles=%d", tree.Root.Visits(), tree.Cycles())
	}
	checkVirtualLoss(t, tree.Root)
}

func TestSearchFindsWin(t *testing.T) {
	pos := mustPosition(t, winningPosition)
	tree := searchedTree(t, pos, DefaultLimits().SetCycles(2000).SetMultiPv(3))

	want := uttt.ParseMoveNotation("C3c3")
	best := tree.BestChild(tree.Root, BestChildMostVisits)
	if best == nil || best.Move != want {
		t.Fatalf("Best move=%v, want=%v", best, want)
	}

	lines := tree.MultiPv(BestChildMostVisits)
	if len(lines) != 3 {
		t.Fatalf("MultiPv returned %d lines, want 3", len(lines))
	}
	if !lines[0].Terminal || lines[0].Winner != uttt.X || len(lines[0].Pv) != 1 {
		t.Errorf("First line should be an immediate win, got %+v", lines[0])
	}
	for i := 1; i < len(lines); i++ {
		if lines[i].Root.RealVisits() > lines[i-1].Root.RealVisits() {
			t.Errorf("Lines not ordered by visits at %d", i)
		}
	}
}

func TestSearchStop(t *testing.T) {
	tree := NewMCTS(uttt.NewPosition())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	tree.Search(ctx)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Search didn't stop on context deadline, took %v", elapsed)
	}
	if tree.StopReason()&StopInterrupt == 0 {
		t.Errorf("StopReason=%v, want Interrupt", tree.StopReason())
	}
}

func TestSearchWithListener(t *testing.T) {
	tree := NewMCTS(uttt.NewPosition())
	tree.SetLimits(DefaultLimits().SetCycles(2000))

	depths, cycles, stops := 0, 0, 0
	listener := NewStatsListener()
	listener.
		OnDepth(func(stats ListenerTreeStats) { depths++ }).
		OnCycle(func(stats ListenerTreeStats) { cycles++ }).
		SetCycleInterval(500).
		OnStop(func(stats ListenerTreeStats) {
			stops++
			if stats.StopReason != StopCycles {
				t.Errorf("StopReason=%v, want=%v", stats.StopReason, StopCycles)
			}
			if len(stats.Lines) == 0 {
				t.Error("No lines in the final stats")
			}
		})
	tree.SetListener(listener)
	tree.Search(context.Background())

	if depths == 0 || cycles != 4 || stops != 1 {
		t.Errorf("Listener calls: depth=%d cycle=%d stop=%d", depths, cycles, stops)
	}
}

func TestMakeMove(t *testing.T) {
	tree := searchedTree(t, uttt.NewPosition(), DefaultLimits().SetCycles(3000))

	size := tree.Size()
	best := tree.BestChild(tree.Root, BestChildMostVisits)
	pv := tree.Pv(best, BestChildMostVisits).Pv
	visits := best.Visits()

	if err := tree.MakeMove(pv[0]); err != nil {
		t.Fatal(err)
	}
	if tree.Root.Move != pv[0] || tree.Root.Parent != nil {
		t.Fatalf("Root wasn't moved to the played child: %v", tree.Root)
	}
	if tree.Root.Visits() != visits {
		t.Errorf("Subtree stats lost, visits=%d, want=%d", tree.Root.Visits(), visits)
	}
	if tree.Size() >= size {
		t.Errorf("Tree size not decreased after MakeMove, was %d, now %d", size, tree.Size())
	}
	if tree.Position().Turn != uttt.O {
		t.Errorf("Turn=%v after the first move", tree.Position().Turn)
	}

	newPv := tree.Pv(tree.BestChild(tree.Root, BestChildMostVisits), BestChildMostVisits).Pv
	if len(newPv) == 0 || newPv[0] != pv[1] {
		t.Errorf("Pv after MakeMove=%v, want continuation of %v", newPv, pv)
	}
}

func TestMakeMoveIllegal(t *testing.T) {
	tree := NewMCTS(uttt.NewPosition())
	var moveErr *uttt.InvalidMoveError
	if err := tree.MakeMove(uttt.NullMove); !errors.As(err, &moveErr) {
		t.Fatalf("MakeMove(null) error=%v, want InvalidMoveError", err)
	}
}

func TestBackpropagate(t *testing.T) {
	root := &Node{}
	root.Children = make([]Node, 1)
	child := &root.Children[0]
	child.init(root, uttt.NewMove(0, 0), false)
	child.Children = make([]Node, 1)
	leaf := &child.Children[0]
	leaf.init(child, uttt.NewMove(0, 1), false)

	// Same path as selection would take
	child.AddVvl(VirtualLoss, VirtualLoss)
	leaf.AddVvl(VirtualLoss, VirtualLoss)
	backpropagate(leaf, 1)

	for _, tt := range []struct {
		node *Node
		want Result
	}{
		{leaf, 0},
		{child, 1},
		{root, 0},
	} {
		if tt.node.Visits() != 1 || tt.node.VirtualLoss() != 0 {
			t.Errorf("Node %v: visits=%d vl=%d", tt.node.Move, tt.node.Visits(), tt.node.VirtualLoss())
		}
		if tt.node.Outcomes() != tt.want {
			t.Errorf("Node %v: outcomes=%.3f, want=%.3f", tt.node.Move, tt.node.Outcomes(), tt.want)
		}
	}
}

func TestRollout(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	// X just won, so O (to move) lost
	over := mustPosition(t, "xxx6/9/9/9/x3x3x/9/9/9/xxx6 o 8")
	if got := rollout(over, r); got != 0 {
		t.Errorf("rollout(finished game)=%v, want=0", got)
	}

	for i := 0; i < 50; i++ {
		got := rollout(uttt.NewPosition(), r)
		if got != 0 && got != 0.5 && got != 1 {
			t.Fatalf("rollout returned %v", got)
		}
	}
}

func TestPlayKeepsShortHistory(t *testing.T) {
	pos := uttt.NewPosition()
	for i := 0; i < 5; i++ {
		pos = play(pos, pos.LegalMoves()[0])
		if len(pos.History) != 1 || pos.HistoryIndex != 0 {
			t.Fatalf("History grew to %d entries", len(pos.History))
		}
	}
}

func TestEngineAnalyze(t *testing.T) {
	pos := mustPosition(t, winningPosition)
	engine := NewEngine(WithMovetime(200 * time.Millisecond))

	req := analysis.DefaultLimits().SetMultiPv(2).Request(pos)
	resp, err := engine.Analyze(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Lines) != 2 {
		t.Fatalf("Got %d lines, want 2", len(resp.Lines))
	}
	if err := resp.Verify(pos); err != nil {
		t.Fatalf("Response doesn't replay on the position: %v", err)
	}

	best, _ := resp.Best()
	if best.Pv[0] != "C3c3" || best.Eval != "M1" || best.AbsEval != "M1" {
		t.Errorf("Best line=%+v, want C3c3 M1", best)
	}
	if resp.Nodes == 0 {
		t.Error("Response reports no nodes")
	}
}

func TestEngineAbsEval(t *testing.T) {
	// O to move, O wins with C3c3
	pos := mustPosition(t, "ooo6/ooo6/oo7/9/9/9/9/9/9 o 2")
	engine := NewEngine(WithMovetime(200 * time.Millisecond))

	resp, err := engine.Analyze(context.Background(), analysis.DefaultLimits().Request(pos))
	if err != nil {
		t.Fatal(err)
	}

	best, _ := resp.Best()
	if best.Eval != "M1" || best.AbsEval != "-M1" {
		t.Errorf("Eval=%s AbsEval=%s, want M1 and -M1", best.Eval, best.AbsEval)
	}
}

func TestEngineErrors(t *testing.T) {
	engine := NewEngine(WithMovetime(50 * time.Millisecond))

	over := mustPosition(t, "xxx6/9/9/9/x3x3x/9/9/9/xxx6 o 8")
	if _, err := engine.Analyze(context.Background(), analysis.DefaultLimits().Request(over)); !errors.Is(err, ErrGameOver) {
		t.Errorf("Analyze(finished game) error=%v, want=%v", err, ErrGameOver)
	}

	req := analysis.DefaultLimits().Request(uttt.NewPosition())
	req.Depth = 0
	if _, err := engine.Analyze(context.Background(), req); err == nil {
		t.Error("Analyze accepted an invalid request")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Analyze(ctx, analysis.DefaultLimits().Request(uttt.NewPosition())); !errors.Is(err, context.Canceled) {
		t.Errorf("Analyze(cancelled) error=%v, want=%v", err, context.Canceled)
	}
}
