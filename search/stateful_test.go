package search_test

import (
	"context"
	"testing"

	"github.com/tailored-agentic-units/wayfinder/config"
	"github.com/tailored-agentic-units/wayfinder/graph"
	"github.com/tailored-agentic-units/wayfinder/observability"
	"github.com/tailored-agentic-units/wayfinder/search"
)

func newStatefulFinder(t *testing.T, g *graph.StatefulGraph, cfg config.FinderConfig) *search.StatefulPathFinder {
	t.Helper()
	return search.NewStatefulPathFinderWithDeps(g, cfg, observability.NoOpObserver{})
}

// chainGraph builds A -> B -> C -> D where each edge stamps its step number.
func chainGraph(t *testing.T) *graph.StatefulGraph {
	t.Helper()

	g, err := graph.NewBuilder().
		Node("A", "A").Node("B", "B").Node("C", "C").Node("D", "D").
		Edge("A", "B", "advance", 1.0, graph.Set("step", 1)).
		Edge("B", "C", "advance", 1.0, graph.Set("step", 2)).
		Edge("C", "D", "advance", 1.0, graph.Set("step", 3)).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return g
}

func TestStatefulPathFinder_ChainAccumulatesState(t *testing.T) {
	finder := newStatefulFinder(t, chainGraph(t), config.DefaultFinderConfig("chain"))

	result := finder.FindPath(context.Background(), graph.NewNodeState("A", nil), "D", search.Options{})
	if !result.Success {
		t.Fatalf("FindPath() failed: %s", result.Message)
	}

	if result.Path.Len() != 4 || len(result.Path.Edges) != 3 {
		t.Errorf("path = %d states %d edges, want 4 states 3 edges", result.Path.Len(), len(result.Path.Edges))
	}
	if result.Path.TotalWeight != 3.0 {
		t.Errorf("TotalWeight = %g, want 3.0", result.Path.TotalWeight)
	}

	endState, ok := result.Path.EndState()
	if !ok {
		t.Fatal("EndState() reported no states")
	}
	if step, _ := endState.GetInt("step"); step != 3 {
		t.Errorf("end state step = %d, want 3", step)
	}

	// Intermediate states record the transform history.
	if step, _ := result.Path.States[1].GetInt("step"); step != 1 {
		t.Errorf("States[1] step = %d, want 1", step)
	}
	if step, _ := result.Path.States[2].GetInt("step"); step != 2 {
		t.Errorf("States[2] step = %d, want 2", step)
	}

	if !result.Path.IsValid() {
		t.Error("IsValid() = false for a search-produced path")
	}
	if result.Path.HasStateConflicts() {
		t.Error("HasStateConflicts() = true for a cycle-free path")
	}
	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	if result.Stats.Algorithm != search.AlgorithmDijkstraStates {
		t.Errorf("Algorithm = %q, want %q", result.Stats.Algorithm, search.AlgorithmDijkstraStates)
	}
}

func TestStatefulPathFinder_ConditionGatedEdge(t *testing.T) {
	g, err := graph.NewBuilder().
		Node("hall", "Hallway").Node("vault", "Vault").
		Edge("hall", "vault", "unlock", 1.0, graph.Set("open", true), "hasKey").
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	finder := newStatefulFinder(t, g, config.DefaultFinderConfig("vault"))
	start := graph.NewNodeState("hall", nil)

	blocked := finder.FindPath(context.Background(), start, "vault", search.Options{})
	if blocked.Success {
		t.Error("FindPath() succeeded without the required condition")
	}
	if blocked.Reason != search.ReasonExhausted {
		t.Errorf("Reason = %q, want %q", blocked.Reason, search.ReasonExhausted)
	}

	allowed := finder.FindPath(context.Background(), start, "vault", search.Options{
		Conditions: graph.NewConditionSet("hasKey"),
	})
	if !allowed.Success {
		t.Fatalf("FindPath() failed with the condition held: %s", allowed.Message)
	}
	endState, _ := allowed.Path.EndState()
	if open, _ := endState.GetBool("open"); !open {
		t.Error("transform did not record the unlock in the end state")
	}
}

func TestStatefulPathFinder_EqualWeightPrefersLatestDiscovered(t *testing.T) {
	// The direct A -> C edge (weight 2) is added before the two-hop route via
	// B (1 + 1). All transforms are identity, so both routes reach the same
	// state at C with equal cumulative weight; the route discovered later
	// must win the tie.
	g, err := graph.NewBuilder().
		Node("A", "A").Node("B", "B").Node("C", "C").
		Edge("A", "C", "direct", 2.0, nil).
		Edge("A", "B", "walk", 1.0, nil).
		Edge("B", "C", "walk", 1.0, nil).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	finder := newStatefulFinder(t, g, config.DefaultFinderConfig("tiebreak"))

	result := finder.FindPath(context.Background(), graph.NewNodeState("A", nil), "C", search.Options{})
	if !result.Success {
		t.Fatalf("FindPath() failed: %s", result.Message)
	}
	if result.Path.TotalWeight != 2.0 {
		t.Errorf("TotalWeight = %g, want 2.0", result.Path.TotalWeight)
	}
	if result.Path.Len() != 3 {
		t.Fatalf("path has %d states, want 3 (via B)", result.Path.Len())
	}
	if result.Path.States[1].NodeID != "B" {
		t.Errorf("intermediate node = %s, want B", result.Path.States[1].NodeID)
	}
}

func TestStatefulPathFinder_StartEqualsTarget(t *testing.T) {
	finder := newStatefulFinder(t, chainGraph(t), config.DefaultFinderConfig("trivial"))
	start := graph.NewNodeState("A", map[string]any{"inventory": "torch"})

	// The target predicate must not be evaluated for the degenerate case.
	result := finder.FindPath(context.Background(), start, "A", search.Options{
		TargetPredicate: func(state graph.NodeState) bool {
			t.Error("target predicate evaluated for start == target")
			return false
		},
	})
	if !result.Success {
		t.Fatalf("trivial search failed: %s", result.Message)
	}
	if !result.Path.IsSingleState() {
		t.Error("IsSingleState() = false")
	}
	if result.Path.TotalWeight != 0 {
		t.Errorf("TotalWeight = %g, want 0", result.Path.TotalWeight)
	}
	if result.Message != "start and target are the same node" {
		t.Errorf("Message = %q", result.Message)
	}

	endState, _ := result.Path.EndState()
	if inv, _ := endState.GetString("inventory"); inv != "torch" {
		t.Error("trivial path lost the start state's variables")
	}
}

func TestStatefulPathFinder_FailureReasons(t *testing.T) {
	finder := newStatefulFinder(t, chainGraph(t), config.DefaultFinderConfig("failures"))
	ctx := context.Background()

	tests := []struct {
		name       string
		start      graph.NodeState
		target     string
		opts       search.Options
		wantReason search.FailureReason
	}{
		{
			name:       "unknown start node",
			start:      graph.NewNodeState("missing", nil),
			target:     "D",
			wantReason: search.ReasonUnknownStart,
		},
		{
			name:       "unknown target node",
			start:      graph.NewNodeState("A", nil),
			target:     "missing",
			wantReason: search.ReasonUnknownTarget,
		},
		{
			name:       "distance bound too tight",
			start:      graph.NewNodeState("A", nil),
			target:     "D",
			opts:       search.Options{MaxDistance: 2.0},
			wantReason: search.ReasonDistanceExceeded,
		},
		{
			name:       "no route backwards",
			start:      graph.NewNodeState("D", nil),
			target:     "A",
			wantReason: search.ReasonExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := finder.FindPath(ctx, tt.start, tt.target, tt.opts)
			if result.Success {
				t.Fatal("FindPath() unexpectedly succeeded")
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if result.Message == "" {
				t.Error("failure result carries no message")
			}
			if result.RunID == "" {
				t.Error("failure result carries no run id")
			}
		})
	}
}

func TestStatefulPathFinder_TargetPredicate(t *testing.T) {
	finder := newStatefulFinder(t, chainGraph(t), config.DefaultFinderConfig("predicate"))
	ctx := context.Background()
	start := graph.NewNodeState("A", nil)

	accepted := finder.FindPath(ctx, start, "D", search.Options{
		TargetPredicate: graph.KeyEquals("step", 3),
	})
	if !accepted.Success {
		t.Errorf("FindPath() with satisfiable predicate failed: %s", accepted.Message)
	}

	rejected := finder.FindPath(ctx, start, "D", search.Options{
		TargetPredicate: graph.KeyEquals("step", 99),
	})
	if rejected.Success {
		t.Error("FindPath() succeeded despite an unsatisfiable target predicate")
	}
	if rejected.Reason != search.ReasonExhausted {
		t.Errorf("Reason = %q, want %q", rejected.Reason, search.ReasonExhausted)
	}
}

func TestStatefulPathFinder_InapplicableTransformSkipsEdge(t *testing.T) {
	// The cheap route's transform cannot apply, so the search must fall back
	// to the expensive unconditional route instead of failing.
	g, err := graph.NewBuilder().
		Node("A", "A").Node("B", "B").
		Edge("A", "B", "ritual", 1.0, graph.ConditionalSet(graph.KeyExists("sigil"), "done", true)).
		Edge("A", "B", "march", 5.0, nil).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	finder := newStatefulFinder(t, g, config.DefaultFinderConfig("fallback"))

	result := finder.FindPath(context.Background(), graph.NewNodeState("A", nil), "B", search.Options{})
	if !result.Success {
		t.Fatalf("FindPath() failed: %s", result.Message)
	}
	if got := result.Path.Actions(); len(got) != 1 || got[0] != "march" {
		t.Errorf("Actions() = %v, want [march]", got)
	}
}

func TestStatefulPathFinder_Cancellation(t *testing.T) {
	finder := newStatefulFinder(t, chainGraph(t), config.DefaultFinderConfig("cancel"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := finder.FindPath(ctx, graph.NewNodeState("A", nil), "D", search.Options{})
	if result.Success {
		t.Fatal("FindPath() succeeded with a cancelled context")
	}
	if result.Reason != search.ReasonCancelled {
		t.Errorf("Reason = %q, want %q", result.Reason, search.ReasonCancelled)
	}
}

// cycleGraph builds a loop that must be traversed repeatedly to accumulate
// a counter before the exit unlocks:
//
//	start --enter--> loop
//	loop --lap--> loop        (count + 1)
//	loop --exit--> goal       (requires count >= 3, sets done)
func cycleGraph(t *testing.T) *graph.StatefulGraph {
	t.Helper()

	increment := graph.Compute("count", func(s graph.NodeState) (any, bool) {
		count, _ := s.GetInt("count")
		return count + 1, true
	})
	atLeastThree := func(s graph.NodeState) bool {
		count, _ := s.GetInt("count")
		return count >= 3
	}

	g, err := graph.NewBuilder().
		Node("start", "Start").Node("loop", "Loop").Node("goal", "Goal").
		Edge("start", "loop", "enter", 1.0, graph.Set("count", 0)).
		Edge("loop", "loop", "lap", 1.0, increment).
		Edge("loop", "goal", "exit", 1.0, graph.ConditionalSet(atLeastThree, "done", true)).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return g
}

func TestStatefulPathFinder_Backtracking_AccumulatingCycle(t *testing.T) {
	cfg := config.DefaultFinderConfig("cycle")
	cfg.MaxVisitsPerNode = 4
	finder := newStatefulFinder(t, cycleGraph(t), cfg)

	result := finder.FindPath(context.Background(), graph.NewNodeState("start", nil), "goal", search.Options{
		EnableBacktrack: true,
		TargetPredicate: graph.KeyEquals("done", true),
	})
	if !result.Success {
		t.Fatalf("FindPath() failed: %s", result.Message)
	}
	if result.Stats.Algorithm != search.AlgorithmBacktracking {
		t.Errorf("Algorithm = %q, want %q", result.Stats.Algorithm, search.AlgorithmBacktracking)
	}

	// enter + three laps + exit.
	if result.Path.TotalWeight != 5.0 {
		t.Errorf("TotalWeight = %g, want 5.0", result.Path.TotalWeight)
	}
	if result.Path.Len() != 6 {
		t.Errorf("path has %d states, want 6", result.Path.Len())
	}

	endState, _ := result.Path.EndState()
	if count, _ := endState.GetInt("count"); count != 3 {
		t.Errorf("end state count = %d, want 3", count)
	}
	if done, _ := endState.GetBool("done"); !done {
		t.Error("end state done = false")
	}

	if result.BacktrackCount == 0 {
		t.Error("BacktrackCount = 0, want discarded frames from the failed shallow exits")
	}
	if !result.Path.IsValid() {
		t.Error("IsValid() = false for a backtracking-produced path")
	}
}

func TestStatefulPathFinder_Backtracking_CollectsAlternatives(t *testing.T) {
	cfg := config.DefaultFinderConfig("alts")
	cfg.MaxVisitsPerNode = 6
	cfg.MaxAlternatives = 3
	finder := newStatefulFinder(t, cycleGraph(t), cfg)

	result := finder.FindPath(context.Background(), graph.NewNodeState("start", nil), "goal", search.Options{
		EnableBacktrack: true,
	})
	if !result.Success {
		t.Fatalf("FindPath() failed: %s", result.Message)
	}
	if len(result.AlternativePaths) != 2 {
		t.Fatalf("collected %d alternatives, want 2", len(result.AlternativePaths))
	}

	// The cheapest collected path wins; alternatives ascend in weight.
	previous := result.Path.TotalWeight
	for i, alt := range result.AlternativePaths {
		if alt.TotalWeight < previous {
			t.Errorf("AlternativePaths[%d].TotalWeight = %g, out of order", i, alt.TotalWeight)
		}
		previous = alt.TotalWeight
	}
}

func TestStatefulPathFinder_Backtracking_FindsOptimumAmongManyRoutes(t *testing.T) {
	// Five parallel routes, more than the alternatives cap, with the cheap
	// one authored last. The DFS encounters the expensive routes first and
	// must keep exploring past them instead of settling for the first
	// complete paths it collects.
	b := graph.NewBuilder().Node("S", "Start").Node("T", "Target")
	for _, via := range []string{"A1", "A2", "A3", "A4"} {
		b.Node(via, via).
			Edge("S", via, "detour", 10.0, nil).
			Edge(via, "T", "arrive", 1.0, nil)
	}
	g, err := b.Node("A5", "A5").
		Edge("S", "A5", "shortcut", 1.0, nil).
		Edge("A5", "T", "arrive", 1.0, nil).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	cfg := config.DefaultFinderConfig("routes")
	cfg.MaxAlternatives = 2
	finder := newStatefulFinder(t, g, cfg)

	ctx := context.Background()
	start := graph.NewNodeState("S", nil)

	dijkstra, backtracking := search.CompareStrategies(ctx, finder, start, "T", search.Options{})
	if !dijkstra.Success || !backtracking.Success {
		t.Fatalf("strategies failed: dijkstra=%v backtracking=%v", dijkstra.Success, backtracking.Success)
	}
	if backtracking.Path.TotalWeight != 2.0 {
		t.Errorf("backtracking TotalWeight = %g, want 2.0 via the last-authored route", backtracking.Path.TotalWeight)
	}
	if dijkstra.Path.TotalWeight != backtracking.Path.TotalWeight {
		t.Errorf("strategies disagree on weight: dijkstra %g, backtracking %g",
			dijkstra.Path.TotalWeight, backtracking.Path.TotalWeight)
	}
	if backtracking.Path.States[1].NodeID != "A5" {
		t.Errorf("intermediate node = %s, want A5", backtracking.Path.States[1].NodeID)
	}

	// The cap bounds reported alternatives, not exploration.
	if len(backtracking.AlternativePaths) > 2 {
		t.Errorf("reported %d alternatives, want at most 2", len(backtracking.AlternativePaths))
	}
	for _, alt := range backtracking.AlternativePaths {
		if alt.TotalWeight < backtracking.Path.TotalWeight {
			t.Errorf("alternative weight %g undercuts the result path", alt.TotalWeight)
		}
	}
}

func TestStatefulPathFinder_StrategiesAgreeOnWeight(t *testing.T) {
	cfg := config.DefaultFinderConfig("agree")
	cfg.MaxVisitsPerNode = 4
	finder := newStatefulFinder(t, cycleGraph(t), cfg)

	ctx := context.Background()
	start := graph.NewNodeState("start", nil)
	opts := search.Options{TargetPredicate: graph.KeyEquals("done", true)}

	dijkstra, backtracking := search.CompareStrategies(ctx, finder, start, "goal", opts)
	if !dijkstra.Success {
		t.Fatalf("dijkstra failed: %s", dijkstra.Message)
	}
	if !backtracking.Success {
		t.Fatalf("backtracking failed: %s", backtracking.Message)
	}
	if dijkstra.Path.TotalWeight != backtracking.Path.TotalWeight {
		t.Errorf("strategies disagree on weight: dijkstra %g, backtracking %g",
			dijkstra.Path.TotalWeight, backtracking.Path.TotalWeight)
	}
	if dijkstra.BacktrackCount != 0 {
		t.Errorf("dijkstra BacktrackCount = %d, want 0", dijkstra.BacktrackCount)
	}
}

func TestStatefulPathFinder_EmitsLifecycleEvents(t *testing.T) {
	capture := &captureObserver{}
	finder := search.NewStatefulPathFinderWithDeps(chainGraph(t), config.DefaultFinderConfig("events"), capture)

	result := finder.FindPath(context.Background(), graph.NewNodeState("A", nil), "D", search.Options{})
	if !result.Success {
		t.Fatalf("FindPath() failed: %s", result.Message)
	}

	var sawStart, sawComplete bool
	for _, event := range capture.all() {
		switch event.Type {
		case search.EventSearchStart:
			sawStart = true
			if event.Data["run_id"] != result.RunID {
				t.Errorf("start event run_id = %v, want %s", event.Data["run_id"], result.RunID)
			}
		case search.EventSearchComplete:
			sawComplete = true
			if event.Data["success"] != true {
				t.Error("complete event success = false")
			}
		}
	}
	if !sawStart || !sawComplete {
		t.Errorf("lifecycle events missing: start=%v complete=%v", sawStart, sawComplete)
	}
}

func TestNewStatefulPathFinder_ResolvesObserver(t *testing.T) {
	g := chainGraph(t)

	cfg := config.DefaultFinderConfig("resolve")
	cfg.Observer = "noop"
	if _, err := search.NewStatefulPathFinder(g, cfg); err != nil {
		t.Errorf("NewStatefulPathFinder() with noop observer failed: %v", err)
	}

	cfg.Observer = "no-such-observer"
	if _, err := search.NewStatefulPathFinder(g, cfg); err == nil {
		t.Error("NewStatefulPathFinder() accepted an unknown observer name")
	}
}
