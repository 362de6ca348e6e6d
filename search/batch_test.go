package search_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/tailored-agentic-units/wayfinder/config"
	"github.com/tailored-agentic-units/wayfinder/graph"
	"github.com/tailored-agentic-units/wayfinder/observability"
	"github.com/tailored-agentic-units/wayfinder/search"
)

// captureObserver records events for assertions. Batch workers emit
// concurrently, so access is locked.
type captureObserver struct {
	mu     sync.Mutex
	events []observability.Event
}

func (c *captureObserver) OnEvent(ctx context.Context, event observability.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureObserver) all() []observability.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]observability.Event(nil), c.events...)
}

func TestFindPaths_OrderedResults(t *testing.T) {
	finder := newStatefulFinder(t, chainGraph(t), config.DefaultFinderConfig("batch"))

	requests := []search.FindRequest{
		{Start: graph.NewNodeState("A", nil), TargetNodeID: "D"},
		{Start: graph.NewNodeState("B", nil), TargetNodeID: "D"},
		{Start: graph.NewNodeState("missing", nil), TargetNodeID: "D"},
		{Start: graph.NewNodeState("C", nil), TargetNodeID: "D"},
	}

	results := search.FindPaths(context.Background(), finder, requests, nil)
	if len(results) != len(requests) {
		t.Fatalf("FindPaths() returned %d results, want %d", len(results), len(requests))
	}

	// Results arrive in request order regardless of completion order.
	wantWeights := []float64{3.0, 2.0, 0, 1.0}
	wantSuccess := []bool{true, true, false, true}
	for i := range requests {
		if results[i].Success != wantSuccess[i] {
			t.Errorf("results[%d].Success = %v, want %v", i, results[i].Success, wantSuccess[i])
		}
		if results[i].Success && results[i].Path.TotalWeight != wantWeights[i] {
			t.Errorf("results[%d].TotalWeight = %g, want %g", i, results[i].Path.TotalWeight, wantWeights[i])
		}
	}

	// A failed request is a result, not an error, with its reason intact.
	if results[2].Reason != search.ReasonUnknownStart {
		t.Errorf("results[2].Reason = %q, want %q", results[2].Reason, search.ReasonUnknownStart)
	}
}

func TestFindPaths_ReportsProgress(t *testing.T) {
	finder := newStatefulFinder(t, chainGraph(t), config.DefaultFinderConfig("progress"))

	requests := []search.FindRequest{
		{Start: graph.NewNodeState("A", nil), TargetNodeID: "D"},
		{Start: graph.NewNodeState("B", nil), TargetNodeID: "D"},
		{Start: graph.NewNodeState("C", nil), TargetNodeID: "D"},
	}

	var calls atomic.Int32
	var sawTotal atomic.Int32
	results := search.FindPaths(context.Background(), finder, requests, func(completed, total int) {
		calls.Add(1)
		if completed == total {
			sawTotal.Add(1)
		}
	})

	if len(results) != 3 {
		t.Fatalf("FindPaths() returned %d results, want 3", len(results))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("progress called %d times, want 3", got)
	}
	if sawTotal.Load() != 1 {
		t.Error("progress never reported full completion")
	}
}

func TestFindPaths_EmptyBatch(t *testing.T) {
	finder := newStatefulFinder(t, chainGraph(t), config.DefaultFinderConfig("empty"))

	results := search.FindPaths(context.Background(), finder, nil, nil)
	if len(results) != 0 {
		t.Errorf("FindPaths() on empty batch returned %d results", len(results))
	}
}

func TestFindPaths_EmitsBatchEvents(t *testing.T) {
	capture := &captureObserver{}
	finder := search.NewStatefulPathFinderWithDeps(chainGraph(t), config.DefaultFinderConfig("batch-events"), capture)

	requests := []search.FindRequest{
		{Start: graph.NewNodeState("A", nil), TargetNodeID: "D"},
		{Start: graph.NewNodeState("B", nil), TargetNodeID: "D"},
	}
	search.FindPaths(context.Background(), finder, requests, nil)

	counts := make(map[observability.EventType]int)
	for _, event := range capture.all() {
		counts[event.Type]++
	}

	if counts[search.EventBatchStart] != 1 {
		t.Errorf("batch start events = %d, want 1", counts[search.EventBatchStart])
	}
	if counts[search.EventBatchComplete] != 1 {
		t.Errorf("batch complete events = %d, want 1", counts[search.EventBatchComplete])
	}
	if counts[search.EventWorkerDone] != len(requests) {
		t.Errorf("worker done events = %d, want %d", counts[search.EventWorkerDone], len(requests))
	}
}

func TestCompareStrategies(t *testing.T) {
	finder := newStatefulFinder(t, chainGraph(t), config.DefaultFinderConfig("compare"))

	dijkstra, backtracking := search.CompareStrategies(
		context.Background(), finder, graph.NewNodeState("A", nil), "D", search.Options{})

	if !dijkstra.Success || !backtracking.Success {
		t.Fatalf("strategies failed: dijkstra=%v backtracking=%v", dijkstra.Success, backtracking.Success)
	}
	if dijkstra.Stats.Algorithm != search.AlgorithmDijkstraStates {
		t.Errorf("first result algorithm = %q, want %q", dijkstra.Stats.Algorithm, search.AlgorithmDijkstraStates)
	}
	if backtracking.Stats.Algorithm != search.AlgorithmBacktracking {
		t.Errorf("second result algorithm = %q, want %q", backtracking.Stats.Algorithm, search.AlgorithmBacktracking)
	}
	if dijkstra.Path.TotalWeight != backtracking.Path.TotalWeight {
		t.Errorf("strategies disagree on weight: %g vs %g", dijkstra.Path.TotalWeight, backtracking.Path.TotalWeight)
	}
}
