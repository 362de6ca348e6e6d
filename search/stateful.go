package search

import (
	"container/heap"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/wayfinder/config"
	"github.com/tailored-agentic-units/wayfinder/graph"
	"github.com/tailored-agentic-units/wayfinder/observability"
)

// Options parameterizes a single stateful search call.
type Options struct {
	// Conditions are the capability tokens the searcher currently holds
	Conditions graph.ConditionSet

	// MaxDistance prunes candidates whose cumulative weight exceeds it;
	// 0 means no bound
	MaxDistance float64

	// TargetPredicate is an optional extra acceptance test evaluated against
	// states located at the target node; nil accepts any target state
	TargetPredicate graph.StatePredicate

	// EnableBacktrack selects the backtracking depth-first strategy instead
	// of Dijkstra-over-states
	EnableBacktrack bool
}

// StatefulPathFinder searches a StatefulGraph over full node states: the
// search space is the cross-product of graph nodes and variable bag contents,
// not node identity alone.
//
// A finder holds no mutable state between calls. The graph must be fully
// built before searches begin; after that, concurrent FindPath calls over the
// same finder are safe, each operating on its own private frontier or stack.
type StatefulPathFinder struct {
	graph            *graph.StatefulGraph
	name             string
	observer         observability.Observer
	maxVisitsPerNode int
	maxAlternatives  int
}

// NewStatefulPathFinder creates a finder for the given graph, resolving the
// observer named in the configuration through the observability registry.
//
// Example:
//
//	cfg := config.DefaultFinderConfig("quest")
//	cfg.Observer = "noop"
//	finder, err := search.NewStatefulPathFinder(g, cfg)
func NewStatefulPathFinder(g *graph.StatefulGraph, cfg config.FinderConfig) (*StatefulPathFinder, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	return newStatefulFinder(g, cfg, observer), nil
}

// NewStatefulPathFinderWithDeps creates a finder with an explicit observer,
// bypassing the registry. A nil observer falls back to NoOpObserver.
func NewStatefulPathFinderWithDeps(g *graph.StatefulGraph, cfg config.FinderConfig, observer observability.Observer) *StatefulPathFinder {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	return newStatefulFinder(g, cfg, observer)
}

func newStatefulFinder(g *graph.StatefulGraph, cfg config.FinderConfig, observer observability.Observer) *StatefulPathFinder {
	maxVisits := cfg.MaxVisitsPerNode
	if maxVisits <= 0 {
		maxVisits = config.DefaultFinderConfig(cfg.Name).MaxVisitsPerNode
	}
	maxAlternatives := cfg.MaxAlternatives
	if maxAlternatives <= 0 {
		maxAlternatives = config.DefaultFinderConfig(cfg.Name).MaxAlternatives
	}

	return &StatefulPathFinder{
		graph:            g,
		name:             cfg.Name,
		observer:         observer,
		maxVisitsPerNode: maxVisits,
		maxAlternatives:  maxAlternatives,
	}
}

// FindPath searches for a minimum-cost action sequence from the start state
// to the target node.
//
// The strategy is selected per call: Dijkstra-over-states by default, the
// backtracking depth-first search when opts.EnableBacktrack is set. Both
// share this contract:
//
//   - An unknown start or target node fails immediately with a distinct
//     reason.
//   - When the start state is already located at the target node the search
//     succeeds trivially with a single-state path; the target predicate is
//     not evaluated for this degenerate case, and the message makes the
//     short-circuit recognizable.
//   - A transform that is inapplicable makes the edge untraversable in that
//     state; the search continues with other candidates.
//   - Cancellation of ctx is checked inside the expansion loop.
func (f *StatefulPathFinder) FindPath(ctx context.Context, start graph.NodeState, targetNodeID string, opts Options) StatefulPathResult {
	began := time.Now()
	runID := uuid.New().String()

	algorithm := AlgorithmDijkstraStates
	if opts.EnableBacktrack {
		algorithm = AlgorithmBacktracking
	}
	stats := SearchStats{Algorithm: algorithm}

	f.observer.OnEvent(ctx, observability.Event{
		Type:      EventSearchStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    f.name,
		Data: map[string]any{
			"run_id":        runID,
			"algorithm":     algorithm,
			"start":         start.NodeID,
			"target":        targetNodeID,
			"max_distance":  opts.MaxDistance,
			"has_predicate": opts.TargetPredicate != nil,
		},
	})

	if !f.graph.HasNode(start.NodeID) {
		return f.finish(ctx, runID, statefulFailure(runID, ReasonUnknownStart,
			fmt.Sprintf("start node %s does not exist", start.NodeID), stats, began))
	}
	if !f.graph.HasNode(targetNodeID) {
		return f.finish(ctx, runID, statefulFailure(runID, ReasonUnknownTarget,
			fmt.Sprintf("target node %s does not exist", targetNodeID), stats, began))
	}

	if start.NodeID == targetNodeID {
		path, _ := graph.NewStatefulPath([]graph.NodeState{start}, nil)
		return f.finish(ctx, runID, StatefulPathResult{
			Success: true,
			Path:    path,
			Message: "start and target are the same node",
			Stats:   statsWithDuration(stats, began),
			RunID:   runID,
		})
	}

	if opts.EnableBacktrack {
		return f.finish(ctx, runID, f.backtrack(ctx, runID, start, targetNodeID, opts, stats, began))
	}
	return f.finish(ctx, runID, f.dijkstraStates(ctx, runID, start, targetNodeID, opts, stats, began))
}

// parentLink records how a state on the frontier was reached, for path
// reconstruction via parent pointers keyed by state identity.
type parentLink struct {
	fromKey string
	edge    graph.StatefulEdge
	state   graph.NodeState
}

// dijkstraStates is the pure shortest-path strategy. The frontier holds
// (NodeState, cumulative weight) pairs; the visited check is keyed by full
// state value, never node id alone, because the same node reached via two
// different variable histories is a genuinely different search state.
//
// Tie-break is pinned for determinism: edges are considered in insertion
// order, equal-priority frontier entries pop in insertion order, and on equal
// cumulative weight the most recently discovered predecessor wins.
func (f *StatefulPathFinder) dijkstraStates(ctx context.Context, runID string, start graph.NodeState, targetNodeID string, opts Options, stats SearchStats, began time.Time) StatefulPathResult {
	startKey := start.Key()
	dist := map[string]float64{startKey: 0}
	parents := make(map[string]parentLink)
	origins := map[string]graph.NodeState{startKey: start}
	settled := make(map[string]bool)
	pruned := 0
	seq := 0

	pq := &frontier{}
	heap.Init(pq)
	heap.Push(pq, frontierItem{state: start, stateKey: startKey, weight: 0, priority: 0, seq: seq})

	for pq.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return statefulFailure(runID, ReasonCancelled,
				fmt.Sprintf("search cancelled: %v", err), stats, began)
		}

		item := heap.Pop(pq).(frontierItem)
		if settled[item.stateKey] {
			continue
		}
		settled[item.stateKey] = true
		stats.VisitedNodes++

		f.observer.OnEvent(ctx, observability.Event{
			Type:      EventStateExpand,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    f.name,
			Data: map[string]any{
				"run_id": runID,
				"node":   item.state.NodeID,
				"weight": item.weight,
			},
		})

		if item.state.NodeID == targetNodeID && (opts.TargetPredicate == nil || opts.TargetPredicate(item.state)) {
			path, err := f.reconstructStates(startKey, item.stateKey, parents, origins)
			if err != nil {
				return statefulFailure(runID, ReasonExhausted, err.Error(), stats, began)
			}
			return StatefulPathResult{
				Success: true,
				Path:    path,
				Message: fmt.Sprintf("found path with %d states (total weight %g)", path.Len(), path.TotalWeight),
				Stats:   statsWithDuration(stats, began),
				RunID:   runID,
			}
		}

		for _, edge := range f.graph.ValidOutgoingEdges(item.state, opts.Conditions) {
			stats.ExploredEdges++

			next, ok := edge.ApplyTransform(item.state, opts.Conditions)
			if !ok {
				f.observer.OnEvent(ctx, observability.Event{
					Type:      EventTransformReject,
					Level:     observability.LevelVerbose,
					Timestamp: time.Now(),
					Source:    f.name,
					Data: map[string]any{
						"run_id": runID,
						"from":   edge.From,
						"to":     edge.To,
						"action": edge.Action,
					},
				})
				continue
			}

			weight := item.weight + edge.Weight
			if opts.MaxDistance > 0 && weight > opts.MaxDistance {
				pruned++
				f.observer.OnEvent(ctx, observability.Event{
					Type:      EventDistancePrune,
					Level:     observability.LevelVerbose,
					Timestamp: time.Now(),
					Source:    f.name,
					Data: map[string]any{
						"run_id": runID,
						"node":   next.NodeID,
						"weight": weight,
					},
				})
				continue
			}

			key := next.Key()
			if settled[key] {
				continue
			}
			// Keep the latest-discovered predecessor on equal weight; only a
			// strictly cheaper known distance rejects the candidate.
			if known, seen := dist[key]; seen && known < weight {
				continue
			}

			dist[key] = weight
			parents[key] = parentLink{fromKey: item.stateKey, edge: edge, state: next}
			origins[key] = next
			seq++
			heap.Push(pq, frontierItem{state: next, stateKey: key, weight: weight, priority: weight, seq: seq})
		}
	}

	if pruned > 0 {
		return statefulFailure(runID, ReasonDistanceExceeded,
			fmt.Sprintf("no path from %s to %s within maximum distance %g", start.NodeID, targetNodeID, opts.MaxDistance), stats, began)
	}
	return statefulFailure(runID, ReasonExhausted,
		fmt.Sprintf("no path found from %s to %s", start.NodeID, targetNodeID), stats, began)
}

func (f *StatefulPathFinder) reconstructStates(startKey, goalKey string, parents map[string]parentLink, origins map[string]graph.NodeState) (graph.StatefulPath, error) {
	var states []graph.NodeState
	var edges []graph.StatefulEdge

	key := goalKey
	for key != startKey {
		link, exists := parents[key]
		if !exists {
			return graph.StatefulPath{}, fmt.Errorf("broken parent chain at state %s", key)
		}
		states = append(states, link.state)
		edges = append(edges, link.edge)
		key = link.fromKey
	}
	states = append(states, origins[startKey])

	// Reverse into forward order.
	for i, j := 0, len(states)-1; i < j; i, j = i+1, j-1 {
		states[i], states[j] = states[j], states[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	return graph.NewStatefulPath(states, edges)
}

func (f *StatefulPathFinder) finish(ctx context.Context, runID string, result StatefulPathResult) StatefulPathResult {
	f.observer.OnEvent(ctx, observability.Event{
		Type:      EventSearchComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    f.name,
		Data: map[string]any{
			"run_id":         runID,
			"success":        result.Success,
			"reason":         string(result.Reason),
			"visited_nodes":  result.Stats.VisitedNodes,
			"explored_edges": result.Stats.ExploredEdges,
			"backtracks":     result.BacktrackCount,
			"alternatives":   len(result.AlternativePaths),
			"duration_ms":    result.Stats.Duration.Milliseconds(),
		},
	})
	return result
}

func statefulFailure(runID string, reason FailureReason, message string, stats SearchStats, began time.Time) StatefulPathResult {
	return StatefulPathResult{
		Reason:  reason,
		Message: message,
		Stats:   statsWithDuration(stats, began),
		RunID:   runID,
	}
}
