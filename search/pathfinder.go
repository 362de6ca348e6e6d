package search

import (
	"container/heap"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/wayfinder/config"
	"github.com/tailored-agentic-units/wayfinder/graph"
	"github.com/tailored-agentic-units/wayfinder/observability"
)

// HeuristicFunc estimates the remaining cost from a node to the target.
// The engine does not enforce admissibility: a heuristic that overestimates
// may produce suboptimal paths, and supplying one that does not overestimate
// is the caller's responsibility when optimality is required.
type HeuristicFunc func(nodeID string) float64

// PathFinder searches a stateless Graph over plain node identities.
//
// A PathFinder holds no mutable state between calls; concurrent searches over
// the same graph are safe.
type PathFinder struct {
	graph    *graph.Graph
	name     string
	observer observability.Observer
}

// NewPathFinder creates a finder for the given graph, resolving the observer
// named in the configuration through the observability registry.
func NewPathFinder(g *graph.Graph, cfg config.FinderConfig) (*PathFinder, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	return &PathFinder{graph: g, name: cfg.Name, observer: observer}, nil
}

// NewPathFinderWithDeps creates a finder with an explicit observer, bypassing
// the registry. A nil observer falls back to NoOpObserver.
func NewPathFinderWithDeps(g *graph.Graph, cfg config.FinderConfig, observer observability.Observer) *PathFinder {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	return &PathFinder{graph: g, name: cfg.Name, observer: observer}
}

// FindShortestPath runs Dijkstra's algorithm from start to end over edges
// whose required conditions are contained in available. A node is settled the
// first time it is popped from the frontier. maxDistance prunes candidates
// whose cumulative weight exceeds it; pass 0 for no bound.
func (f *PathFinder) FindShortestPath(ctx context.Context, start, end string, available graph.ConditionSet, maxDistance float64) PathResult {
	return f.search(ctx, start, end, available, maxDistance, nil, AlgorithmDijkstra)
}

// FindPathWithHeuristic runs the same search with frontier priority
// g(n) + heuristic(n).
func (f *PathFinder) FindPathWithHeuristic(ctx context.Context, start, end string, available graph.ConditionSet, heuristic HeuristicFunc, maxDistance float64) PathResult {
	if heuristic == nil {
		return f.search(ctx, start, end, available, maxDistance, nil, AlgorithmDijkstra)
	}
	return f.search(ctx, start, end, available, maxDistance, heuristic, AlgorithmHeuristic)
}

func (f *PathFinder) search(ctx context.Context, start, end string, available graph.ConditionSet, maxDistance float64, heuristic HeuristicFunc, algorithm string) PathResult {
	began := time.Now()
	runID := uuid.New().String()
	stats := SearchStats{Algorithm: algorithm}

	f.emitStart(ctx, runID, algorithm, start, end)

	if !f.graph.HasNode(start) {
		return f.finish(ctx, runID, failureResult(ReasonUnknownStart,
			fmt.Sprintf("start node %s does not exist", start), stats, began))
	}
	if !f.graph.HasNode(end) {
		return f.finish(ctx, runID, failureResult(ReasonUnknownTarget,
			fmt.Sprintf("target node %s does not exist", end), stats, began))
	}

	if start == end {
		path, _ := graph.NewPath([]string{start}, nil)
		return f.finish(ctx, runID, PathResult{
			Success: true,
			Path:    path,
			Message: "start and target are the same node",
			Stats:   statsWithDuration(stats, began),
		})
	}

	dist := map[string]float64{start: 0}
	parent := make(map[string]graph.Edge)
	settled := make(map[string]bool)
	pruned := 0
	seq := 0

	pq := &frontier{}
	heap.Init(pq)
	heap.Push(pq, frontierItem{nodeID: start, weight: 0, priority: initialPriority(start, heuristic), seq: seq})

	for pq.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return f.finish(ctx, runID, failureResult(ReasonCancelled,
				fmt.Sprintf("search cancelled: %v", err), stats, began))
		}

		item := heap.Pop(pq).(frontierItem)
		if settled[item.nodeID] {
			continue
		}
		settled[item.nodeID] = true
		stats.VisitedNodes++

		if item.nodeID == end {
			path, err := f.reconstruct(start, end, parent)
			if err != nil {
				return f.finish(ctx, runID, failureResult(ReasonExhausted, err.Error(), stats, began))
			}
			return f.finish(ctx, runID, PathResult{
				Success: true,
				Path:    path,
				Message: fmt.Sprintf("found path with %d nodes (total weight %g)", path.Len(), path.TotalWeight),
				Stats:   statsWithDuration(stats, began),
			})
		}

		for _, edge := range f.graph.OutgoingEdges(item.nodeID) {
			if !edge.CanTraverse(available) {
				continue
			}
			stats.ExploredEdges++

			weight := item.weight + edge.Weight
			if maxDistance > 0 && weight > maxDistance {
				pruned++
				continue
			}
			if settled[edge.To] {
				continue
			}
			// Keep the latest-discovered predecessor on equal weight; only a
			// strictly cheaper known distance rejects the candidate.
			if known, seen := dist[edge.To]; seen && known < weight {
				continue
			}

			dist[edge.To] = weight
			parent[edge.To] = edge
			seq++
			priority := weight
			if heuristic != nil {
				priority += heuristic(edge.To)
			}
			heap.Push(pq, frontierItem{nodeID: edge.To, weight: weight, priority: priority, seq: seq})
		}
	}

	if pruned > 0 {
		return f.finish(ctx, runID, failureResult(ReasonDistanceExceeded,
			fmt.Sprintf("no path from %s to %s within maximum distance %g", start, end, maxDistance), stats, began))
	}
	return f.finish(ctx, runID, failureResult(ReasonExhausted,
		fmt.Sprintf("no path found from %s to %s", start, end), stats, began))
}

func initialPriority(start string, heuristic HeuristicFunc) float64 {
	if heuristic == nil {
		return 0
	}
	return heuristic(start)
}

func (f *PathFinder) reconstruct(start, end string, parent map[string]graph.Edge) (graph.Path, error) {
	var edges []graph.Edge
	current := end
	for current != start {
		edge, exists := parent[current]
		if !exists {
			return graph.Path{}, fmt.Errorf("no path found from %s to %s", start, end)
		}
		edges = append(edges, edge)
		current = edge.From
	}

	// Reverse into forward order.
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	nodeIDs := make([]string, 0, len(edges)+1)
	nodeIDs = append(nodeIDs, start)
	for _, edge := range edges {
		nodeIDs = append(nodeIDs, edge.To)
	}

	return graph.NewPath(nodeIDs, edges)
}

// FindAllPaths enumerates paths from start to end depth-first, bounded by a
// maximum edge count per path and a result cap, which keeps the branching
// factor finite in cyclic graphs. Results are sorted ascending by total
// weight.
func (f *PathFinder) FindAllPaths(ctx context.Context, start, end string, available graph.ConditionSet, maxDepth, maxResults int) AllPathsResult {
	began := time.Now()
	runID := uuid.New().String()
	stats := SearchStats{Algorithm: AlgorithmAllPaths}

	f.emitStart(ctx, runID, AlgorithmAllPaths, start, end)

	fail := func(reason FailureReason, message string) AllPathsResult {
		result := AllPathsResult{
			Reason:  reason,
			Message: message,
			Stats:   statsWithDuration(stats, began),
		}
		f.emitComplete(ctx, runID, false, string(reason), result.Stats)
		return result
	}

	if !f.graph.HasNode(start) {
		return fail(ReasonUnknownStart, fmt.Sprintf("start node %s does not exist", start))
	}
	if !f.graph.HasNode(end) {
		return fail(ReasonUnknownTarget, fmt.Sprintf("target node %s does not exist", end))
	}
	if maxDepth <= 0 || maxResults <= 0 {
		return fail(ReasonExhausted, "maxDepth and maxResults must be positive")
	}

	if start == end {
		path, _ := graph.NewPath([]string{start}, nil)
		result := AllPathsResult{
			Success: true,
			Paths:   []graph.Path{path},
			Message: "start and target are the same node",
			Stats:   statsWithDuration(stats, began),
		}
		f.emitComplete(ctx, runID, true, "", result.Stats)
		return result
	}

	var paths []graph.Path
	var walk func(current string, trail []graph.Edge)
	walk = func(current string, trail []graph.Edge) {
		if len(paths) >= maxResults || ctx.Err() != nil {
			return
		}
		if current == end && len(trail) > 0 {
			if path, err := f.pathFromTrail(start, trail); err == nil {
				paths = append(paths, path)
			}
			return
		}
		if len(trail) >= maxDepth {
			return
		}

		stats.VisitedNodes++
		for _, edge := range f.graph.OutgoingEdges(current) {
			if !edge.CanTraverse(available) {
				continue
			}
			stats.ExploredEdges++
			walk(edge.To, append(trail, edge))
			if len(paths) >= maxResults {
				return
			}
		}
	}
	walk(start, nil)

	if err := ctx.Err(); err != nil {
		return fail(ReasonCancelled, fmt.Sprintf("search cancelled: %v", err))
	}
	if len(paths) == 0 {
		return fail(ReasonExhausted, fmt.Sprintf("no path found from %s to %s", start, end))
	}

	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].TotalWeight < paths[j].TotalWeight
	})
	if len(paths) > maxResults {
		paths = paths[:maxResults]
	}

	result := AllPathsResult{
		Success: true,
		Paths:   paths,
		Message: fmt.Sprintf("found %d paths from %s to %s", len(paths), start, end),
		Stats:   statsWithDuration(stats, began),
	}
	f.emitComplete(ctx, runID, true, "", result.Stats)
	return result
}

func (f *PathFinder) pathFromTrail(start string, trail []graph.Edge) (graph.Path, error) {
	edges := append([]graph.Edge(nil), trail...)
	nodeIDs := make([]string, 0, len(edges)+1)
	nodeIDs = append(nodeIDs, start)
	for _, edge := range edges {
		nodeIDs = append(nodeIDs, edge.To)
	}
	return graph.NewPath(nodeIDs, edges)
}

func (f *PathFinder) finish(ctx context.Context, runID string, result PathResult) PathResult {
	f.emitComplete(ctx, runID, result.Success, string(result.Reason), result.Stats)
	return result
}

func (f *PathFinder) emitStart(ctx context.Context, runID, algorithm, start, end string) {
	f.observer.OnEvent(ctx, observability.Event{
		Type:      EventSearchStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    f.name,
		Data: map[string]any{
			"run_id":    runID,
			"algorithm": algorithm,
			"start":     start,
			"target":    end,
		},
	})
}

func (f *PathFinder) emitComplete(ctx context.Context, runID string, success bool, reason string, stats SearchStats) {
	f.observer.OnEvent(ctx, observability.Event{
		Type:      EventSearchComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    f.name,
		Data: map[string]any{
			"run_id":         runID,
			"success":        success,
			"reason":         reason,
			"visited_nodes":  stats.VisitedNodes,
			"explored_edges": stats.ExploredEdges,
			"duration_ms":    stats.Duration.Milliseconds(),
		},
	})
}

func failureResult(reason FailureReason, message string, stats SearchStats, began time.Time) PathResult {
	return PathResult{
		Reason:  reason,
		Message: message,
		Stats:   statsWithDuration(stats, began),
	}
}

func statsWithDuration(stats SearchStats, began time.Time) SearchStats {
	stats.Duration = time.Since(began)
	return stats
}
