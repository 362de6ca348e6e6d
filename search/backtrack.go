package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tailored-agentic-units/wayfinder/graph"
	"github.com/tailored-agentic-units/wayfinder/observability"
)

// dfsFrame is one step of the current candidate path. The explicit frame
// stack replaces language-level recursion so stack depth stays bounded and
// the backtrack counter is plain local state.
type dfsFrame struct {
	state  graph.NodeState
	edges  []graph.StatefulEdge
	next   int
	weight float64
}

// backtrack is the depth-first strategy with explicit undo. At each frame it
// attempts valid outgoing edges one at a time in insertion order; a candidate
// whose transform fails, that repeats a state already on the candidate path
// without progress, or that exceeds the per-node revisit bound is discarded.
// When a frame runs out of candidates it is popped and the previous frame
// resumes with its next candidate.
//
// Unlike Dijkstra's improvement rule, the DFS follows specific state
// histories, so a cycle that must be traversed several times to accumulate a
// variable value stays reachable: each lap produces a new state and only an
// exact repeat is treated as a dead cycle. The revisit bound keeps such
// exploration finite.
//
// The search is branch-and-bound: it runs until the stack empties, and once a
// complete path is known, any candidate whose cumulative weight already
// matches or exceeds the best complete weight is cut off. Edge weights are
// non-negative, so such a candidate cannot improve on the best path. This
// makes the returned path weight agree with Dijkstra's on bounded graphs.
// Each improvement is kept, the cheapest becomes the result, and up to the
// configured cap of the remaining paths are reported as alternatives.
func (f *StatefulPathFinder) backtrack(ctx context.Context, runID string, start graph.NodeState, targetNodeID string, opts Options, stats SearchStats, began time.Time) StatefulPathResult {
	stack := []dfsFrame{{
		state:  start,
		edges:  f.graph.ValidOutgoingEdges(start, opts.Conditions),
		weight: 0,
	}}
	stats.VisitedNodes++

	pathStates := []graph.NodeState{start}
	pathEdges := []graph.StatefulEdge{}
	visits := map[string]int{start.NodeID: 1}

	backtracks := 0
	pruned := 0
	bestWeight := math.Inf(1)
	var found []graph.StatefulPath

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			result := statefulFailure(runID, ReasonCancelled,
				fmt.Sprintf("search cancelled: %v", err), stats, began)
			result.BacktrackCount = backtracks
			return result
		}

		top := &stack[len(stack)-1]

		if top.next >= len(top.edges) {
			// Frame exhausted: undo and resume the previous frame.
			stack = stack[:len(stack)-1]
			visits[top.state.NodeID]--
			pathStates = pathStates[:len(pathStates)-1]
			if len(pathEdges) > 0 {
				pathEdges = pathEdges[:len(pathEdges)-1]
			}
			backtracks++

			f.observer.OnEvent(ctx, observability.Event{
				Type:      EventBacktrack,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    f.name,
				Data: map[string]any{
					"run_id": runID,
					"node":   top.state.NodeID,
					"depth":  len(stack),
				},
			})
			continue
		}

		edge := top.edges[top.next]
		top.next++
		stats.ExploredEdges++

		next, ok := edge.ApplyTransform(top.state, opts.Conditions)
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

		weight := top.weight + edge.Weight
		if opts.MaxDistance > 0 && weight > opts.MaxDistance {
			pruned++
			continue
		}
		if weight >= bestWeight {
			continue
		}

		if repeatsState(pathStates, next) {
			continue
		}
		if visits[next.NodeID] >= f.maxVisitsPerNode {
			continue
		}

		if next.NodeID == targetNodeID && (opts.TargetPredicate == nil || opts.TargetPredicate(next)) {
			states := append(append([]graph.NodeState(nil), pathStates...), next)
			edges := append(append([]graph.StatefulEdge(nil), pathEdges...), edge)
			if path, err := graph.NewStatefulPath(states, edges); err == nil {
				found = append(found, path)
				bestWeight = path.TotalWeight
			}
			// Treat the goal as a leaf and keep backtracking for cheaper
			// routes.
			continue
		}

		stack = append(stack, dfsFrame{
			state:  next,
			edges:  f.graph.ValidOutgoingEdges(next, opts.Conditions),
			weight: weight,
		})
		pathStates = append(pathStates, next)
		pathEdges = append(pathEdges, edge)
		visits[next.NodeID]++
		stats.VisitedNodes++
	}

	if len(found) == 0 {
		reason := ReasonExhausted
		message := fmt.Sprintf("no path found from %s to %s", start.NodeID, targetNodeID)
		if pruned > 0 {
			reason = ReasonDistanceExceeded
			message = fmt.Sprintf("no path from %s to %s within maximum distance %g", start.NodeID, targetNodeID, opts.MaxDistance)
		}
		result := statefulFailure(runID, reason, message, stats, began)
		result.BacktrackCount = backtracks
		return result
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].TotalWeight < found[j].TotalWeight
	})

	best := found[0]
	alternatives := found[1:]
	if len(alternatives) > f.maxAlternatives {
		alternatives = alternatives[:f.maxAlternatives]
	}
	return StatefulPathResult{
		Success:          true,
		Path:             best,
		Message:          fmt.Sprintf("found path with %d states (total weight %g)", best.Len(), best.TotalWeight),
		AlternativePaths: alternatives,
		Stats:            statsWithDuration(stats, began),
		BacktrackCount:   backtracks,
		RunID:            runID,
	}
}

// repeatsState reports whether candidate exactly equals a state already on
// the current candidate path. An exact repeat means the cycle made no state
// progress and can never terminate.
func repeatsState(pathStates []graph.NodeState, candidate graph.NodeState) bool {
	for _, state := range pathStates {
		if state.Equal(candidate) {
			return true
		}
	}
	return false
}
