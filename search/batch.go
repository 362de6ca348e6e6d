package search

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tailored-agentic-units/wayfinder/graph"
	"github.com/tailored-agentic-units/wayfinder/observability"
)

// FindRequest describes one search in a batch.
type FindRequest struct {
	// Start is the origin state
	Start graph.NodeState

	// TargetNodeID is the destination node
	TargetNodeID string

	// Options parameterize this search
	Options Options
}

// BatchProgressFunc reports batch completion progress. Called after each
// search finishes, successful or not.
type BatchProgressFunc func(completed, total int)

// workerCap bounds auto-detected worker counts.
const workerCap = 16

type indexedRequest struct {
	index   int
	request FindRequest
}

type indexedResult struct {
	index  int
	result StatefulPathResult
}

// FindPaths runs a batch of searches concurrently over the finder's shared
// graph and returns the results in request order.
//
// Because graphs are read-only once built and every search operates on its
// own private frontier or stack, the workers need no locking. "No path
// found" is a result, not an error, so the batch always completes all
// requests; inspect each result's Success and Reason individually.
//
// Worker count is min(NumCPU, 16, len(requests)): the searches are CPU-bound
// graph traversals, so there is nothing to gain from oversubscribing cores.
//
// Example:
//
//	requests := []search.FindRequest{
//	    {Start: atEntrance, TargetNodeID: "vault", Options: withKey},
//	    {Start: atEntrance, TargetNodeID: "vault", Options: withoutKey},
//	}
//	results := search.FindPaths(ctx, finder, requests, nil)
func FindPaths(ctx context.Context, finder *StatefulPathFinder, requests []FindRequest, progress BatchProgressFunc) []StatefulPathResult {
	if len(requests) == 0 {
		return []StatefulPathResult{}
	}

	workerCount := min(runtime.NumCPU(), workerCap, len(requests))

	finder.observer.OnEvent(ctx, observability.Event{
		Type:      EventBatchStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    finder.name,
		Data: map[string]any{
			"request_count": len(requests),
			"worker_count":  workerCount,
		},
	})

	workQueue := make(chan indexedRequest, len(requests))
	resultChannel := make(chan indexedResult, len(requests))

	var wg sync.WaitGroup
	var completed atomic.Int32

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for item := range workQueue {
				finder.observer.OnEvent(ctx, observability.Event{
					Type:      EventWorkerStart,
					Level:     observability.LevelVerbose,
					Timestamp: time.Now(),
					Source:    finder.name,
					Data: map[string]any{
						"worker":  workerID,
						"request": item.index,
					},
				})

				result := finder.FindPath(ctx, item.request.Start, item.request.TargetNodeID, item.request.Options)
				resultChannel <- indexedResult{index: item.index, result: result}

				done := int(completed.Add(1))
				if progress != nil {
					progress(done, len(requests))
				}

				finder.observer.OnEvent(ctx, observability.Event{
					Type:      EventWorkerDone,
					Level:     observability.LevelVerbose,
					Timestamp: time.Now(),
					Source:    finder.name,
					Data: map[string]any{
						"worker":  workerID,
						"request": item.index,
						"success": result.Success,
					},
				})
			}
		}(i)
	}

	for i, request := range requests {
		workQueue <- indexedRequest{index: i, request: request}
	}
	close(workQueue)

	wg.Wait()
	close(resultChannel)

	results := make([]StatefulPathResult, len(requests))
	succeeded := 0
	for item := range resultChannel {
		results[item.index] = item.result
		if item.result.Success {
			succeeded++
		}
	}

	finder.observer.OnEvent(ctx, observability.Event{
		Type:      EventBatchComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    finder.name,
		Data: map[string]any{
			"request_count": len(requests),
			"succeeded":     succeeded,
		},
	})

	return results
}

// CompareStrategies runs the same search with both strategies concurrently
// and returns both results, letting callers compare path weight and search
// stats empirically.
func CompareStrategies(ctx context.Context, finder *StatefulPathFinder, start graph.NodeState, targetNodeID string, opts Options) (dijkstra, backtracking StatefulPathResult) {
	dijkstraOpts := opts
	dijkstraOpts.EnableBacktrack = false
	backtrackOpts := opts
	backtrackOpts.EnableBacktrack = true

	results := FindPaths(ctx, finder, []FindRequest{
		{Start: start, TargetNodeID: targetNodeID, Options: dijkstraOpts},
		{Start: start, TargetNodeID: targetNodeID, Options: backtrackOpts},
	}, nil)

	return results[0], results[1]
}
