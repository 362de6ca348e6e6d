package search

import "github.com/tailored-agentic-units/wayfinder/observability"

const (
	// Search lifecycle
	EventSearchStart    observability.EventType = "search.start"
	EventSearchComplete observability.EventType = "search.complete"

	// Frontier activity
	EventStateExpand     observability.EventType = "search.state.expand"
	EventTransformReject observability.EventType = "search.transform.reject"
	EventDistancePrune   observability.EventType = "search.prune"
	EventBacktrack       observability.EventType = "search.backtrack"

	// Batch execution
	EventBatchStart    observability.EventType = "batch.start"
	EventBatchComplete observability.EventType = "batch.complete"
	EventWorkerStart   observability.EventType = "worker.start"
	EventWorkerDone    observability.EventType = "worker.complete"
)
