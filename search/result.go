package search

import (
	"time"

	"github.com/tailored-agentic-units/wayfinder/graph"
)

// Algorithm names reported in SearchStats.
const (
	AlgorithmDijkstra       = "dijkstra"
	AlgorithmHeuristic      = "heuristic"
	AlgorithmAllPaths       = "all-paths"
	AlgorithmDijkstraStates = "dijkstra-states"
	AlgorithmBacktracking   = "backtracking"
)

// FailureReason categorizes search failures so callers and tests can assert
// on the failure category rather than parsing messages.
type FailureReason string

const (
	// ReasonNone marks a successful result.
	ReasonNone FailureReason = ""

	// ReasonUnknownStart means the start node does not exist in the graph.
	ReasonUnknownStart FailureReason = "unknown-start-node"

	// ReasonUnknownTarget means the target node does not exist in the graph.
	ReasonUnknownTarget FailureReason = "unknown-target-node"

	// ReasonDistanceExceeded means candidates were pruned by the maximum
	// distance bound and no path was found within it.
	ReasonDistanceExceeded FailureReason = "distance-exceeded"

	// ReasonExhausted means the reachable search space contains no path.
	ReasonExhausted FailureReason = "search-exhausted"

	// ReasonCancelled means the caller's context expired mid-search.
	ReasonCancelled FailureReason = "cancelled"
)

// SearchStats captures how much work a search performed, letting callers
// compare strategies empirically. Stats are attached to every result,
// success or failure.
type SearchStats struct {
	// VisitedNodes counts states settled or frames pushed
	VisitedNodes int

	// ExploredEdges counts traversal attempts
	ExploredEdges int

	// Duration is the wall-clock search time
	Duration time.Duration

	// Algorithm names the strategy that produced the result
	Algorithm string
}

// PathResult is the outcome of a stateless search.
type PathResult struct {
	// Success reports whether a path was found
	Success bool

	// Path is the discovered path; meaningful only when Success is true
	Path graph.Path

	// Reason categorizes the failure; ReasonNone on success
	Reason FailureReason

	// Message is a human-readable account of the outcome
	Message string

	// Stats describes the work performed
	Stats SearchStats
}

// AllPathsResult is the outcome of bounded all-paths enumeration.
type AllPathsResult struct {
	// Success reports whether at least one path was found
	Success bool

	// Paths holds the discovered paths sorted ascending by total weight
	Paths []graph.Path

	// Reason categorizes the failure; ReasonNone on success
	Reason FailureReason

	// Message is a human-readable account of the outcome
	Message string

	// Stats describes the work performed
	Stats SearchStats
}

// StatefulPathResult is the outcome of a stateful search.
type StatefulPathResult struct {
	// Success reports whether a path was found
	Success bool

	// Path is the discovered path; meaningful only when Success is true
	Path graph.StatefulPath

	// Reason categorizes the failure; ReasonNone on success
	Reason FailureReason

	// Message is a human-readable account of the outcome
	Message string

	// AlternativePaths holds further complete paths discovered by the
	// backtracking strategy, sorted ascending by total weight
	AlternativePaths []graph.StatefulPath

	// Stats describes the work performed
	Stats SearchStats

	// BacktrackCount is the number of frames the backtracking strategy
	// discarded; always 0 for Dijkstra-over-states
	BacktrackCount int

	// RunID uniquely identifies this search call and appears in all events
	// it emitted
	RunID string
}
