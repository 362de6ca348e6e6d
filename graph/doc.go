// Package graph provides the data model for stateful path finding: nodes,
// condition-gated weighted edges, immutable node states, pure state
// transforms, and validated paths.
//
// # Core Components
//
// Node - identity plus static metadata and property tags
//
// NodeState - a node identity plus a variable bag; the true unit of search
//
// StateTransform - a pure function rewriting the variable bag as an edge is
// taken (Identity, Set, SetAll, Remove, ConditionalSet, Compute, Composite)
//
// Edge / StatefulEdge - weighted traversal rules gated by condition tokens
//
// Graph / StatefulGraph - node/edge containers with adjacency queries
//
// Path / StatefulPath - ordered, validated step sequences
//
// Builder - fluent construction of immutable graph snapshots
//
// # Immutability
//
// NodeState operations never modify the original state; every transform
// produces a fresh value. Graphs are read-only once built. Together this
// means concurrent callers may run independent searches over the same
// StatefulGraph without locking.
//
//	s := graph.NewNodeState("A", nil)
//	s2 := s.Set("torch", true)
//	// s is unchanged, s2 carries the variable
//
// # Transform failure
//
// A transform that is inapplicable reports ok=false rather than an error:
// "this edge cannot be taken in this state" is an expected, local signal
// that searches recover from by trying other candidates.
//
// # Validation
//
// StatefulPath.IsValid replays every edge transform against the recorded
// states, so a path constructed by any producer can be independently proven
// correct. Construction itself eagerly enforces the structural invariant
// len(edges) == max(0, len(states)-1).
package graph
