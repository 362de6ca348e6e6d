// Package search implements path finding over the graph package's data
// model: a stateless PathFinder for plain node-identity search and a
// StatefulPathFinder whose search space is the cross-product of nodes and
// variable bag contents.
//
// # Stateless search
//
// PathFinder offers three modes: Dijkstra shortest path, heuristic-guided
// search with caller-supplied estimates, and bounded all-paths enumeration.
//
// # Stateful search
//
// StatefulPathFinder.FindPath selects between two interchangeable strategies
// per call:
//
//   - Dijkstra-over-states settles full NodeState values and returns the
//     minimum-cost path. Its improvement rule can prune a state history that
//     a downstream condition needs.
//   - The backtracking depth-first search follows specific state histories
//     with explicit undo, which keeps accumulating cycles reachable, and
//     reports a backtrack count plus alternative complete paths.
//
// Failures are typed results, never errors: unknown endpoints, distance
// cutoff, exhausted search space, and cancellation each carry a distinct
// FailureReason. Every result includes SearchStats for empirical strategy
// comparison.
//
// # Concurrency
//
// Graphs are read-only once built and searches keep all mutable state
// private, so concurrent FindPath calls over one finder are safe. FindPaths
// runs a batch of searches on a worker pool and returns ordered results.
//
// # Determinism
//
// Exploration order is pinned: edges are considered in insertion order,
// equal-priority frontier entries pop in insertion order, and on equal
// cumulative weight the most recently discovered predecessor wins. Repeated
// searches over the same graph yield identical paths.
package search
