package search

import "github.com/tailored-agentic-units/wayfinder/graph"

// frontierItem is one entry in a search frontier. Priority is the cumulative
// weight for Dijkstra, or weight plus heuristic estimate for guided search.
// seq breaks priority ties by insertion order, which keeps exploration
// deterministic when multiple equal-cost candidates exist.
type frontierItem struct {
	nodeID   string
	state    graph.NodeState
	stateKey string
	weight   float64
	priority float64
	seq      int
}

// frontier is a min-heap of frontierItems implementing container/heap.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority < f[j].priority
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
