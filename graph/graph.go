package graph

import "fmt"

// Graph is a container of nodes and stateless edges with adjacency queries.
//
// Construction fails fast: an edge referencing an unknown node or carrying a
// negative weight is rejected with an error, never silently dropped. Once
// authored, a Graph must be treated as read-only; concurrent searches may
// then share it without locking.
type Graph struct {
	nodes   map[string]Node
	edges   map[string][]Edge
	nodeIDs []string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		edges: make(map[string][]Edge),
	}
}

// AddNode registers a node. Nodes must have unique, non-empty ids.
func (g *Graph) AddNode(node Node) error {
	if node.ID == "" {
		return fmt.Errorf("node id cannot be empty")
	}

	if _, exists := g.nodes[node.ID]; exists {
		return fmt.Errorf("node %s already exists", node.ID)
	}

	g.nodes[node.ID] = node
	g.nodeIDs = append(g.nodeIDs, node.ID)
	return nil
}

// AddEdge registers an edge. Both endpoints must already exist and the weight
// must be non-negative.
func (g *Graph) AddEdge(edge Edge) error {
	if err := g.checkEdge(edge.From, edge.To, edge.Weight); err != nil {
		return err
	}

	g.edges[edge.From] = append(g.edges[edge.From], edge)
	return nil
}

func (g *Graph) checkEdge(from, to string, weight float64) error {
	if _, exists := g.nodes[from]; !exists {
		return fmt.Errorf("from node %s does not exist", from)
	}

	if _, exists := g.nodes[to]; !exists {
		return fmt.Errorf("to node %s does not exist", to)
	}

	if weight < 0 {
		return fmt.Errorf("edge %s -> %s has negative weight %g", from, to, weight)
	}

	return nil
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, exists := g.nodes[id]
	return exists
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// HasEdge reports whether at least one edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	for _, edge := range g.edges[from] {
		if edge.To == to {
			return true
		}
	}
	return false
}

// OutgoingEdges returns the edges leaving the given node in insertion order.
// The returned slice is a copy.
func (g *Graph) OutgoingEdges(id string) []Edge {
	edges := g.edges[id]
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// NodeIDs returns all node ids in insertion order.
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.nodeIDs))
	copy(out, g.nodeIDs)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, edges := range g.edges {
		count += len(edges)
	}
	return count
}

// StatefulGraph is a container of nodes and stateful edges with adjacency
// queries. It carries the same fail-fast construction rules as Graph.
type StatefulGraph struct {
	nodes   map[string]Node
	edges   map[string][]StatefulEdge
	nodeIDs []string
}

// NewStatefulGraph creates an empty stateful graph.
func NewStatefulGraph() *StatefulGraph {
	return &StatefulGraph{
		nodes: make(map[string]Node),
		edges: make(map[string][]StatefulEdge),
	}
}

// AddNode registers a node. Nodes must have unique, non-empty ids.
func (g *StatefulGraph) AddNode(node Node) error {
	if node.ID == "" {
		return fmt.Errorf("node id cannot be empty")
	}

	if _, exists := g.nodes[node.ID]; exists {
		return fmt.Errorf("node %s already exists", node.ID)
	}

	g.nodes[node.ID] = node
	g.nodeIDs = append(g.nodeIDs, node.ID)
	return nil
}

// AddEdge registers an edge. Both endpoints must already exist and the weight
// must be non-negative.
func (g *StatefulGraph) AddEdge(edge StatefulEdge) error {
	if _, exists := g.nodes[edge.From]; !exists {
		return fmt.Errorf("from node %s does not exist", edge.From)
	}

	if _, exists := g.nodes[edge.To]; !exists {
		return fmt.Errorf("to node %s does not exist", edge.To)
	}

	if edge.Weight < 0 {
		return fmt.Errorf("edge %s -> %s has negative weight %g", edge.From, edge.To, edge.Weight)
	}

	g.edges[edge.From] = append(g.edges[edge.From], edge)
	return nil
}

// HasNode reports whether a node with the given id exists.
func (g *StatefulGraph) HasNode(id string) bool {
	_, exists := g.nodes[id]
	return exists
}

// Node returns the node with the given id.
func (g *StatefulGraph) Node(id string) (Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// HasEdge reports whether at least one edge from -> to exists.
func (g *StatefulGraph) HasEdge(from, to string) bool {
	for _, edge := range g.edges[from] {
		if edge.To == to {
			return true
		}
	}
	return false
}

// OutgoingEdges returns the edges leaving the given node in insertion order.
// The returned slice is a copy.
func (g *StatefulGraph) OutgoingEdges(id string) []StatefulEdge {
	edges := g.edges[id]
	out := make([]StatefulEdge, len(edges))
	copy(out, edges)
	return out
}

// ValidOutgoingEdges returns, in insertion order, the edges leaving the
// state's node whose required conditions are available. Transforms are not
// applied here: some transforms depend on variables that only materialize
// when the traversal is actually attempted, so applicability is the caller's
// concern at traversal time.
func (g *StatefulGraph) ValidOutgoingEdges(state NodeState, available ConditionSet) []StatefulEdge {
	var out []StatefulEdge
	for _, edge := range g.edges[state.NodeID] {
		if edge.CanTraverse(state, available) {
			out = append(out, edge)
		}
	}
	return out
}

// NodeIDs returns all node ids in insertion order.
func (g *StatefulGraph) NodeIDs() []string {
	out := make([]string, len(g.nodeIDs))
	copy(out, g.nodeIDs)
	return out
}

// NodeCount returns the number of nodes.
func (g *StatefulGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *StatefulGraph) EdgeCount() int {
	count := 0
	for _, edges := range g.edges {
		count += len(edges)
	}
	return count
}
