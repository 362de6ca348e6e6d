package graph

import (
	"fmt"
	"maps"
)

// Path is an ordered sequence of nodes and the stateless edges connecting
// them, as returned by the stateless path finder.
type Path struct {
	// NodeIDs lists the visited nodes in order
	NodeIDs []string

	// Edges lists the traversed edges; len(Edges) == max(0, len(NodeIDs)-1)
	Edges []Edge

	// TotalWeight is the sum of all edge weights
	TotalWeight float64
}

// NewPath constructs a path, enforcing the length invariant and endpoint
// consistency at creation time. The total weight is derived from the edges.
func NewPath(nodeIDs []string, edges []Edge) (Path, error) {
	if err := checkStepCounts(len(nodeIDs), len(edges)); err != nil {
		return Path{}, err
	}

	total := 0.0
	for i, edge := range edges {
		if edge.From != nodeIDs[i] || edge.To != nodeIDs[i+1] {
			return Path{}, fmt.Errorf("edge %d connects %s -> %s, expected %s -> %s",
				i, edge.From, edge.To, nodeIDs[i], nodeIDs[i+1])
		}
		total += edge.Weight
	}

	return Path{
		NodeIDs:     append([]string(nil), nodeIDs...),
		Edges:       append([]Edge(nil), edges...),
		TotalWeight: total,
	}, nil
}

// Len returns the number of nodes on the path.
func (p Path) Len() int {
	return len(p.NodeIDs)
}

// Actions returns the action labels of the traversed edges in order.
func (p Path) Actions() []string {
	actions := make([]string, len(p.Edges))
	for i, edge := range p.Edges {
		actions[i] = edge.Action
	}
	return actions
}

func checkStepCounts(states, edges int) error {
	want := states - 1
	if want < 0 {
		want = 0
	}
	if edges != want {
		return fmt.Errorf("path with %d states requires %d edges, got %d", states, want, edges)
	}
	return nil
}

// StatefulPath is an ordered sequence of node states and the stateful edges
// connecting them.
//
// Validity is a property of the data, not of how the path was produced: a
// StatefulPath constructed directly by a test or an external planner can be
// proven correct through IsValid.
type StatefulPath struct {
	// States lists the visited states in order
	States []NodeState

	// Edges lists the traversed edges; len(Edges) == max(0, len(States)-1)
	Edges []StatefulEdge

	// TotalWeight is the sum of all edge weights
	TotalWeight float64

	// Metadata holds caller or search annotations about the path
	Metadata map[string]any
}

// NewStatefulPath constructs a path, enforcing the length invariant eagerly.
// Malformed paths are rejected here rather than surfacing later as silently
// invalid data. The total weight is derived from the edges.
func NewStatefulPath(states []NodeState, edges []StatefulEdge) (StatefulPath, error) {
	if err := checkStepCounts(len(states), len(edges)); err != nil {
		return StatefulPath{}, err
	}

	total := 0.0
	for i, edge := range edges {
		if edge.From != states[i].NodeID || edge.To != states[i+1].NodeID {
			return StatefulPath{}, fmt.Errorf("edge %d connects %s -> %s, expected %s -> %s",
				i, edge.From, edge.To, states[i].NodeID, states[i+1].NodeID)
		}
		total += edge.Weight
	}

	copied := make([]NodeState, len(states))
	for i, state := range states {
		copied[i] = state.Clone()
	}

	return StatefulPath{
		States:      copied,
		Edges:       append([]StatefulEdge(nil), edges...),
		TotalWeight: total,
		Metadata:    make(map[string]any),
	}, nil
}

// Len returns the number of states on the path.
func (p StatefulPath) Len() int {
	return len(p.States)
}

// IsSingleState reports whether the path consists of exactly one state and no
// edges, as produced by a search whose start and target coincide.
func (p StatefulPath) IsSingleState() bool {
	return len(p.States) == 1
}

// StartState returns the first state on the path.
func (p StatefulPath) StartState() (NodeState, bool) {
	if len(p.States) == 0 {
		return NodeState{}, false
	}
	return p.States[0], true
}

// EndState returns the last state on the path.
func (p StatefulPath) EndState() (NodeState, bool) {
	if len(p.States) == 0 {
		return NodeState{}, false
	}
	return p.States[len(p.States)-1], true
}

// Actions returns the action labels of the traversed edges in order.
func (p StatefulPath) Actions() []string {
	actions := make([]string, len(p.Edges))
	for i, edge := range p.Edges {
		actions[i] = edge.Action
	}
	return actions
}

// WithMetadata returns a copy of the path with the key-value pair added.
func (p StatefulPath) WithMetadata(key string, value any) StatefulPath {
	path := p
	path.Metadata = maps.Clone(p.Metadata)
	if path.Metadata == nil {
		path.Metadata = make(map[string]any)
	}
	path.Metadata[key] = value
	return path
}

// IsValid re-derives every transition and reports whether the recorded states
// are exactly what the edge transforms produce. For each consecutive
// (state, edge, nextState) triple the edge's transform is replayed against
// the preceding state, using the edge's own required conditions as the
// available set, and the result must equal the following state structurally.
func (p StatefulPath) IsValid() bool {
	for i, edge := range p.Edges {
		derived, ok := edge.ApplyTransform(p.States[i], edge.Conditions)
		if !ok {
			return false
		}
		if !derived.Equal(p.States[i+1]) {
			return false
		}
	}
	return true
}

// HasStateConflicts groups states by node id and reports whether any two
// occurrences of the same node hold mutually incompatible variables.
//
// A path that deliberately traverses a value-accumulating cycle legitimately
// reports conflicts: each lap revisits the cycle's nodes with an updated
// variable. Conflicts flag suspect paths only when no such cycle is expected.
func (p StatefulPath) HasStateConflicts() bool {
	byNode := make(map[string][]NodeState)
	for _, state := range p.States {
		byNode[state.NodeID] = append(byNode[state.NodeID], state)
	}

	for _, states := range byNode {
		for i := 0; i < len(states); i++ {
			for j := i + 1; j < len(states); j++ {
				if !states[i].CompatibleWith(states[j]) {
					return true
				}
			}
		}
	}
	return false
}
