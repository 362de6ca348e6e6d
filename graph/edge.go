package graph

// Edge is a weighted, directed traversal rule between two nodes, used by the
// stateless path finder. The action label names what taking the edge means to
// the caller; the engine never interprets it.
type Edge struct {
	// From is the source node id
	From string

	// To is the destination node id
	To string

	// Action labels the traversal for consumers
	Action string

	// Weight is the non-negative traversal cost
	Weight float64

	// Conditions are the capability tokens required to take the edge
	Conditions ConditionSet
}

// NewEdge creates an edge with the given endpoints, action label, weight, and
// required condition tokens.
func NewEdge(from, to, action string, weight float64, conditions ...string) Edge {
	return Edge{
		From:       from,
		To:         to,
		Action:     action,
		Weight:     weight,
		Conditions: NewConditionSet(conditions...),
	}
}

// CanTraverse reports whether the edge's required conditions are fully
// contained in the available set, regardless of any state.
func (e Edge) CanTraverse(available ConditionSet) bool {
	return available.ContainsAll(e.Conditions)
}

// StatefulEdge extends Edge with a state transform that rewrites the variable
// bag as the edge is taken.
type StatefulEdge struct {
	Edge

	// Transform rewrites the variable bag on traversal. A nil transform
	// behaves like Identity.
	Transform StateTransform
}

// NewStatefulEdge creates a stateful edge. Passing a nil transform is
// equivalent to passing Identity().
func NewStatefulEdge(from, to, action string, weight float64, transform StateTransform, conditions ...string) StatefulEdge {
	return StatefulEdge{
		Edge:      NewEdge(from, to, action, weight, conditions...),
		Transform: transform,
	}
}

// CanTraverse reports whether the state is located at the edge's source and
// the required conditions are available. It deliberately does not consult the
// transform: transform applicability is checked only when a traversal is
// actually attempted.
func (e StatefulEdge) CanTraverse(state NodeState, available ConditionSet) bool {
	return state.NodeID == e.From && available.ContainsAll(e.Conditions)
}

// ApplyTransform attempts the traversal. On success it returns a new state
// located at the edge's destination with the transform's output variables.
// It returns ok=false when the edge is not traversable from this state or
// the transform itself is inapplicable; that is a local signal, not an error.
func (e StatefulEdge) ApplyTransform(state NodeState, available ConditionSet) (NodeState, bool) {
	if !e.CanTraverse(state, available) {
		return NodeState{}, false
	}

	transform := e.Transform
	if transform == nil {
		transform = Identity()
	}

	out, ok := transform.Apply(state)
	if !ok {
		return NodeState{}, false
	}
	return out.At(e.To), true
}
