package graph

import "maps"

// Node is a named point in a graph with static metadata and property tags.
//
// Nodes are authored once and never mutated afterwards. Properties are string
// tags describing static capabilities of the location or step the node
// represents; they are distinct from the condition tokens a searcher holds.
type Node struct {
	// ID uniquely identifies the node within a graph
	ID string

	// Name is an optional human-readable label
	Name string

	// Metadata holds arbitrary static annotations
	Metadata map[string]any

	// Properties is the set of capability tags attached to the node
	Properties map[string]bool
}

// NewNode creates a node with the given id, an optional name, and property
// tags. The returned node owns fresh maps.
func NewNode(id, name string, properties ...string) Node {
	props := make(map[string]bool, len(properties))
	for _, p := range properties {
		props[p] = true
	}

	return Node{
		ID:         id,
		Name:       name,
		Metadata:   make(map[string]any),
		Properties: props,
	}
}

// WithMetadata returns a copy of the node with the key-value pair added.
// The original node is not modified.
func (n Node) WithMetadata(key string, value any) Node {
	node := n
	node.Metadata = maps.Clone(n.Metadata)
	if node.Metadata == nil {
		node.Metadata = make(map[string]any)
	}
	node.Metadata[key] = value
	return node
}

// HasProperty reports whether the node carries the given property tag.
func (n Node) HasProperty(property string) bool {
	return n.Properties[property]
}
