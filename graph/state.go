package graph

import (
	"fmt"
	"maps"
	"reflect"
	"sort"
	"strings"
)

// NodeState is a node identity plus a variable bag. It is the true unit of
// stateful search: the same node reached with different variables is a
// genuinely different search state.
//
// NodeState uses map[string]any for maximum flexibility. All operations are
// immutable - modifications return new NodeState instances, and typed
// accessors report absence or a type mismatch through their second return
// value instead of panicking.
type NodeState struct {
	// NodeID identifies the node this state is located at
	NodeID string

	// Variables is the state's variable bag
	Variables map[string]any
}

// NewNodeState creates a state at the given node. The variable map is cloned,
// so later mutations of the argument do not leak into the state. A nil map
// yields an empty bag.
//
// Example:
//
//	start := graph.NewNodeState("entrance", map[string]any{"torch": true})
func NewNodeState(nodeID string, variables map[string]any) NodeState {
	bag := make(map[string]any, len(variables))
	maps.Copy(bag, variables)

	return NodeState{
		NodeID:    nodeID,
		Variables: bag,
	}
}

// Clone creates an independent copy of the state.
//
// The returned state has its own variable map (shallow clone). Modifications
// to the clone do not affect the original.
func (s NodeState) Clone() NodeState {
	return NodeState{
		NodeID:    s.NodeID,
		Variables: maps.Clone(s.Variables),
	}
}

// Get retrieves a variable by key.
//
// Returns the value and true if the key exists, nil and false otherwise.
func (s NodeState) Get(key string) (any, bool) {
	val, exists := s.Variables[key]
	return val, exists
}

// GetString retrieves a string variable. Returns ("", false) when the key is
// absent or holds a non-string value.
func (s NodeState) GetString(key string) (string, bool) {
	val, exists := s.Variables[key]
	if !exists {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an integer variable. Accepts int and int64 values and
// returns (0, false) otherwise.
func (s NodeState) GetInt(key string) (int, bool) {
	val, exists := s.Variables[key]
	if !exists {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

// GetFloat retrieves a numeric variable as float64. Accepts float64, float32,
// int, and int64 values and returns (0, false) otherwise.
func (s NodeState) GetFloat(key string) (float64, bool) {
	val, exists := s.Variables[key]
	if !exists {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// GetBool retrieves a boolean variable. Returns (false, false) when the key
// is absent or holds a non-bool value.
func (s NodeState) GetBool(key string) (bool, bool) {
	val, exists := s.Variables[key]
	if !exists {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Set creates a new state with the key-value pair added or updated.
// The original state is not modified.
func (s NodeState) Set(key string, value any) NodeState {
	state := s.Clone()
	if state.Variables == nil {
		state.Variables = make(map[string]any, 1)
	}
	state.Variables[key] = value
	return state
}

// SetAll creates a new state with all entries from values merged in,
// overwriting existing keys. The original state is not modified.
func (s NodeState) SetAll(values map[string]any) NodeState {
	state := s.Clone()
	if state.Variables == nil {
		state.Variables = make(map[string]any, len(values))
	}
	maps.Copy(state.Variables, values)
	return state
}

// Without creates a new state with the given key removed. Removing an absent
// key returns an equivalent clone.
func (s NodeState) Without(key string) NodeState {
	state := s.Clone()
	delete(state.Variables, key)
	return state
}

// At creates a new state located at the given node with the same variables.
// Edge traversal uses this to relocate a transformed state to the edge's
// destination.
func (s NodeState) At(nodeID string) NodeState {
	state := s.Clone()
	state.NodeID = nodeID
	return state
}

// Equal reports structural equality: same node id and exactly the same
// variable entries. Variable values are compared deeply.
func (s NodeState) Equal(other NodeState) bool {
	if s.NodeID != other.NodeID {
		return false
	}
	if len(s.Variables) != len(other.Variables) {
		return false
	}
	for key, val := range s.Variables {
		otherVal, exists := other.Variables[key]
		if !exists || !reflect.DeepEqual(val, otherVal) {
			return false
		}
	}
	return true
}

// CompatibleWith reports whether two states for the same node can coexist on
// one path: every variable key present in both must hold an equal value.
// Keys present in only one state do not conflict. States for different nodes
// are trivially compatible.
func (s NodeState) CompatibleWith(other NodeState) bool {
	if s.NodeID != other.NodeID {
		return true
	}
	for key, val := range s.Variables {
		otherVal, exists := other.Variables[key]
		if exists && !reflect.DeepEqual(val, otherVal) {
			return false
		}
	}
	return true
}

// Key returns a canonical string identity for the full state value, suitable
// as a visited-set key. Equal states always share a key. Each variable is
// rendered with its dynamic type so int(1), int64(1), and float64(1) stay
// distinct. Entries are rendered in sorted key order; fmt renders map values
// with sorted keys, so nested maps stay deterministic.
func (s NodeState) Key() string {
	keys := make([]string, 0, len(s.Variables))
	for key := range s.Variables {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(s.NodeID)
	for _, key := range keys {
		val := s.Variables[key]
		fmt.Fprintf(&b, "|%s=%T:%#v", key, val, val)
	}
	return b.String()
}

// String renders the state for diagnostics.
func (s NodeState) String() string {
	return fmt.Sprintf("NodeState(%s)", s.Key())
}
