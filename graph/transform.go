package graph

// StateTransform is a pure function over a state's variable bag, executed as
// an edge is taken.
//
// Implementations must be deterministic and free of side effects: replaying
// the same transform from the same state must always yield the same result.
// This is what makes path validation and backtracking meaningful. Apply must
// return false exactly when CanApply would, and neither may mutate the input
// state - outputs are always fresh values.
type StateTransform interface {
	// CanApply reports whether the transform is applicable to the state.
	CanApply(state NodeState) bool

	// Apply produces the transformed state, or (zero, false) when the
	// transform is inapplicable.
	Apply(state NodeState) (NodeState, bool)
}

// StatePredicate evaluates a state, typically to gate a conditional transform
// or to accept a search target.
type StatePredicate func(state NodeState) bool

// ComputeFunc derives a value from a state. Returning ok=false signals that
// the computation is inapplicable, which fails the enclosing transform; it is
// not a no-op.
type ComputeFunc func(state NodeState) (any, bool)

// KeyExists returns a predicate that checks if a variable exists in state.
func KeyExists(key string) StatePredicate {
	return func(state NodeState) bool {
		_, exists := state.Get(key)
		return exists
	}
}

// KeyEquals returns a predicate that checks if a variable has a specific value.
//
// Example:
//
//	unlock := graph.ConditionalSet(graph.KeyEquals("status", "armed"), "fired", true)
func KeyEquals(key string, value any) StatePredicate {
	return func(state NodeState) bool {
		val, exists := state.Get(key)
		return exists && val == value
	}
}

// Not inverts a predicate.
func Not(predicate StatePredicate) StatePredicate {
	return func(state NodeState) bool {
		return !predicate(state)
	}
}

// And combines predicates with logical AND (all must be true).
func And(predicates ...StatePredicate) StatePredicate {
	return func(state NodeState) bool {
		for _, p := range predicates {
			if !p(state) {
				return false
			}
		}
		return true
	}
}

// Or combines predicates with logical OR (at least one must be true).
func Or(predicates ...StatePredicate) StatePredicate {
	return func(state NodeState) bool {
		for _, p := range predicates {
			if p(state) {
				return true
			}
		}
		return false
	}
}

// identityTransform returns its input unchanged.
type identityTransform struct{}

// Identity creates a transform that is always applicable and leaves the
// variable bag untouched.
func Identity() StateTransform {
	return identityTransform{}
}

func (identityTransform) CanApply(state NodeState) bool {
	return true
}

func (identityTransform) Apply(state NodeState) (NodeState, bool) {
	return state.Clone(), true
}

// setTransform overwrites or adds a single variable.
type setTransform struct {
	key   string
	value any
}

// Set creates a transform that stores value under key. Always applicable.
func Set(key string, value any) StateTransform {
	return setTransform{key: key, value: value}
}

func (t setTransform) CanApply(state NodeState) bool {
	return true
}

func (t setTransform) Apply(state NodeState) (NodeState, bool) {
	return state.Set(t.key, t.value), true
}

// setAllTransform merges multiple variables.
type setAllTransform struct {
	values map[string]any
}

// SetAll creates a transform that merges all entries of values into the bag,
// overwriting existing keys. Always applicable.
func SetAll(values map[string]any) StateTransform {
	return setAllTransform{values: values}
}

func (t setAllTransform) CanApply(state NodeState) bool {
	return true
}

func (t setAllTransform) Apply(state NodeState) (NodeState, bool) {
	return state.SetAll(t.values), true
}

// removeTransform deletes a single variable.
type removeTransform struct {
	key string
}

// Remove creates a transform that deletes key from the bag if present.
// Always applicable, including when the key is absent.
func Remove(key string) StateTransform {
	return removeTransform{key: key}
}

func (t removeTransform) CanApply(state NodeState) bool {
	return true
}

func (t removeTransform) Apply(state NodeState) (NodeState, bool) {
	return state.Without(t.key), true
}

// conditionalSetTransform sets a variable only when a predicate holds.
type conditionalSetTransform struct {
	predicate StatePredicate
	key       string
	value     any
}

// ConditionalSet creates a transform that stores value under key when
// predicate(state) is true, and fails entirely otherwise.
func ConditionalSet(predicate StatePredicate, key string, value any) StateTransform {
	return conditionalSetTransform{predicate: predicate, key: key, value: value}
}

func (t conditionalSetTransform) CanApply(state NodeState) bool {
	return t.predicate(state)
}

func (t conditionalSetTransform) Apply(state NodeState) (NodeState, bool) {
	if !t.predicate(state) {
		return NodeState{}, false
	}
	return state.Set(t.key, t.value), true
}

// computeTransform derives a value from the state.
type computeTransform struct {
	key string
	fn  ComputeFunc
}

// Compute creates a transform that stores fn(state) under key. When fn
// reports ok=false the transform fails and produces no result.
//
// Example:
//
//	increment := graph.Compute("count", func(s graph.NodeState) (any, bool) {
//	    count, _ := s.GetInt("count")
//	    return count + 1, true
//	})
func Compute(key string, fn ComputeFunc) StateTransform {
	return computeTransform{key: key, fn: fn}
}

func (t computeTransform) CanApply(state NodeState) bool {
	_, ok := t.fn(state)
	return ok
}

func (t computeTransform) Apply(state NodeState) (NodeState, bool) {
	value, ok := t.fn(state)
	if !ok {
		return NodeState{}, false
	}
	return state.Set(t.key, value), true
}

// compositeTransform chains sub-transforms.
type compositeTransform struct {
	transforms []StateTransform
}

// Composite creates a transform that applies each sub-transform to the output
// of the previous one, in order. It fails as soon as any sub-transform fails,
// with no partial application leaking through.
//
// CanApply simulates the chain rather than checking each sub-transform against
// the original state: a later transform may depend on a variable an earlier
// one just set.
func Composite(transforms ...StateTransform) StateTransform {
	return compositeTransform{transforms: transforms}
}

func (t compositeTransform) CanApply(state NodeState) bool {
	_, ok := t.Apply(state)
	return ok
}

func (t compositeTransform) Apply(state NodeState) (NodeState, bool) {
	current := state
	for _, sub := range t.transforms {
		next, ok := sub.Apply(current)
		if !ok {
			return NodeState{}, false
		}
		current = next
	}
	if len(t.transforms) == 0 {
		return state.Clone(), true
	}
	return current, true
}
