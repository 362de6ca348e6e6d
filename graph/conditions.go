package graph

import (
	"sort"
	"strings"
)

// ConditionSet is a set of capability tokens. Edges declare the conditions
// they require; searches declare the conditions the caller currently holds.
type ConditionSet map[string]bool

// NewConditionSet builds a set from the given tokens.
func NewConditionSet(tokens ...string) ConditionSet {
	set := make(ConditionSet, len(tokens))
	for _, token := range tokens {
		set[token] = true
	}
	return set
}

// Contains reports whether the token is in the set.
func (c ConditionSet) Contains(token string) bool {
	return c[token]
}

// ContainsAll reports whether every token in required is present. An empty
// or nil required set is trivially satisfied.
func (c ConditionSet) ContainsAll(required ConditionSet) bool {
	for token, held := range required {
		if held && !c[token] {
			return false
		}
	}
	return true
}

// String renders the tokens in sorted order for diagnostics.
func (c ConditionSet) String() string {
	tokens := make([]string, 0, len(c))
	for token, held := range c {
		if held {
			tokens = append(tokens, token)
		}
	}
	sort.Strings(tokens)
	return "{" + strings.Join(tokens, ", ") + "}"
}
