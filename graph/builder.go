package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/wayfinder/observability"
)

// Builder assembles a StatefulGraph fluently. Construction errors are
// accumulated and surfaced together by Build, so authoring code can chain
// calls without checking each one:
//
//	g, err := graph.NewBuilder().
//	    Node("A", "Entrance").
//	    Node("B", "Hallway").
//	    Node("C", "Vault").
//	    Edge("A", "B", "walk", 1.0, nil).
//	    Edge("B", "C", "unlock", 1.0, graph.Set("open", true), "hasKey").
//	    Build()
//
// A Builder is not safe for concurrent use. The graph it produces must be
// fully built before any concurrent search begins; Build seals the builder,
// and further mutations after Build are rejected.
type Builder struct {
	graph    *StatefulGraph
	errs     []error
	observer observability.Observer
	built    bool
}

// NewBuilder creates an empty builder with a no-op observer.
func NewBuilder() *Builder {
	return &Builder{
		graph:    NewStatefulGraph(),
		observer: observability.NoOpObserver{},
	}
}

// WithObserver attaches an observer that receives construction events.
// A nil observer restores the no-op default.
func (b *Builder) WithObserver(observer observability.Observer) *Builder {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	b.observer = observer
	return b
}

// Node adds a node with the given id, name, and property tags.
func (b *Builder) Node(id, name string, properties ...string) *Builder {
	return b.AddNode(NewNode(id, name, properties...))
}

// AddNode adds a fully specified node.
func (b *Builder) AddNode(node Node) *Builder {
	if b.sealed("AddNode") {
		return b
	}

	if err := b.graph.AddNode(node); err != nil {
		b.record(err)
		return b
	}

	b.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventNodeAdd,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "graph.builder",
		Data:      map[string]any{"node": node.ID},
	})
	return b
}

// Edge adds a stateful edge. A nil transform behaves like Identity.
func (b *Builder) Edge(from, to, action string, weight float64, transform StateTransform, conditions ...string) *Builder {
	return b.AddEdge(NewStatefulEdge(from, to, action, weight, transform, conditions...))
}

// AddEdge adds a fully specified edge.
func (b *Builder) AddEdge(edge StatefulEdge) *Builder {
	if b.sealed("AddEdge") {
		return b
	}

	if err := b.graph.AddEdge(edge); err != nil {
		b.record(err)
		return b
	}

	b.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventEdgeAdd,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "graph.builder",
		Data: map[string]any{
			"from":   edge.From,
			"to":     edge.To,
			"action": edge.Action,
			"weight": edge.Weight,
		},
	})
	return b
}

// Chain connects the given nodes in sequence with identical edges: each link
// uses the same action label, weight, and transform. All nodes must already
// exist.
//
// Example:
//
//	b.Chain("walk", 1.0, graph.Identity(), "A", "B", "C", "D")
func (b *Builder) Chain(action string, weight float64, transform StateTransform, nodeIDs ...string) *Builder {
	if len(nodeIDs) < 2 {
		b.record(fmt.Errorf("chain requires at least 2 nodes, got %d", len(nodeIDs)))
		return b
	}

	for i := 0; i < len(nodeIDs)-1; i++ {
		b.Edge(nodeIDs[i], nodeIDs[i+1], action, weight, transform)
	}
	return b
}

// Bidirectional adds a pair of edges between two nodes, one in each
// direction, sharing the action label, weight, transform, and conditions.
func (b *Builder) Bidirectional(a, c, action string, weight float64, transform StateTransform, conditions ...string) *Builder {
	b.Edge(a, c, action, weight, transform, conditions...)
	b.Edge(c, a, action, weight, transform, conditions...)
	return b
}

// Build seals the builder and returns the constructed graph, or the joined
// construction errors if any call failed. After a successful Build the graph
// must be treated as an immutable snapshot.
func (b *Builder) Build() (*StatefulGraph, error) {
	if b.built {
		return nil, fmt.Errorf("builder already built")
	}
	b.built = true

	if len(b.errs) > 0 {
		return nil, fmt.Errorf("graph construction failed: %w", errors.Join(b.errs...))
	}

	b.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventGraphBuild,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "graph.builder",
		Data: map[string]any{
			"nodes": b.graph.NodeCount(),
			"edges": b.graph.EdgeCount(),
		},
	})

	return b.graph, nil
}

func (b *Builder) sealed(op string) bool {
	if b.built {
		b.record(fmt.Errorf("%s called after Build", op))
		return true
	}
	return false
}

func (b *Builder) record(err error) {
	b.errs = append(b.errs, err)

	b.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventBuildError,
		Level:     observability.LevelError,
		Timestamp: time.Now(),
		Source:    "graph.builder",
		Data:      map[string]any{"error": err.Error()},
	})
}
