package graph

import "github.com/tailored-agentic-units/wayfinder/observability"

const (
	// Graph construction
	EventNodeAdd    observability.EventType = "graph.node.add"
	EventEdgeAdd    observability.EventType = "graph.edge.add"
	EventGraphBuild observability.EventType = "graph.build"
	EventBuildError observability.EventType = "graph.build.error"
)
