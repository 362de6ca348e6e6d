// Command wayfind runs built-in path finding scenarios, useful for exploring
// the engine and comparing search strategies from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tailored-agentic-units/wayfinder/config"
	"github.com/tailored-agentic-units/wayfinder/graph"
	"github.com/tailored-agentic-units/wayfinder/observability"
	"github.com/tailored-agentic-units/wayfinder/search"
)

func main() {
	var (
		scenario    = flag.String("scenario", "quest", "Scenario to run: quest, cycle, or grid")
		algorithm   = flag.String("algorithm", "dijkstra", "Search strategy: dijkstra or backtrack")
		maxDistance = flag.Float64("max-distance", 0, "Maximum cumulative path weight; 0 for unlimited")
		compare     = flag.Bool("compare", false, "Run both strategies and compare stats")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	observer := observability.NewSlogObserver(logger)

	run, err := buildScenario(*scenario)
	if err != nil {
		log.Fatalf("Failed to build scenario: %v", err)
	}

	cfg := config.DefaultFinderConfig("wayfind." + *scenario)
	finder := search.NewStatefulPathFinderWithDeps(run.graph, cfg, observer)

	opts := run.options
	opts.MaxDistance = *maxDistance
	opts.EnableBacktrack = *algorithm == "backtrack"

	ctx := context.Background()

	if *compare {
		dijkstra, backtracking := search.CompareStrategies(ctx, finder, run.start, run.target, opts)
		printResult("dijkstra-states", dijkstra)
		printResult("backtracking", backtracking)
		return
	}

	result := finder.FindPath(ctx, run.start, run.target, opts)
	printResult(result.Stats.Algorithm, result)
	if !result.Success {
		os.Exit(1)
	}
}

type scenarioRun struct {
	graph   *graph.StatefulGraph
	start   graph.NodeState
	target  string
	options search.Options
}

func buildScenario(name string) (scenarioRun, error) {
	switch name {
	case "quest":
		return buildQuest()
	case "cycle":
		return buildCycle()
	case "grid":
		return buildGrid()
	default:
		return scenarioRun{}, fmt.Errorf("unknown scenario: %s", name)
	}
}

// buildQuest is a locked-door scenario: the vault needs a key that must be
// picked up in the storeroom first.
func buildQuest() (scenarioRun, error) {
	g, err := graph.NewBuilder().
		Node("entrance", "Entrance").
		Node("hallway", "Hallway").
		Node("storeroom", "Storeroom").
		Node("vault", "Vault").
		Edge("entrance", "hallway", "walk", 1.0, nil).
		Edge("hallway", "storeroom", "walk", 1.0, nil).
		Edge("storeroom", "hallway", "walk", 1.0, nil).
		Edge("storeroom", "storeroom", "take key", 0.5, graph.Set("hasKey", true)).
		Edge("hallway", "vault", "unlock", 2.0,
			graph.ConditionalSet(graph.KeyEquals("hasKey", true), "vaultOpen", true)).
		Build()
	if err != nil {
		return scenarioRun{}, err
	}

	return scenarioRun{
		graph:  g,
		start:  graph.NewNodeState("entrance", nil),
		target: "vault",
	}, nil
}

// buildCycle is an accumulator scenario: the exit unlocks only after three
// laps around the loop.
func buildCycle() (scenarioRun, error) {
	increment := graph.Compute("count", func(s graph.NodeState) (any, bool) {
		count, _ := s.GetInt("count")
		return count + 1, true
	})

	g, err := graph.NewBuilder().
		Node("A", "Loop start").
		Node("B", "Loop middle").
		Node("C", "Loop end").
		Node("exit", "Exit").
		Edge("A", "B", "step", 1.0, nil).
		Edge("B", "C", "step", 1.0, nil).
		Edge("C", "A", "lap", 1.0, increment).
		Edge("A", "exit", "leave", 1.0, graph.ConditionalSet(func(s graph.NodeState) bool {
			count, _ := s.GetInt("count")
			return count >= 3
		}, "done", true)).
		Build()
	if err != nil {
		return scenarioRun{}, err
	}

	return scenarioRun{
		graph:   g,
		start:   graph.NewNodeState("A", nil),
		target:  "exit",
		options: search.Options{EnableBacktrack: true},
	}, nil
}

// buildGrid is a plain weighted grid with a cheap detour and an expensive
// shortcut.
func buildGrid() (scenarioRun, error) {
	g, err := graph.NewBuilder().
		Node("start", "Start").
		Node("mid", "Midpoint").
		Node("goal", "Goal").
		Edge("start", "goal", "shortcut", 5.0, nil).
		Edge("start", "mid", "walk", 1.0, nil).
		Edge("mid", "goal", "walk", 1.0, nil).
		Build()
	if err != nil {
		return scenarioRun{}, err
	}

	return scenarioRun{
		graph:  g,
		start:  graph.NewNodeState("start", nil),
		target: "goal",
	}, nil
}

func printResult(label string, result search.StatefulPathResult) {
	fmt.Printf("[%s] %s\n", label, result.Message)
	if !result.Success {
		fmt.Printf("  reason: %s\n", result.Reason)
		return
	}

	for i, action := range result.Path.Actions() {
		fmt.Printf("  %d. %s (%s -> %s)\n", i+1, action, result.Path.Edges[i].From, result.Path.Edges[i].To)
	}
	if end, ok := result.Path.EndState(); ok && len(end.Variables) > 0 {
		fmt.Printf("  end variables: %v\n", end.Variables)
	}
	fmt.Printf("  weight=%g visited=%d explored=%d backtracks=%d time=%s\n",
		result.Path.TotalWeight, result.Stats.VisitedNodes, result.Stats.ExploredEdges,
		result.BacktrackCount, result.Stats.Duration)
}
