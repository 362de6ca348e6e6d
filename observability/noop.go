package observability

import "context"

// NoOpObserver provides a zero-cost Observer implementation that discards all
// events.
//
// Use NoOpObserver when observability is not needed to avoid per-expansion
// overhead in tight search loops. The implementation is stateless and can be
// safely shared across goroutines.
//
// Example:
//
//	finder, err := search.NewStatefulPathFinderWithDeps(g, cfg, observability.NoOpObserver{})
type NoOpObserver struct{}

// OnEvent discards the event without any processing.
func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
