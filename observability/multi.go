package observability

import "context"

// MultiObserver fans out each event to a fixed list of observers, letting a
// single finder feed several sinks at once, such as structured logs plus an
// in-memory metrics collector.
//
// Observers are invoked sequentially in registration order; a slow sink
// delays the ones after it.
//
// Example:
//
//	observer := observability.NewMultiObserver(
//	    observability.NewSlogObserver(logger),
//	    metricsCollector,
//	)
//	observability.RegisterObserver("slog+metrics", observer)
type MultiObserver struct {
	targets []Observer
}

// NewMultiObserver creates a MultiObserver over the given observers.
// Nil entries are dropped so callers can pass optional sinks directly.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	targets := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			targets = append(targets, obs)
		}
	}
	return &MultiObserver{targets: targets}
}

// OnEvent forwards the event to every registered observer.
func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.targets {
		obs.OnEvent(ctx, event)
	}
}
