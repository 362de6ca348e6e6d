package observability

import (
	"fmt"
	"log/slog"
	"sync"
)

// observers registry maps observer names to implementations.
// Initialized with "noop" and "slog" observers.
var (
	observers = map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(slog.Default()),
	}
	mutex sync.RWMutex
)

// GetObserver retrieves a registered observer by name.
//
// This function enables configuration-driven observer selection, allowing JSON
// configurations to specify observers as strings that are resolved at runtime.
//
// Returns an error if the observer name is not registered.
//
// Example:
//
//	observer, err := observability.GetObserver("slog")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetObserver(name string) (Observer, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	obs, exists := observers[name]
	if !exists {
		return nil, fmt.Errorf("unknown observer: %s", name)
	}
	return obs, nil
}

// RegisterObserver registers a custom observer implementation under the given
// name. The name can then be referenced from config.FinderConfig.Observer.
//
// Example:
//
//	type metricsObserver struct{ counts map[observability.EventType]int }
//	func (o *metricsObserver) OnEvent(ctx context.Context, event observability.Event) {
//	    o.counts[event.Type]++
//	}
//
//	observability.RegisterObserver("metrics", newMetricsObserver())
func RegisterObserver(name string, observer Observer) {
	mutex.Lock()
	defer mutex.Unlock()

	observers[name] = observer
}
