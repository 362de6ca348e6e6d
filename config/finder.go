package config

// FinderConfig defines configuration for path finder construction.
//
// The Observer field is a string to enable JSON configuration with runtime
// resolution via the observability registry.
//
// Example resolution:
//
//	var cfg config.FinderConfig
//	json.Unmarshal(data, &cfg)
//	finder, err := search.NewStatefulPathFinder(g, cfg)
type FinderConfig struct {
	// Name identifies the finder for observability
	Name string `json:"name"`

	// Observer specifies which observer implementation to use ("noop", "slog", etc.)
	Observer string `json:"observer"`

	// MaxVisitsPerNode bounds how many times the backtracking search may hold
	// states for the same node on one candidate path. This limits how often a
	// state-accumulating cycle can be traversed.
	MaxVisitsPerNode int `json:"max_visits_per_node"`

	// MaxAlternatives caps how many alternative complete paths the
	// backtracking search reports alongside the cheapest one. It bounds
	// reporting only, never how far the search explores.
	MaxAlternatives int `json:"max_alternatives"`
}

// DefaultFinderConfig returns sensible defaults for path finder construction.
//
// Default values:
//   - Observer: "slog" for structured logging
//   - MaxVisitsPerNode: 8, enough for bounded state-accumulating cycles
//   - MaxAlternatives: 4
func DefaultFinderConfig(name string) FinderConfig {
	return FinderConfig{
		Name:             name,
		Observer:         "slog",
		MaxVisitsPerNode: 8,
		MaxAlternatives:  4,
	}
}

// Merge overlays non-zero fields from source onto this config.
func (c *FinderConfig) Merge(source *FinderConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if source.MaxVisitsPerNode > 0 {
		c.MaxVisitsPerNode = source.MaxVisitsPerNode
	}

	if source.MaxAlternatives > 0 {
		c.MaxAlternatives = source.MaxAlternatives
	}
}
