// Package config defines configuration structures for path finders.
//
// Configuration follows the initialization-only pattern: structs are populated
// from JSON or code, then transformed into domain objects by constructors and
// never consulted again. Observer fields are strings resolved at runtime
// through the observability registry, which keeps configurations serializable.
//
// Example JSON:
//
//	{
//	  "name": "quest-finder",
//	  "observer": "slog",
//	  "max_visits_per_node": 8,
//	  "max_alternatives": 4
//	}
package config
