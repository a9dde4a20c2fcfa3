package depgraph

import "errors"

var (
	// ErrInvalidDependency is returned for a self edge, or for an edge whose
	// reverse already exists (a two-entity cycle caught at insertion time).
	ErrInvalidDependency = errors.New("invalid dependency")

	// ErrDuplicateDependency is returned when the exact edge already exists.
	ErrDuplicateDependency = errors.New("duplicate dependency")

	// ErrMissingDependencyEdge is returned when clearing an edge that was
	// never registered.
	ErrMissingDependencyEdge = errors.New("missing dependency edge")

	// ErrCycleDetected is reported by the scheduler's sort when the graph
	// contains a cycle of three or more entities. There is no valid update
	// order for such a graph.
	ErrCycleDetected = errors.New("dependency cycle detected")
)
