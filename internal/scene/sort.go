package scene

import (
	"context"
	"fmt"

	"github.com/vk/scenetick/internal/ctxlog"
	"github.com/vk/scenetick/internal/depgraph"
)

// visitorState tracks per-entity progress during one sort pass and is
// discarded afterwards.
type visitorState int

const (
	notVisited visitorState = iota
	visiting
	alreadyVisited
)

// sortEntitiesByDependency rebuilds entityArray in an order consistent
// with the dependency graph, using an iterative depth-first topological
// sort. It is a no-op unless the graph changed since the last sort, and
// skips entirely when there are no edges at all (the common case of an
// unconstrained scene).
//
// Entities with no constraints keep their original relative order: the
// stack is filled backwards so the rebuild preserves insertion order for
// them. A dependency on a name with no live entity is logged and skipped,
// because dangling references are expected during multi-pass loads. A true
// cycle has no valid order and fails with both offending names.
func (s *Scene) sortEntitiesByDependency(ctx context.Context) error {
	if !s.needSort.IsSet() {
		return nil
	}
	if s.graph.Edges() == 0 {
		s.needSort.UnSet()
		return nil
	}

	logger := ctxlog.FromContext(ctx)

	state := make(map[*Entity]visitorState, len(s.entityArray))
	stack := make([]*Entity, 0, len(s.entityArray))
	for i := len(s.entityArray) - 1; i >= 0; i-- {
		stack = append(stack, s.entityArray[i])
	}

	sorted := make([]*Entity, 0, len(s.entityArray))

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch state[e] {
		case notVisited:
			dependencies := s.graph.Ancestors(e.Name())
			if len(dependencies) == 0 {
				state[e] = alreadyVisited
				sorted = append(sorted, e)
				continue
			}

			// Re-push this entity; it is finalized on its second pop, after
			// every dependency has been placed ahead of it.
			state[e] = visiting
			stack = append(stack, e)

			for _, parentName := range dependencies {
				parent, ok := s.entities[parentName]
				if !ok {
					logger.Warn("Entity depends on an entity that does not exist, skipping.",
						"entity", e.Name(), "dependency", parentName)
					continue
				}
				switch state[parent] {
				case notVisited:
					stack = append(stack, parent)
				case visiting:
					return fmt.Errorf("%w: between %q and %q",
						depgraph.ErrCycleDetected, e.Name(), parentName)
				case alreadyVisited:
					// Already placed ahead of e; nothing to do.
				}
			}

		case visiting:
			// Second pop: all dependencies processed.
			state[e] = alreadyVisited
			sorted = append(sorted, e)

		case alreadyVisited:
			// Duplicate stack entry from being pushed twice.
		}
	}

	s.entityArray = sorted
	s.needSort.UnSet()
	return nil
}
