package depgraph

import (
	"fmt"
	"slices"

	"github.com/edwingeng/deque"
)

// Graph records ordering constraints between entity names. An edge
// (dependent, dependency) means dependent must be updated after dependency.
//
// ancestors maps a dependent to the names it depends on; descendants is the
// inverse. Neither table keeps empty lists: an entry whose last edge is
// cleared is removed entirely.
type Graph struct {
	ancestors   map[string][]string
	descendants map[string][]string

	// onChange, when set, is invoked after every structural edit so the
	// owner can schedule a re-sort.
	onChange func()
}

// New creates an empty graph. onChange may be nil.
func New(onChange func()) *Graph {
	return &Graph{
		ancestors:   make(map[string][]string),
		descendants: make(map[string][]string),
		onChange:    onChange,
	}
}

// SetOrder registers that dependent must be updated after dependency.
func (g *Graph) SetOrder(dependent, dependency string) error {
	if dependent == dependency {
		return fmt.Errorf("%w: %q depends on itself", ErrInvalidDependency, dependent)
	}
	if slices.Contains(g.ancestors[dependency], dependent) {
		return fmt.Errorf("%w: %q and %q already depend on each other in reverse",
			ErrInvalidDependency, dependent, dependency)
	}
	if slices.Contains(g.ancestors[dependent], dependency) {
		return fmt.Errorf("%w: %q -> %q", ErrDuplicateDependency, dependent, dependency)
	}

	g.ancestors[dependent] = append(g.ancestors[dependent], dependency)
	g.descendants[dependency] = append(g.descendants[dependency], dependent)

	g.markChanged()
	return nil
}

// ClearOrder removes a previously registered edge.
func (g *Graph) ClearOrder(dependent, dependency string) error {
	i := slices.Index(g.ancestors[dependent], dependency)
	if i < 0 {
		return fmt.Errorf("%w: %q -> %q", ErrMissingDependencyEdge, dependent, dependency)
	}
	g.ancestors[dependent] = slices.Delete(g.ancestors[dependent], i, i+1)
	if len(g.ancestors[dependent]) == 0 {
		delete(g.ancestors, dependent)
	}

	j := slices.Index(g.descendants[dependency], dependent)
	g.descendants[dependency] = slices.Delete(g.descendants[dependency], j, j+1)
	if len(g.descendants[dependency]) == 0 {
		delete(g.descendants, dependency)
	}

	g.markChanged()
	return nil
}

// RemoveEntity strips name from both tables, including every peer list that
// mentions it.
func (g *Graph) RemoveEntity(name string) {
	for _, dependency := range g.ancestors[name] {
		g.descendants[dependency] = removeName(g.descendants[dependency], name)
		if len(g.descendants[dependency]) == 0 {
			delete(g.descendants, dependency)
		}
	}
	delete(g.ancestors, name)

	for _, dependent := range g.descendants[name] {
		g.ancestors[dependent] = removeName(g.ancestors[dependent], name)
		if len(g.ancestors[dependent]) == 0 {
			delete(g.ancestors, dependent)
		}
	}
	delete(g.descendants, name)

	g.markChanged()
}

// Ancestors returns the names the given entity depends on, or nil.
func (g *Graph) Ancestors(name string) []string {
	return g.ancestors[name]
}

// Edges returns the number of registered dependency edges.
func (g *Graph) Edges() int {
	n := 0
	for _, list := range g.ancestors {
		n += len(list)
	}
	return n
}

// DescendantsOf returns every entity reachable through descendant edges
// from the given roots, each name at most once. The roots themselves are
// not included.
func (g *Graph) DescendantsOf(roots []string) []string {
	visited := make(map[string]bool, len(roots))
	queue := deque.NewDeque()
	for _, r := range roots {
		visited[r] = true
		queue.PushBack(r)
	}

	var result []string
	for queue.Len() != 0 {
		name := queue.Front().(string)
		queue.PopFront()
		for _, dependent := range g.descendants[name] {
			if !visited[dependent] {
				visited[dependent] = true
				result = append(result, dependent)
				queue.PushBack(dependent)
			}
		}
	}
	return result
}

func (g *Graph) markChanged() {
	if g.onChange != nil {
		g.onChange()
	}
}

func removeName(list []string, name string) []string {
	if i := slices.Index(list, name); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
