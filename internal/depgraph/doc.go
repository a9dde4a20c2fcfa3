// Package depgraph maintains the directed "updates after" relationships
// between named scene entities. It stores two mutually consistent adjacency
// tables (ancestors and descendants) and is the source of truth the scene
// scheduler sorts against.
//
// The graph itself only rejects trivial cycles (self edges and immediate
// reverse edges) at insertion time. Longer cycles are detected by the
// scheduler's topological sort, which has the full picture.
package depgraph
