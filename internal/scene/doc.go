// Package scene owns the live entity collection and the per-tick update
// scheduler. Each simulation step it lazily re-sorts the entities into an
// order consistent with the dependency graph, advances simulation time,
// and invokes every entity's update in that order, so that an entity
// reading another entity's frame always observes this tick's value.
//
// The scene and its graph are single-threaded: structural edits and
// simulation ticks must come from one goroutine per scene.
package scene
