// Package track implements the procedural animation-track language. A
// declarative expression tree (package expr) is compiled into a tree of
// Track values, each a pure function from simulation time to a rigid
// transform.
//
// Compiling an entity(name) reference has one deliberate side effect: it
// registers an update-ordering edge on the owning scene's dependency graph,
// which is what lets the scheduler guarantee that a referenced entity's
// frame is current by the time it is read.
package track
