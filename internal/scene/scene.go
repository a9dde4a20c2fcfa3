package scene

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/tevino/abool/v2"

	"github.com/vk/scenetick/internal/depgraph"
	"github.com/vk/scenetick/internal/geom"
)

var (
	// ErrDuplicateEntity is returned when inserting a name already in use.
	ErrDuplicateEntity = errors.New("duplicate entity name")

	// ErrUnknownEntity is returned when removing a name that is not present.
	ErrUnknownEntity = errors.New("unknown entity")
)

// Scene owns the live entity collection, the dependency graph and the
// simulation clock. It implements track.Environment, so compiling a track
// against a scene registers ordering edges here and resolves entity frames
// from here.
type Scene struct {
	entities    map[string]*Entity
	entityArray []*Entity

	graph    *depgraph.Graph
	needSort *abool.AtomicBool

	time float64

	lastStructuralChangeTime time.Time
	lastChangeTime           time.Time
}

// New creates an empty scene at time zero.
func New() *Scene {
	s := &Scene{
		entities: make(map[string]*Entity),
		needSort: abool.New(),
	}
	s.graph = depgraph.New(func() { s.needSort.Set() })
	return s
}

// Insert adds an entity to the scene and simulates it once at the current
// time with a zero step, so it immediately has a settled frame.
func (s *Scene) Insert(e *Entity) error {
	if _, exists := s.entities[e.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateEntity, e.Name())
	}
	s.entities[e.Name()] = e
	s.entityArray = append(s.entityArray, e)
	s.lastStructuralChangeTime = time.Now()

	e.Simulate(s.time, 0)
	return nil
}

// Remove deletes the named entity and every dependency edge mentioning it.
func (s *Scene) Remove(name string) error {
	e, ok := s.entities[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}

	s.graph.RemoveEntity(name)
	delete(s.entities, name)
	if i := slices.Index(s.entityArray, e); i >= 0 {
		s.entityArray = slices.Delete(s.entityArray, i, i+1)
	}
	s.lastStructuralChangeTime = time.Now()
	return nil
}

// Entity returns the named entity if it is live.
func (s *Scene) Entity(name string) (*Entity, bool) {
	e, ok := s.entities[name]
	return e, ok
}

// Entities returns the live entities in update order. The slice is owned
// by the scene; callers must not mutate it.
func (s *Scene) Entities() []*Entity { return s.entityArray }

// Len returns the number of live entities.
func (s *Scene) Len() int { return len(s.entityArray) }

// Time returns the current simulation time in seconds.
func (s *Scene) Time() float64 { return s.time }

// SetTime jumps the clock to t and re-simulates twice with a NaN step so
// both frame and previous frame settle at the new time without implying
// motion.
func (s *Scene) SetTime(ctx context.Context, t float64) error {
	s.time = t
	for range 2 {
		if err := s.Simulate(ctx, math.NaN()); err != nil {
			return err
		}
	}
	return nil
}

// Simulate advances the scene by one tick: re-sort if the graph changed,
// advance the clock, then update every entity in dependency order. A NaN
// dt freezes the clock while still re-evaluating tracks.
func (s *Scene) Simulate(ctx context.Context, dt float64) error {
	if err := s.sortEntitiesByDependency(ctx); err != nil {
		return err
	}

	if !math.IsNaN(dt) {
		s.time += dt
	}

	for _, e := range s.entityArray {
		e.Simulate(s.time, dt)
		if e.lastChangeTime.After(s.lastChangeTime) {
			s.lastChangeTime = e.lastChangeTime
		}
	}
	return nil
}

// SetOrder registers that dependent must update after dependency.
// It implements track.OrderRegistrar.
func (s *Scene) SetOrder(dependent, dependency string) error {
	return s.graph.SetOrder(dependent, dependency)
}

// ClearOrder removes a previously registered ordering constraint.
func (s *Scene) ClearOrder(dependent, dependency string) error {
	return s.graph.ClearOrder(dependent, dependency)
}

// DescendantsOf returns every entity riding on the given roots through
// dependency edges, e.g. to cascade a teleport.
func (s *Scene) DescendantsOf(roots []string) []string {
	return s.graph.DescendantsOf(roots)
}

// EntityFrame implements track.FrameResolver.
func (s *Scene) EntityFrame(name string) (geom.Frame, bool) {
	if e, ok := s.entities[name]; ok {
		return e.Frame(), true
	}
	return geom.Frame{}, false
}

// NeedsSort reports whether the graph changed since the last sort.
func (s *Scene) NeedsSort() bool { return s.needSort.IsSet() }

// LastStructuralChangeTime returns when an entity was last added or removed.
func (s *Scene) LastStructuralChangeTime() time.Time { return s.lastStructuralChangeTime }

// LastChangeTime returns the most recent change time across all entities,
// used downstream for cache invalidation.
func (s *Scene) LastChangeTime() time.Time { return s.lastChangeTime }

func isNaN(f float64) bool { return math.IsNaN(f) }
