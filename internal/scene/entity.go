package scene

import (
	"time"

	"github.com/vk/scenetick/internal/geom"
	"github.com/vk/scenetick/internal/track"
)

// maxTeleportDistance is how far an entity may move in one tick before it
// is assumed to have teleported and its previous frame is snapped forward,
// zeroing its apparent velocity.
const maxTeleportDistance = 20.0

// Entity is a named, independently simulated object with a rigid transform.
// An entity with a track has its frame recomputed from the track every
// tick; an entity without one is externally driven through SetFrame.
type Entity struct {
	name          string
	frame         geom.Frame
	previousFrame geom.Frame

	// track is shared ownership: the same track tree may be aliased by
	// other entities' combinators while this entity swaps or drops it.
	track track.Track

	canChange            bool
	movedSinceSimulation bool
	lastChangeTime       time.Time
}

// NewEntity creates an entity at the identity frame.
func NewEntity(name string) *Entity {
	return &Entity{
		name:          name,
		frame:         geom.Identity(),
		previousFrame: geom.Identity(),
		canChange:     true,
		lastChangeTime: time.Now(),
	}
}

// Name returns the entity's stable unique name.
func (e *Entity) Name() string { return e.name }

// Frame returns the current rigid transform.
func (e *Entity) Frame() geom.Frame { return e.frame }

// PreviousFrame returns the transform from the previous tick.
func (e *Entity) PreviousFrame() geom.Frame { return e.previousFrame }

// SetFrame externally drives the entity to a new transform. The previous
// frame is intentionally left behind until the next tick so downstream
// systems can observe the motion.
func (e *Entity) SetFrame(f geom.Frame) {
	if f != e.frame {
		e.lastChangeTime = time.Now()
		e.movedSinceSimulation = true
	}
	e.frame = f
}

// Teleport places the entity at f with no implied motion: both the frame
// and the previous frame are set, so downstream systems see zero velocity.
func (e *Entity) Teleport(f geom.Frame) {
	if f != e.frame {
		e.lastChangeTime = time.Now()
	}
	e.frame = f
	e.previousFrame = f
}

// Track returns the entity's animation track, or nil if externally driven.
func (e *Entity) Track() track.Track { return e.track }

// SetTrack replaces the entity's track. A nil track makes the entity
// externally driven.
func (e *Entity) SetTrack(t track.Track) { e.track = t }

// CanChange reports whether the entity is allowed to move at all.
func (e *Entity) CanChange() bool { return e.canChange }

// SetCanChange marks the entity as static or movable. A static entity's
// track is not evaluated.
func (e *Entity) SetCanChange(b bool) { e.canChange = b }

// LastChangeTime returns the wall-clock time of the last observed change.
func (e *Entity) LastChangeTime() time.Time { return e.lastChangeTime }

// Simulate advances the entity to absTime. dt is the step since the
// previous tick; a NaN dt signals a discontinuous time change and a zero
// dt signals paused time, in which case the previous frame is preserved
// for inspection of in-motion objects.
func (e *Entity) Simulate(absTime, dt float64) {
	if e.frame != e.previousFrame {
		e.lastChangeTime = time.Now()
	}

	if (isNaN(dt) || dt != 0) && !e.movedSinceSimulation {
		e.previousFrame = e.frame
	}

	if e.track != nil && e.canChange {
		e.frame = e.track.ComputeFrame(absTime)

		if e.previousFrame.Translation.Sub(e.frame.Translation).Len() > maxTeleportDistance {
			// Teleport: drop the motion rather than reporting a huge velocity.
			e.previousFrame = e.frame
		}
	}

	e.movedSinceSimulation = false
}
