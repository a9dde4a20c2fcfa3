package track

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vk/scenetick/internal/geom"
)

// Track is a compiled, time-parameterized rigid transform. ComputeFrame
// must be a pure function of the track tree and time: repeated evaluation
// at the same time yields the same frame, and sibling evaluations are
// order-independent.
type Track interface {
	ComputeFrame(time float64) geom.Frame
}

// FrameResolver looks up the current frame of a live entity by name. It is
// the one external read a track evaluation can perform.
type FrameResolver interface {
	EntityFrame(name string) (geom.Frame, bool)
}

// OrderRegistrar records that dependent must be updated after dependency.
type OrderRegistrar interface {
	SetOrder(dependent, dependency string) error
}

// Environment is what the compiler needs from the owning scene. It is a
// non-owning back-reference: tracks never outlive the scene they were
// compiled against.
type Environment interface {
	FrameResolver
	OrderRegistrar
}

// SplineTrack samples a keyframed spline of rigid transforms. Unlike the
// other variants it is mutable: SetSpline supports interactive editing,
// and callers must only invoke it between simulation ticks.
type SplineTrack struct {
	spline  geom.Spline
	changed bool
}

// NewSplineTrack wraps the given spline.
func NewSplineTrack(s geom.Spline) *SplineTrack {
	return &SplineTrack{spline: s}
}

// ComputeFrame samples the spline at the given time.
func (t *SplineTrack) ComputeFrame(time float64) geom.Frame {
	return t.spline.Sample(time)
}

// Spline returns the current spline.
func (t *SplineTrack) Spline() geom.Spline {
	return t.spline
}

// SetSpline replaces the spline.
func (t *SplineTrack) SetSpline(s geom.Spline) {
	t.spline = s
	t.changed = true
}

// Changed reports whether SetSpline was ever invoked.
func (t *SplineTrack) Changed() bool {
	return t.changed
}

// EntityTrack evaluates to the referenced entity's current frame composed
// with a fixed child offset. A dangling reference is not an error: during
// multi-pass scene initialization the target may not exist yet, and the
// track degrades to the bare child offset.
type EntityTrack struct {
	entityName string
	resolver   FrameResolver
	childFrame geom.Frame
}

// NewEntityTrack builds an entity reference track. Callers normally go
// through Compile, which also registers the ordering edge.
func NewEntityTrack(entityName string, resolver FrameResolver, childFrame geom.Frame) *EntityTrack {
	return &EntityTrack{entityName: entityName, resolver: resolver, childFrame: childFrame}
}

// ComputeFrame reads the target entity's frame, tolerating absence.
func (t *EntityTrack) ComputeFrame(time float64) geom.Frame {
	if f, ok := t.resolver.EntityFrame(t.entityName); ok {
		return f.Mul(t.childFrame)
	}
	return t.childFrame
}

// EntityName returns the referenced entity's name. The target cannot be
// changed once the track is created, but the child frame may be.
func (t *EntityTrack) EntityName() string {
	return t.entityName
}

// ChildFrame returns the fixed offset applied to the target's frame.
func (t *EntityTrack) ChildFrame() geom.Frame {
	return t.childFrame
}

// SetChildFrame replaces the offset.
func (t *EntityTrack) SetChildFrame(f geom.Frame) {
	t.childFrame = f
}

// TransformTrack composes two tracks: a's frame times b's frame.
type TransformTrack struct {
	A, B Track
}

func (t *TransformTrack) ComputeFrame(time float64) geom.Frame {
	return t.A.ComputeFrame(time).Mul(t.B.ComputeFrame(time))
}

// CombineTrack takes its rotation from one track and its translation from
// another.
type CombineTrack struct {
	Rotation    Track
	Translation Track
}

func (t *CombineTrack) ComputeFrame(time float64) geom.Frame {
	return geom.Frame{
		Rotation:    t.Rotation.ComputeFrame(time).Rotation,
		Translation: t.Translation.ComputeFrame(time).Translation,
	}
}

// OrbitTrack is a closed-form circular orbit in the XZ plane. At time 0
// the position is (0, 0, radius); the yaw tracks the orbit angle.
type OrbitTrack struct {
	Radius float64
	Period float64
}

func (t *OrbitTrack) ComputeFrame(time float64) geom.Frame {
	angle := 2 * math.Pi * time / t.Period
	return geom.FromXYZYPRRadians(math.Sin(angle)*t.Radius, 0, math.Cos(angle)*t.Radius, angle, 0, 0)
}

// LookAtTrack evaluates the base track, then re-orients the result to face
// the target track's translation using the configured up vector.
type LookAtTrack struct {
	Base   Track
	Target Track
	Up     mgl64.Vec3
}

func (t *LookAtTrack) ComputeFrame(time float64) geom.Frame {
	f := t.Base.ComputeFrame(time)
	return f.LookAt(t.Target.ComputeFrame(time).Translation, t.Up)
}

// TimeShiftTrack evaluates its inner track at time + dt. The compiler only
// permits spline and orbit inner tracks, where shifting time is
// well-defined.
type TimeShiftTrack struct {
	Inner Track
	Dt    float64
}

func (t *TimeShiftTrack) ComputeFrame(time float64) geom.Frame {
	return t.Inner.ComputeFrame(time + t.Dt)
}
