package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Frame is a rigid transform: a rotation followed by a translation.
type Frame struct {
	Rotation    mgl64.Quat
	Translation mgl64.Vec3
}

// Identity returns the identity frame.
func Identity() Frame {
	return Frame{Rotation: mgl64.QuatIdent()}
}

// FromTranslation returns a frame with the given translation and no rotation.
func FromTranslation(v mgl64.Vec3) Frame {
	return Frame{Rotation: mgl64.QuatIdent(), Translation: v}
}

// FromXYZYPRRadians builds a frame from a translation and yaw (about +Y),
// pitch (about +X) and roll (about +Z) angles in radians, applied in that
// order.
func FromXYZYPRRadians(x, y, z, yaw, pitch, roll float64) Frame {
	return Frame{
		Rotation:    mgl64.AnglesToQuat(yaw, pitch, roll, mgl64.YXZ),
		Translation: mgl64.Vec3{x, y, z},
	}
}

// FromXYZYPRDegrees is FromXYZYPRRadians with the angles given in degrees.
func FromXYZYPRDegrees(x, y, z, yaw, pitch, roll float64) Frame {
	return FromXYZYPRRadians(x, y, z,
		mgl64.DegToRad(yaw), mgl64.DegToRad(pitch), mgl64.DegToRad(roll))
}

// Mul composes two frames: the result applies o first, then f.
func (f Frame) Mul(o Frame) Frame {
	return Frame{
		Rotation:    f.Rotation.Mul(o.Rotation).Normalize(),
		Translation: f.Rotation.Rotate(o.Translation).Add(f.Translation),
	}
}

// LookAt returns a copy of f re-oriented so that its -Z axis points from
// f's translation toward target, with the given up vector. The translation
// is unchanged. If target coincides with the frame's own translation the
// frame is returned unmodified.
func (f Frame) LookAt(target, up mgl64.Vec3) Frame {
	if target.Sub(f.Translation).Len() < 1e-12 {
		return f
	}
	// QuatLookAtV yields the view (inverse) rotation; the object's world
	// orientation is its inverse.
	f.Rotation = mgl64.QuatLookAtV(f.Translation, target, up).Inverse()
	return f
}

// ApproxEqual reports whether two frames are equal within an absolute
// per-component epsilon, treating q and -q as the same rotation.
func (f Frame) ApproxEqual(o Frame, epsilon float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(f.Translation[i]-o.Translation[i]) > epsilon {
			return false
		}
	}
	return math.Abs(f.Rotation.Dot(o.Rotation)) > 1-epsilon
}

// String formats the frame for diagnostics.
func (f Frame) String() string {
	return fmt.Sprintf("Frame(t=%v, r=%v)", f.Translation, f.Rotation)
}
