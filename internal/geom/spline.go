package geom

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Spline is a keyframed sequence of frames. Times must be strictly
// increasing and parallel to Keys. A cyclic spline wraps around its total
// duration; otherwise evaluation clamps to the first and last key.
type Spline struct {
	Times  []float64
	Keys   []Frame
	Cyclic bool
}

// ConstantSpline returns a single-key spline that evaluates to f at all times.
func ConstantSpline(f Frame) Spline {
	return Spline{Times: []float64{0}, Keys: []Frame{f}}
}

// Sample evaluates the spline at time t.
func (s Spline) Sample(t float64) Frame {
	switch len(s.Keys) {
	case 0:
		return Identity()
	case 1:
		return s.Keys[0]
	}

	first := s.Times[0]
	last := s.Times[len(s.Times)-1]

	if s.Cyclic {
		duration := last - first
		t = first + math.Mod(t-first, duration)
		if t < first {
			t += duration
		}
	} else {
		if t <= first {
			return s.Keys[0]
		}
		if t >= last {
			return s.Keys[len(s.Keys)-1]
		}
	}

	i := sort.SearchFloat64s(s.Times, t)
	if i > 0 && (i == len(s.Times) || s.Times[i] != t) {
		i--
	}
	if i >= len(s.Keys)-1 {
		return s.Keys[len(s.Keys)-1]
	}

	alpha := (t - s.Times[i]) / (s.Times[i+1] - s.Times[i])
	return interpolate(s.Keys[i], s.Keys[i+1], alpha)
}

// interpolate blends two frames: linear in translation, spherical in
// rotation, taking the shorter rotational arc.
func interpolate(a, b Frame, alpha float64) Frame {
	br := b.Rotation
	if a.Rotation.Dot(br) < 0 {
		br = mgl64.Quat{W: -br.W, V: br.V.Mul(-1)}
	}
	return Frame{
		Rotation:    mgl64.QuatSlerp(a.Rotation, br, alpha),
		Translation: a.Translation.Mul(1 - alpha).Add(b.Translation.Mul(alpha)),
	}
}
