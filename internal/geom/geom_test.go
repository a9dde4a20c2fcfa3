package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertVec3 compares per component with an absolute tolerance. Relative
// comparisons misbehave against exact-zero components.
func assertVec3(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestIdentity(t *testing.T) {
	f := Identity()
	v := mgl64.Vec3{1, 2, 3}
	assertVec3(t, v, f.Rotation.Rotate(v), 1e-12)
	assert.Equal(t, mgl64.Vec3{}, f.Translation)
}

func TestMul(t *testing.T) {
	t.Run("identity is neutral", func(t *testing.T) {
		f := FromXYZYPRDegrees(1, 2, 3, 45, 0, 0)
		assert.True(t, f.Mul(Identity()).ApproxEqual(f, 1e-9))
		assert.True(t, Identity().Mul(f).ApproxEqual(f, 1e-9))
	})

	t.Run("translations accumulate", func(t *testing.T) {
		a := FromTranslation(mgl64.Vec3{1, 0, 0})
		b := FromTranslation(mgl64.Vec3{0, 2, 0})
		got := a.Mul(b)
		assertVec3(t, mgl64.Vec3{1, 2, 0}, got.Translation, 1e-12)
	})

	t.Run("rotation applies to child translation", func(t *testing.T) {
		// Yaw 90 degrees maps +X to -Z.
		a := FromXYZYPRDegrees(0, 0, 0, 90, 0, 0)
		b := FromTranslation(mgl64.Vec3{1, 0, 0})
		got := a.Mul(b)
		assertVec3(t, mgl64.Vec3{0, 0, -1}, got.Translation, 1e-9)
	})
}

func TestLookAt(t *testing.T) {
	t.Run("faces target along -Z", func(t *testing.T) {
		f := FromTranslation(mgl64.Vec3{0, 0, 10})
		got := f.LookAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0})

		forward := got.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
		assertVec3(t, mgl64.Vec3{0, 0, -1}, forward, 1e-9)
		assert.Equal(t, f.Translation, got.Translation)
	})

	t.Run("faces an off-axis target", func(t *testing.T) {
		f := FromTranslation(mgl64.Vec3{0, 0, 0})
		got := f.LookAt(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})

		forward := got.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
		assertVec3(t, mgl64.Vec3{1, 0, 0}, forward, 1e-9)

		up := got.Rotation.Rotate(mgl64.Vec3{0, 1, 0})
		assertVec3(t, mgl64.Vec3{0, 1, 0}, up, 1e-9)
	})

	t.Run("faces a diagonal target", func(t *testing.T) {
		f := FromTranslation(mgl64.Vec3{1, 2, 3})
		target := mgl64.Vec3{4, 2, -1}
		got := f.LookAt(target, mgl64.Vec3{0, 1, 0})

		forward := got.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
		want := target.Sub(f.Translation).Normalize()
		assertVec3(t, want, forward, 1e-9)
	})

	t.Run("degenerate target is a no-op", func(t *testing.T) {
		f := FromXYZYPRDegrees(1, 2, 3, 30, 0, 0)
		got := f.LookAt(f.Translation, mgl64.Vec3{0, 1, 0})
		assert.True(t, got.ApproxEqual(f, 1e-12))
	})
}

func TestSplineSample(t *testing.T) {
	t.Run("empty spline is identity", func(t *testing.T) {
		var s Spline
		assert.True(t, s.Sample(3).ApproxEqual(Identity(), 1e-12))
	})

	t.Run("single key is constant", func(t *testing.T) {
		f := FromTranslation(mgl64.Vec3{5, 0, 0})
		s := ConstantSpline(f)
		for _, tm := range []float64{-10, 0, 0.5, 1e6} {
			assert.True(t, s.Sample(tm).ApproxEqual(f, 1e-12))
		}
	})

	t.Run("linear translation between keys", func(t *testing.T) {
		s := Spline{
			Times: []float64{0, 2},
			Keys: []Frame{
				FromTranslation(mgl64.Vec3{0, 0, 0}),
				FromTranslation(mgl64.Vec3{4, 0, 0}),
			},
		}
		got := s.Sample(1)
		assertVec3(t, mgl64.Vec3{2, 0, 0}, got.Translation, 1e-12)
	})

	t.Run("clamped extrapolation", func(t *testing.T) {
		s := Spline{
			Times: []float64{0, 1},
			Keys: []Frame{
				FromTranslation(mgl64.Vec3{0, 0, 0}),
				FromTranslation(mgl64.Vec3{1, 0, 0}),
			},
		}
		assert.True(t, s.Sample(-5).ApproxEqual(s.Keys[0], 1e-12))
		assert.True(t, s.Sample(99).ApproxEqual(s.Keys[1], 1e-12))
	})

	t.Run("cyclic extrapolation wraps", func(t *testing.T) {
		s := Spline{
			Times: []float64{0, 1, 2},
			Keys: []Frame{
				FromTranslation(mgl64.Vec3{0, 0, 0}),
				FromTranslation(mgl64.Vec3{1, 0, 0}),
				FromTranslation(mgl64.Vec3{0, 0, 0}),
			},
			Cyclic: true,
		}
		require.True(t, s.Sample(0.5).Translation.ApproxEqual(mgl64.Vec3{0.5, 0, 0}))
		assertVec3(t, mgl64.Vec3{0.5, 0, 0}, s.Sample(2.5).Translation, 1e-9)
		assertVec3(t, mgl64.Vec3{0.5, 0, 0}, s.Sample(-1.5).Translation, 1e-9)
	})

	t.Run("rotation takes the short arc", func(t *testing.T) {
		a := FromXYZYPRDegrees(0, 0, 0, 10, 0, 0)
		b := FromXYZYPRDegrees(0, 0, 0, 30, 0, 0)
		s := Spline{Times: []float64{0, 1}, Keys: []Frame{a, b}}
		mid := s.Sample(0.5)
		want := FromXYZYPRDegrees(0, 0, 0, 20, 0, 0)
		assert.True(t, mid.ApproxEqual(want, 1e-9), "mid = %v", mid)
	})
}

func TestFromXYZYPRRadians(t *testing.T) {
	// Yaw by pi/2 about +Y maps +X onto -Z.
	f := FromXYZYPRRadians(0, 0, 0, math.Pi/2, 0, 0)
	got := f.Rotation.Rotate(mgl64.Vec3{1, 0, 0})
	assertVec3(t, mgl64.Vec3{0, 0, -1}, got, 1e-9)
}
