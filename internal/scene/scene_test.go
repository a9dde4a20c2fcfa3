package scene

import (
	"context"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/scenetick/internal/depgraph"
	"github.com/vk/scenetick/internal/expr"
	"github.com/vk/scenetick/internal/geom"
	"github.com/vk/scenetick/internal/track"
)

func names(entities []*Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Name()
	}
	return out
}

func insertAll(t *testing.T, s *Scene, entityNames ...string) {
	t.Helper()
	for _, n := range entityNames {
		require.NoError(t, s.Insert(NewEntity(n)))
	}
}

// assertVec3 compares per component with an absolute tolerance.
func assertVec3(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestInsertRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate names are rejected", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Insert(NewEntity("a")))
		err := s.Insert(NewEntity("a"))
		assert.ErrorIs(t, err, ErrDuplicateEntity)
	})

	t.Run("remove strips graph edges", func(t *testing.T) {
		s := New()
		insertAll(t, s, "a", "b", "c")
		require.NoError(t, s.SetOrder("b", "a"))
		require.NoError(t, s.SetOrder("c", "b"))

		require.NoError(t, s.Remove("b"))
		require.NoError(t, s.Simulate(ctx, 0.1))

		assert.Equal(t, []string{"a", "c"}, names(s.Entities()))
		assert.Empty(t, s.DescendantsOf([]string{"a"}))
	})

	t.Run("removing an unknown entity errors", func(t *testing.T) {
		s := New()
		assert.ErrorIs(t, s.Remove("ghost"), ErrUnknownEntity)
	})
}

func TestSortTopologicalValidity(t *testing.T) {
	ctx := context.Background()
	s := New()
	insertAll(t, s, "d", "c", "b", "a")
	// d -> c -> b -> a (each depends on the next).
	require.NoError(t, s.SetOrder("d", "c"))
	require.NoError(t, s.SetOrder("c", "b"))
	require.NoError(t, s.SetOrder("b", "a"))

	require.NoError(t, s.Simulate(ctx, 0.1))

	order := names(s.Entities())
	index := make(map[string]int, len(order))
	for i, n := range order {
		index[n] = i
	}
	for _, edge := range [][2]string{{"d", "c"}, {"c", "b"}, {"b", "a"}} {
		assert.Less(t, index[edge[1]], index[edge[0]],
			"%s must update before %s", edge[1], edge[0])
	}
}

func TestSortStability(t *testing.T) {
	ctx := context.Background()
	s := New()
	insertAll(t, s, "u1", "u2", "camera", "u3", "ship", "u4")
	require.NoError(t, s.SetOrder("camera", "ship"))

	require.NoError(t, s.Simulate(ctx, 0.1))

	// Unconstrained entities keep their relative insertion order.
	var unconstrained []string
	for _, n := range names(s.Entities()) {
		if n != "camera" && n != "ship" {
			unconstrained = append(unconstrained, n)
		}
	}
	assert.Equal(t, []string{"u1", "u2", "u3", "u4"}, unconstrained)
}

func TestSortCycleDetection(t *testing.T) {
	ctx := context.Background()

	t.Run("three-node cycle fails at sort time", func(t *testing.T) {
		s := New()
		insertAll(t, s, "a", "b", "c")
		require.NoError(t, s.SetOrder("a", "b"))
		require.NoError(t, s.SetOrder("b", "c"))
		require.NoError(t, s.SetOrder("c", "a"))

		err := s.Simulate(ctx, 0.1)
		assert.ErrorIs(t, err, depgraph.ErrCycleDetected)
	})

	t.Run("self edge fails immediately at SetOrder", func(t *testing.T) {
		s := New()
		insertAll(t, s, "a")
		err := s.SetOrder("a", "a")
		assert.ErrorIs(t, err, depgraph.ErrInvalidDependency)
	})
}

func TestSortIdempotence(t *testing.T) {
	ctx := context.Background()
	s := New()
	insertAll(t, s, "c", "b", "a")
	require.NoError(t, s.SetOrder("c", "a"))

	require.NoError(t, s.Simulate(ctx, 0.1))
	first := names(s.Entities())
	assert.False(t, s.NeedsSort(), "dirty flag must clear after a sort")

	require.NoError(t, s.Simulate(ctx, 0.1))
	assert.Equal(t, first, names(s.Entities()))
}

func TestSortDanglingDependency(t *testing.T) {
	ctx := context.Background()
	s := New()
	insertAll(t, s, "camera")
	// Edge to an entity that was never created: tolerated, not fatal.
	require.NoError(t, s.SetOrder("camera", "ghost"))

	require.NoError(t, s.Simulate(ctx, 0.1))
	assert.Equal(t, []string{"camera"}, names(s.Entities()))
}

func TestSimulateClock(t *testing.T) {
	ctx := context.Background()

	t.Run("dt accumulates", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Simulate(ctx, 0.25))
		require.NoError(t, s.Simulate(ctx, 0.25))
		assert.InDelta(t, 0.5, s.Time(), 1e-12)
	})

	t.Run("NaN dt freezes the clock", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Simulate(ctx, 1))
		require.NoError(t, s.Simulate(ctx, math.NaN()))
		assert.InDelta(t, 1.0, s.Time(), 1e-12)
	})

	t.Run("SetTime settles previous frames", func(t *testing.T) {
		s := New()
		e := NewEntity("orbiter")
		tr, err := track.Compile("orbiter", s, expr.NewCall("orbit",
			expr.NewNumber(1), expr.NewNumber(8)))
		require.NoError(t, err)
		e.SetTrack(tr)
		require.NoError(t, s.Insert(e))

		require.NoError(t, s.SetTime(ctx, 2))
		assert.InDelta(t, 2.0, s.Time(), 1e-12)
		assert.Equal(t, e.Frame(), e.PreviousFrame())
	})
}

func TestTrackDrivenEntity(t *testing.T) {
	ctx := context.Background()
	s := New()
	e := NewEntity("orbiter")
	tr, err := track.Compile("orbiter", s, expr.NewCall("orbit",
		expr.NewNumber(2), expr.NewNumber(4)))
	require.NoError(t, err)
	e.SetTrack(tr)
	require.NoError(t, s.Insert(e))

	// Insert simulates once at t=0.
	assertVec3(t, mgl64.Vec3{0, 0, 2}, e.Frame().Translation, 1e-9)

	require.NoError(t, s.Simulate(ctx, 1))
	assertVec3(t, mgl64.Vec3{2, 0, 0}, e.Frame().Translation, 1e-9)

	t.Run("static entity ignores its track", func(t *testing.T) {
		s := New()
		e := NewEntity("rock")
		tr, err := track.Compile("rock", s, expr.NewCall("orbit",
			expr.NewNumber(2), expr.NewNumber(4)))
		require.NoError(t, err)
		e.SetTrack(tr)
		e.SetCanChange(false)
		require.NoError(t, s.Insert(e))

		require.NoError(t, s.Simulate(ctx, 1))
		assert.True(t, e.Frame().ApproxEqual(geom.Identity(), 1e-12))
	})
}

// TestShipCameraScenario is the end-to-end ordering scenario: a camera
// whose track reads the ship's frame must observe the ship's frame from
// this tick, not the previous one.
func TestShipCameraScenario(t *testing.T) {
	ctx := context.Background()
	s := New()

	// Camera first, so only the dependency sort can put the ship ahead.
	camera := NewEntity("Camera")
	require.NoError(t, s.Insert(camera))
	ship := NewEntity("Ship")
	require.NoError(t, s.Insert(ship))

	// lookAt(entity("Ship", point(0,0,10)), entity("Ship")): ride 10 units
	// behind the ship, always facing it.
	n := expr.NewCall("lookAt",
		expr.NewCall("entity", expr.NewString("Ship"),
			expr.NewCall("point", expr.NewNumber(0), expr.NewNumber(0), expr.NewNumber(10))),
		expr.NewCall("entity", expr.NewString("Ship")))
	tr, err := track.Compile("Camera", s, n)
	require.NoError(t, err)
	camera.SetTrack(tr)

	require.True(t, s.NeedsSort())
	require.NoError(t, s.Simulate(ctx, 0.1))
	assert.Equal(t, []string{"Ship", "Camera"}, names(s.Entities()))

	// Externally drive the ship, then tick once: the camera must see the
	// new frame, not the stale one.
	shipAt := geom.FromTranslation(mgl64.Vec3{5, 0, 0})
	ship.SetFrame(shipAt)
	require.NoError(t, s.Simulate(ctx, 0.1))

	camFrame := camera.Frame()
	assertVec3(t, mgl64.Vec3{5, 0, 10}, camFrame.Translation, 1e-9)

	forward := camFrame.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
	want := shipAt.Translation.Sub(camFrame.Translation).Normalize()
	assertVec3(t, want, forward, 1e-9)
}

func TestDescendantsCascade(t *testing.T) {
	s := New()
	insertAll(t, s, "station", "shuttle", "drone")
	require.NoError(t, s.SetOrder("shuttle", "station"))
	require.NoError(t, s.SetOrder("drone", "shuttle"))

	got := s.DescendantsOf([]string{"station"})
	assert.ElementsMatch(t, []string{"shuttle", "drone"}, got)
}
