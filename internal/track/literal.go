package track

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vk/scenetick/internal/expr"
	"github.com/vk/scenetick/internal/geom"
)

// ParseFrame interprets a literal expression node as a rigid transform.
// Accepted shapes:
//
//	point(x, y, z)                       translation only
//	frame(x, y, z)                       translation only
//	frame(x, y, z, yaw, pitch, roll)     angles in degrees
func ParseFrame(n *expr.Node) (geom.Frame, error) {
	if n == nil || n.Kind != expr.Call {
		return geom.Frame{}, fmt.Errorf("%w: expected a frame literal, got %s",
			ErrInvalidArgument, n.Describe())
	}

	switch n.Tag {
	case "point":
		v, err := ParseVec3(n)
		if err != nil {
			return geom.Frame{}, err
		}
		return geom.FromTranslation(v), nil

	case "frame":
		nums, err := numberArgs(n)
		if err != nil {
			return geom.Frame{}, err
		}
		switch len(nums) {
		case 3:
			return geom.FromTranslation(mgl64.Vec3{nums[0], nums[1], nums[2]}), nil
		case 6:
			return geom.FromXYZYPRDegrees(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]), nil
		default:
			return geom.Frame{}, fmt.Errorf("%w: frame() takes 3 or 6 numbers, got %d",
				ErrInvalidArgument, len(nums))
		}

	default:
		return geom.Frame{}, fmt.Errorf("%w: %q is not a frame literal", ErrInvalidArgument, n.Tag)
	}
}

// ParseVec3 interprets a node as a 3-vector: either point(x, y, z) or a
// bare list [x, y, z].
func ParseVec3(n *expr.Node) (mgl64.Vec3, error) {
	var items []*expr.Node
	switch {
	case n == nil:
		return mgl64.Vec3{}, fmt.Errorf("%w: expected a vector", ErrInvalidArgument)
	case n.Kind == expr.Call && n.Tag == "point":
		items = n.Args
	case n.Kind == expr.List:
		items = n.Items
	default:
		return mgl64.Vec3{}, fmt.Errorf("%w: expected a vector, got %s",
			ErrInvalidArgument, n.Describe())
	}

	if len(items) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%w: a vector takes 3 numbers, got %d",
			ErrInvalidArgument, len(items))
	}
	var v mgl64.Vec3
	for i, item := range items {
		if item == nil || item.Kind != expr.Number {
			return mgl64.Vec3{}, fmt.Errorf("%w: vector component %d must be a number",
				ErrInvalidArgument, i)
		}
		v[i] = item.Num
	}
	return v, nil
}

// ParseSpline interprets spline({times = [...], frames = [...],
// extrapolation = "cyclic"|"clamp"}) as a keyframed spline. A single-key
// spline degenerates to a constant.
func ParseSpline(n *expr.Node) (geom.Spline, error) {
	obj := n.Arg(0)
	if obj == nil || obj.Kind != expr.Object {
		return geom.Spline{}, fmt.Errorf("%w: spline() takes a keyed object", ErrInvalidArgument)
	}

	timesNode := obj.Fields["times"]
	framesNode := obj.Fields["frames"]
	if timesNode == nil || timesNode.Kind != expr.List ||
		framesNode == nil || framesNode.Kind != expr.List {
		return geom.Spline{}, fmt.Errorf("%w: spline() requires times and frames lists",
			ErrInvalidArgument)
	}
	if len(timesNode.Items) != len(framesNode.Items) {
		return geom.Spline{}, fmt.Errorf("%w: spline() times and frames lengths differ (%d vs %d)",
			ErrInvalidArgument, len(timesNode.Items), len(framesNode.Items))
	}
	if len(timesNode.Items) == 0 {
		return geom.Spline{}, fmt.Errorf("%w: spline() requires at least one key", ErrInvalidArgument)
	}

	s := geom.Spline{
		Times: make([]float64, len(timesNode.Items)),
		Keys:  make([]geom.Frame, len(framesNode.Items)),
	}
	prev := 0.0
	for i, item := range timesNode.Items {
		if item == nil || item.Kind != expr.Number {
			return geom.Spline{}, fmt.Errorf("%w: spline() time %d must be a number",
				ErrInvalidArgument, i)
		}
		if i > 0 && item.Num <= prev {
			return geom.Spline{}, fmt.Errorf("%w: spline() times must be strictly increasing",
				ErrInvalidArgument)
		}
		s.Times[i] = item.Num
		prev = item.Num
	}
	for i, item := range framesNode.Items {
		f, err := ParseFrame(item)
		if err != nil {
			return geom.Spline{}, err
		}
		s.Keys[i] = f
	}

	if mode := obj.Fields["extrapolation"]; mode != nil {
		if mode.Kind != expr.String {
			return geom.Spline{}, fmt.Errorf("%w: spline() extrapolation must be a string",
				ErrInvalidArgument)
		}
		switch mode.Str {
		case "cyclic":
			s.Cyclic = true
		case "clamp":
		default:
			return geom.Spline{}, fmt.Errorf("%w: unknown extrapolation mode %q",
				ErrInvalidArgument, mode.Str)
		}
	}
	return s, nil
}

func numberArgs(n *expr.Node) ([]float64, error) {
	nums := make([]float64, len(n.Args))
	for i := range n.Args {
		v, err := n.NumberArg(i)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		nums[i] = v
	}
	return nums, nil
}
