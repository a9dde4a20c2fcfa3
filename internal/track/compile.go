package track

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vk/scenetick/internal/depgraph"
	"github.com/vk/scenetick/internal/expr"
	"github.com/vk/scenetick/internal/geom"
)

// Compile turns a declarative expression tree into a Track owned by the
// named entity. env supplies frame lookup for entity references and the
// dependency graph registration hook; owner is the dependent side of every
// edge registered while compiling.
func Compile(owner string, env Environment, n *expr.Node) (Track, error) {
	return CompileInTable(owner, env, n, nil)
}

// CompileInTable is Compile with an explicit variable environment, used
// when recursing under a with-expression.
func CompileInTable(owner string, env Environment, n *expr.Node, table *VariableTable) (Track, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: empty expression", ErrUnrecognizedExpression)
	}

	switch n.Kind {
	case expr.Ident:
		return lookupVariable(table, n.Name)
	case expr.String:
		// A bare string is also an identifier reference. Entity names are
		// deliberately not resolved here: the full entity set is unknown
		// while tracks are being compiled.
		return lookupVariable(table, n.Str)
	case expr.Call:
		// handled below
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedExpression, n.Describe())
	}

	switch n.Tag {
	case "point", "frame":
		f, err := ParseFrame(n)
		if err != nil {
			return nil, err
		}
		return NewSplineTrack(geom.ConstantSpline(f)), nil

	case "spline":
		s, err := ParseSpline(n)
		if err != nil {
			return nil, err
		}
		return NewSplineTrack(s), nil

	case "entity":
		return compileEntity(owner, env, n)

	case "transform":
		a, err := CompileInTable(owner, env, n.Arg(0), table)
		if err != nil {
			return nil, err
		}
		b, err := CompileInTable(owner, env, n.Arg(1), table)
		if err != nil {
			return nil, err
		}
		return &TransformTrack{A: a, B: b}, nil

	case "combine":
		rot, err := CompileInTable(owner, env, n.Arg(0), table)
		if err != nil {
			return nil, err
		}
		trans, err := CompileInTable(owner, env, n.Arg(1), table)
		if err != nil {
			return nil, err
		}
		return &CombineTrack{Rotation: rot, Translation: trans}, nil

	case "orbit":
		radius, err := n.NumberArg(0)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		period, err := n.NumberArg(1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		if period == 0 {
			return nil, fmt.Errorf("%w: orbit period must be nonzero", ErrInvalidArgument)
		}
		return &OrbitTrack{Radius: radius, Period: period}, nil

	case "lookAt":
		base, err := CompileInTable(owner, env, n.Arg(0), table)
		if err != nil {
			return nil, err
		}
		target, err := CompileInTable(owner, env, n.Arg(1), table)
		if err != nil {
			return nil, err
		}
		up := mgl64.Vec3{0, 1, 0}
		if n.Arg(2) != nil {
			up, err = ParseVec3(n.Arg(2))
			if err != nil {
				return nil, fmt.Errorf("%w: lookAt up vector: %v", ErrInvalidArgument, err)
			}
		}
		return &LookAtTrack{Base: base, Target: target, Up: up}, nil

	case "timeShift":
		inner, err := CompileInTable(owner, env, n.Arg(0), table)
		if err != nil {
			return nil, err
		}
		switch inner.(type) {
		case *SplineTrack, *OrbitTrack:
			// Shifting time is only well-defined for self-contained tracks.
		default:
			return nil, fmt.Errorf("%w: timeShift requires a spline or orbit, got %T",
				ErrInvalidArgument, inner)
		}
		dt, err := n.NumberArg(1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return &TimeShiftTrack{Inner: inner, Dt: dt}, nil

	case "with":
		return compileWith(owner, env, n, table)

	case "follow":
		return nil, fmt.Errorf("%w: follow tracks", ErrNotImplemented)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedExpression, n.Tag)
	}
}

func lookupVariable(table *VariableTable, id string) (Track, error) {
	if t := table.Lookup(id); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnboundVariable, id)
}

func compileEntity(owner string, env Environment, n *expr.Node) (Track, error) {
	if env == nil || owner == "" {
		return nil, fmt.Errorf("%w: entity() requires an owning entity and scene", ErrInvalidArgument)
	}
	targetName, err := n.StringArg(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if targetName == "" {
		return nil, fmt.Errorf("%w: entity() target name is empty", ErrInvalidArgument)
	}

	childFrame := geom.Identity()
	if n.Arg(1) != nil {
		childFrame, err = ParseFrame(n.Arg(1))
		if err != nil {
			return nil, err
		}
	}

	if err := env.SetOrder(owner, targetName); err != nil {
		// The same target may legitimately be referenced several times in
		// one expression (e.g. both arguments of a lookAt); the constraint
		// already holds then.
		if !errors.Is(err, depgraph.ErrDuplicateDependency) {
			return nil, err
		}
	}
	return NewEntityTrack(targetName, env, childFrame), nil
}

func compileWith(owner string, env Environment, n *expr.Node, table *VariableTable) (Track, error) {
	bindings := n.Arg(0)
	if bindings == nil || bindings.Kind != expr.Object {
		return nil, fmt.Errorf("%w: with() requires a binding object", ErrInvalidArgument)
	}

	// Each binding value is compiled in the outer table: bindings do not see
	// each other or themselves. This is let, not let*.
	extended := NewVariableTable(table)
	for id, value := range bindings.Fields {
		bound, err := CompileInTable(owner, env, value, table)
		if err != nil {
			return nil, err
		}
		extended.Set(id, bound)
	}

	return CompileInTable(owner, env, n.Arg(1), extended)
}
