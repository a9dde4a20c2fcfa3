package hclscene

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/scenetick/internal/expr"
)

// translateExpression converts an unevaluated HCL expression into the
// format-agnostic tagged tree the track compiler consumes. Function calls
// become tagged nodes, bare identifiers become variable references, and
// literals are evaluated statically via cty.
func translateExpression(e hcl.Expression) (*expr.Node, error) {
	switch ex := e.(type) {
	case *hclsyntax.FunctionCallExpr:
		args := make([]*expr.Node, len(ex.Args))
		for i, a := range ex.Args {
			n, err := translateExpression(a)
			if err != nil {
				return nil, err
			}
			args[i] = n
		}
		return expr.NewCall(ex.Name, args...), nil

	case *hclsyntax.ScopeTraversalExpr:
		if len(ex.Traversal) != 1 {
			return nil, fmt.Errorf("unsupported reference %q at %s",
				hclTraversalName(ex.Traversal), ex.SrcRange)
		}
		return expr.NewIdent(ex.Traversal.RootName()), nil

	case *hclsyntax.ObjectConsExpr:
		fields := make(map[string]*expr.Node, len(ex.Items))
		for _, item := range ex.Items {
			key, err := objectKey(item.KeyExpr)
			if err != nil {
				return nil, err
			}
			value, err := translateExpression(item.ValueExpr)
			if err != nil {
				return nil, err
			}
			fields[key] = value
		}
		return expr.NewObject(fields), nil

	case *hclsyntax.TupleConsExpr:
		items := make([]*expr.Node, len(ex.Exprs))
		for i, itemExpr := range ex.Exprs {
			n, err := translateExpression(itemExpr)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return expr.NewList(items...), nil

	case *hclsyntax.ParenthesesExpr:
		return translateExpression(ex.Expression)

	case *hclsyntax.UnaryOpExpr:
		if ex.Op == hclsyntax.OpNegate {
			operand, err := translateExpression(ex.Val)
			if err != nil {
				return nil, err
			}
			if operand.Kind != expr.Number {
				return nil, fmt.Errorf("cannot negate %s at %s", operand.Describe(), ex.SrcRange)
			}
			return expr.NewNumber(-operand.Num), nil
		}
		return nil, fmt.Errorf("unsupported unary operator at %s", ex.SrcRange)

	default:
		return staticLiteral(e)
	}
}

// staticLiteral evaluates an expression with no variables or functions and
// maps the resulting value onto a literal node.
func staticLiteral(e hcl.Expression) (*expr.Node, error) {
	val, diags := e.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("expression at %s is not a supported track expression: %s",
			e.Range(), diags.Error())
	}
	switch {
	case val.Type() == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return expr.NewNumber(f), nil
	case val.Type() == cty.String:
		return expr.NewString(val.AsString()), nil
	default:
		return nil, fmt.Errorf("unsupported literal of type %s at %s",
			val.Type().FriendlyName(), e.Range())
	}
}

// objectKey extracts the field name from an object item key, accepting
// both bare identifiers ({x = ...}) and quoted strings ({"x" = ...}).
func objectKey(keyExpr hclsyntax.Expression) (string, error) {
	if k, ok := keyExpr.(*hclsyntax.ObjectConsKeyExpr); ok {
		if st, ok := k.Wrapped.(*hclsyntax.ScopeTraversalExpr); ok && len(st.Traversal) == 1 {
			return st.Traversal.RootName(), nil
		}
		if val, diags := k.Wrapped.Value(nil); !diags.HasErrors() && val.Type() == cty.String {
			return val.AsString(), nil
		}
	}
	return "", fmt.Errorf("unsupported object key at %s", keyExpr.Range())
}

func hclTraversalName(t hcl.Traversal) string {
	name := t.RootName()
	for _, part := range t[1:] {
		if attr, ok := part.(hcl.TraverseAttr); ok {
			name += "." + attr.Name
		}
	}
	return name
}
