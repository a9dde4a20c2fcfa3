// Package expr defines the format-agnostic tagged value tree that track
// expressions are compiled from. The scene loader translates a concrete
// syntax (HCL) into this tree; the track compiler dispatches on node kinds
// and call tags without knowing anything about the source format.
package expr

import "fmt"

// Kind discriminates the node variants.
type Kind int

const (
	// Call is a tagged node with positional arguments, e.g. orbit(2, 4).
	Call Kind = iota
	// Ident is a bare identifier, resolved against the variable table.
	Ident
	// Number is a numeric literal.
	Number
	// String is a string literal.
	String
	// Object is a keyed collection of child nodes, e.g. with-bindings.
	Object
	// List is an ordered collection of child nodes.
	List
)

// Node is one vertex of the expression tree. Only the fields relevant to
// its Kind are populated.
type Node struct {
	Kind Kind

	Tag  string  // Call
	Args []*Node // Call

	Name string  // Ident
	Num  float64 // Number
	Str  string  // String

	Fields map[string]*Node // Object
	Items  []*Node          // List
}

// NewCall builds a Call node.
func NewCall(tag string, args ...*Node) *Node {
	return &Node{Kind: Call, Tag: tag, Args: args}
}

// NewIdent builds an Ident node.
func NewIdent(name string) *Node {
	return &Node{Kind: Ident, Name: name}
}

// NewNumber builds a Number node.
func NewNumber(v float64) *Node {
	return &Node{Kind: Number, Num: v}
}

// NewString builds a String node.
func NewString(s string) *Node {
	return &Node{Kind: String, Str: s}
}

// NewObject builds an Object node.
func NewObject(fields map[string]*Node) *Node {
	return &Node{Kind: Object, Fields: fields}
}

// NewList builds a List node.
func NewList(items ...*Node) *Node {
	return &Node{Kind: List, Items: items}
}

// Arg returns the i-th positional argument, or nil if out of range.
func (n *Node) Arg(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Args) {
		return nil
	}
	return n.Args[i]
}

// NumberArg returns the i-th argument as a float64.
func (n *Node) NumberArg(i int) (float64, error) {
	a := n.Arg(i)
	if a == nil || a.Kind != Number {
		return 0, fmt.Errorf("%s: argument %d must be a number", n.Describe(), i)
	}
	return a.Num, nil
}

// StringArg returns the i-th argument as a string.
func (n *Node) StringArg(i int) (string, error) {
	a := n.Arg(i)
	if a == nil || a.Kind != String {
		return "", fmt.Errorf("%s: argument %d must be a string", n.Describe(), i)
	}
	return a.Str, nil
}

// Describe renders a short human-readable tag for diagnostics.
func (n *Node) Describe() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case Call:
		return n.Tag + "(...)"
	case Ident:
		return n.Name
	case Number:
		return fmt.Sprintf("%g", n.Num)
	case String:
		return fmt.Sprintf("%q", n.Str)
	case Object:
		return "{...}"
	case List:
		return "[...]"
	}
	return "<unknown>"
}
