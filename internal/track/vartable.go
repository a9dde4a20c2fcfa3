package track

// VariableTable is a lexical environment mapping identifiers to compiled
// tracks. Lookup walks outward through parent links; a with-expression
// extends the chain with one child table per evaluation.
type VariableTable struct {
	parent    *VariableTable
	variables map[string]Track
}

// NewVariableTable creates a table with the given parent (nil for the root).
func NewVariableTable(parent *VariableTable) *VariableTable {
	return &VariableTable{
		parent:    parent,
		variables: make(map[string]Track),
	}
}

// Set binds id to t in this table, shadowing any outer binding.
func (v *VariableTable) Set(id string, t Track) {
	v.variables[id] = t
}

// Lookup resolves id against this table and its ancestors. It returns nil
// if the identifier is unbound anywhere in the chain. A nil table is a
// valid empty environment.
func (v *VariableTable) Lookup(id string) Track {
	if v == nil {
		return nil
	}
	if t, ok := v.variables[id]; ok {
		return t
	}
	return v.parent.Lookup(id)
}
