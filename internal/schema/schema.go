// Package schema defines the HCL block structures for scene description
// files. The frame and track attributes stay unevaluated hcl.Expressions:
// the loader translates them into track-language expression trees rather
// than evaluating them as HCL values.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// Entity represents an `entity "name" { ... }` block in a scene file.
type Entity struct {
	Name      string         `hcl:"name,label"`
	Frame     hcl.Expression `hcl:"frame,optional"`
	Track     hcl.Expression `hcl:"track,optional"`
	CanChange *bool          `hcl:"can_change,optional"`
}

// Scene represents the top-level structure of a scene file.
type Scene struct {
	Time     *float64  `hcl:"time,optional"`
	Entities []*Entity `hcl:"entity,block"`
	Remain   hcl.Body  `hcl:",remain"`
}
