// Released under an MIT license. See LICENSE.

// Package special provides softmacs's #inert and #ignore constants.
package special

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
)

// T (special) is a named constant. Each constant has exactly one value.
type T struct {
	label string
}

type special = T

//nolint:gochecknoglobals
var (
	// Inert is the result of operations that are performed for effect.
	Inert cell.I = &special{"#inert"}

	// Ignore is the parameter that binds nothing.
	Ignore cell.I = &special{"#ignore"}
)

// Equal returns true if c is the same constant as s.
func (s *special) Equal(c cell.I) bool {
	return cell.I(s) == c
}

// Literal returns the literal representation of the constant s.
func (s *special) Literal() string {
	return s.label
}

// Name returns the type name for the constant s.
func (s *special) Name() string {
	return s.label[1:]
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t special

	// The special type is a cell.
	_ = cell.I(&t)

	// The special type has a literal representation.
	_ = literal.I(&t)
}
