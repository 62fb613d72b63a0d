// Released under an MIT license. See LICENSE.

// Package boolean provides softmacs's boolean value type.
package boolean

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
)

const name = "boolean"

// T (boolean) wraps Go's bool type.
type T bool

type boolean = T

//nolint:gochecknoglobals
var (
	False = f()
	True  = t()
)

// Bool returns the boolean cell for the bool b.
func Bool(b bool) cell.I {
	if b {
		return True
	}

	return False
}

// Bool returns the boolean value of the boolean b.
func (b *boolean) Bool() bool {
	return bool(*b)
}

// Equal returns true if c is a boolean with a matching value.
func (b *boolean) Equal(c cell.I) bool {
	return Is(c) && b.Bool() == To(c).Bool()
}

// Literal returns the literal representation of the boolean b.
func (b *boolean) Literal() string {
	if bool(*b) {
		return "#t"
	}

	return "#f"
}

// Name returns the type name for the boolean b.
func (b *boolean) Name() string {
	return name
}

// Truth returns false only for the boolean false. Every other cell is true.
func Truth(c cell.I) bool {
	b, ok := c.(*boolean)

	return !ok || b.Bool()
}

func f() *boolean {
	v := boolean(false)

	return &v
}

func t() *boolean {
	v := boolean(true)

	return &v
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t boolean

	// The boolean type is a cell.
	_ = cell.I(&t)

	// The boolean type has a literal representation.
	_ = literal.I(&t)
}
