// Released under an MIT license. See LICENSE.

// Package num provides softmacs's exact rational number type.
package num

import (
	"math/big"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/rational"
)

const name = "number"

// T (num) wraps Go's big.Rat type.
type T big.Rat

type num = T

// New creates a new num cell from a string. It panics if s is not a number.
func New(s string) cell.I {
	c, ok := Parse(s)
	if !ok {
		panic(fault.New(fault.Syntax, nil, "'"+s+"' is not a valid number"))
	}

	return c
}

// Parse creates a new num cell from a string, if possible.
func Parse(s string) (cell.I, bool) {
	v := &big.Rat{}

	if _, ok := v.SetString(s); !ok {
		return nil, false
	}

	return Rat(v), true
}

// Int creates a num from the integer i.
func Int(i int) cell.I {
	return Rat(big.NewRat(int64(i), 1))
}

// Rat wraps the *big.Rat r as a num.
func Rat(r *big.Rat) cell.I {
	return (*num)(r)
}

// Equal returns true if c is the same number as the num n.
func (n *num) Equal(c cell.I) bool {
	return Is(c) && n.Rat().Cmp(To(c).Rat()) == 0
}

// Literal returns the literal representation of the num n.
func (n *num) Literal() string {
	return n.String()
}

// Name returns the name of the num type.
func (n *num) Name() string {
	return name
}

// Rat returns the value of the num n as a *big.Rat.
func (n *num) Rat() *big.Rat {
	return (*big.Rat)(n)
}

// String returns the text of the num n.
func (n *num) String() string {
	return n.Rat().RatString()
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t num

	// The num type is a cell.
	_ = cell.I(&t)

	// The num type has a literal representation.
	_ = literal.I(&t)

	// The num type is a rational.
	_ = rational.I(&t)
}
