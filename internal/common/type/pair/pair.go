// Released under an MIT license. See LICENSE.

// Package pair provides softmacs's cons cell type.
package pair

import (
	"strings"

	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
)

const name = "pair"

//nolint:gochecknoglobals
var (
	// Null is the empty list. It is also used to mark the end of a list.
	Null cell.I
)

// T (pair) is a cons cell. Pairs are immutable once built.
type T struct {
	car cell.I
	cdr cell.I
}

type pair = T

// Equal returns true if c is a pair with elements that are equal to p's.
func (p *pair) Equal(c cell.I) bool {
	if p == Null || c == Null {
		return cell.I(p) == c
	}

	o, ok := c.(*pair)
	if !ok {
		return false
	}

	if p == o {
		return true
	}

	return p.car.Equal(o.car) && p.cdr.Equal(o.cdr)
}

// Literal returns the literal representation of the pair p.
func (p *pair) Literal() string {
	if p == Null {
		return "()"
	}

	var b strings.Builder

	b.WriteByte('(')
	b.WriteString(literal.String(p.car))

	tail := p.cdr
	for {
		if tail == Null {
			break
		}

		next, ok := tail.(*pair)
		if !ok {
			b.WriteString(" . ")
			b.WriteString(literal.String(tail))

			break
		}

		b.WriteByte(' ')
		b.WriteString(literal.String(next.car))

		tail = next.cdr
	}

	b.WriteByte(')')

	return b.String()
}

// Name returns the name for a pair type.
func (p *pair) Name() string {
	if p == Null {
		return "null"
	}

	return name
}

// String returns the text representation of the pair p.
func (p *pair) String() string {
	return p.Literal()
}

// Functions specific to pair.

// Car returns the car/head/first member of the pair c.
// If c is not a pair, this function will panic.
func Car(c cell.I) cell.I {
	return To(c).car
}

// Cdr returns the cdr/tail/rest member of the pair c.
// If c is not a pair, this function will panic.
func Cdr(c cell.I) cell.I {
	return To(c).cdr
}

// Cons conses h and t together to form a new pair.
func Cons(h, t cell.I) cell.I {
	return &pair{car: h, cdr: t}
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t pair

	// The pair type is a cell.
	_ = cell.I(&t)

	// The pair type has a literal representation.
	_ = literal.I(&t)
}

func init() { //nolint:gochecknoinits
	pair := &pair{}
	pair.car = pair
	pair.cdr = pair

	Null = cell.I(pair)
}
