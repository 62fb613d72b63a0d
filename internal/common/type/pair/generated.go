// Released under an MIT license. See LICENSE.

package pair

import (
	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
)

// Is returns true if c is a non-empty *T.
func Is(c cell.I) bool {
	p, ok := c.(*T)

	return ok && cell.I(p) != Null
}

// To returns a *T if c is a non-empty *T; Otherwise it panics.
func To(c cell.I) *T {
	if t, ok := c.(*T); ok && cell.I(t) != Null {
		return t
	}

	panic(fault.New(fault.ArityOrShape, c, "expected a "+name))
}
