// Released under an MIT license. See LICENSE.

// Package literal defines the interface for terms that can be printed.
package literal

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
)

// I (literal) is any type that can be expressed as a literal.
type I interface {
	Literal() string
}

// String returns the literal string representation for a cell. Cells
// without a literal representation print as their type name.
func String(c cell.I) string {
	if c == nil {
		return "#[nil]"
	}

	l, ok := c.(I)
	if !ok {
		return "#[" + c.Name() + "]"
	}

	return l.Literal()
}
