// Released under an MIT license. See LICENSE.

// Package node defines the interface for runtime terms with a canonical
// structure: environments, combiners and named constants.
package node

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
)

// Tags for the canonical encoding.
const (
	Null byte = iota
	Boolean
	Symbol
	String
	Number
	Pair
	Inert
	Ignore
	Backref
)

// Tags for runtime terms.
const (
	Environment byte = 0x10 + iota
	Primitive
	Operative
	Applicative
	Constant
)

// I (node) is any runtime term that can describe its own structure.
type I interface {
	cell.I

	Kind() byte
	Label() string
	Children() []cell.I
}
