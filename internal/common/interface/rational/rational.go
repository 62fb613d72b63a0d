// Released under an MIT license. See LICENSE.

// Package rational defines the interface for softmacs's numeric types.
package rational

import (
	"math/big"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
)

// I (rational) is anything that can be treated as a rational number.
type I interface {
	Rat() *big.Rat
}

type rational = I

// Number returns the *big.Rat value for a cell, if possible.
func Number(c cell.I) *big.Rat {
	r, ok := c.(rational)
	if !ok {
		// Not all cell types can be treated as numbers.
		panic(fault.New(fault.ArityOrShape, c, "expected a number"))
	}

	return r.Rat()
}
