// Released under an MIT license. See LICENSE.

// Package validate checks the shape of operand lists.
package validate

import (
	"fmt"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/list"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
)

// Variadic returns the first min to max operands in actual and the rest.
// It panics if there are fewer than min operands.
func Variadic(actual cell.I, min, max int) ([]cell.I, cell.I) {
	expected := make([]cell.I, 0, max)

	for i := 0; i < max; i++ {
		if actual == pair.Null {
			if i < min {
				s := Count(min, "operand", "s")
				fault.Shape(actual, fmt.Sprintf("expected %s, passed %d", s, i))
			}

			break
		}

		if !pair.Is(actual) {
			fault.Shape(actual, "improper operand list")
		}

		expected = append(expected, pair.Car(actual))

		actual = pair.Cdr(actual)
	}

	return expected, actual
}

// Fixed returns the operands in actual. It panics if there are fewer
// than min or more than max operands.
func Fixed(actual cell.I, min, max int) []cell.I {
	expected, rest := Variadic(actual, min, max)
	if rest != pair.Null {
		s := Count(max, "operand", "s")
		n := len(expected) + int(list.Length(rest))

		fault.Shape(actual, fmt.Sprintf("expected %s, passed %d", s, n))
	}

	return expected
}

// Proper panics if actual is not a proper list.
func Proper(actual cell.I) cell.I {
	for c := actual; c != pair.Null; c = pair.Cdr(c) {
		if !pair.Is(c) {
			fault.Shape(actual, "improper operand list")
		}
	}

	return actual
}

// Count returns n and label, pluralized with p when n is not 1.
func Count(n int, label string, p string) string {
	if n == 1 {
		p = ""
	}

	return fmt.Sprintf("%d %s%s", n, label, p)
}
