// Released under an MIT license. See LICENSE.

// Package list provides common list operations. A list is not a true type.
// Lists are more of a type by convention. They are composed of cons cells.
package list

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
)

// Join returns a new list with every element from every list in lists.
// The last list is shared, not copied.
// A non-pair where a pair is expected will cause a panic.
// All lists must be non-circular.
func Join(lists ...cell.I) cell.I {
	if len(lists) == 0 {
		return pair.Null
	}

	joined := lists[len(lists)-1]

	for i := len(lists) - 2; i >= 0; i-- {
		elements := Slice(lists[i])
		for j := len(elements) - 1; j >= 0; j-- {
			joined = pair.Cons(elements[j], joined)
		}
	}

	return joined
}

// Length returns the number of elements in list.
// A non-pair value where a pair is expected will cause a panic.
// The list must be non-circular.
func Length(list cell.I) int64 {
	var length int64

	for list != nil && list != pair.Null {
		length++

		list = pair.Cdr(list)
	}

	return length
}

// New creates a new list composed of all of the elements in elements.
func New(elements ...cell.I) cell.I {
	l := pair.Null

	for i := len(elements) - 1; i >= 0; i-- {
		l = pair.Cons(elements[i], l)
	}

	return l
}

// Reverse reverses list.
// A non-pair value where a pair is expected will cause a panic.
// The list must be non-circular.
func Reverse(list cell.I) cell.I {
	reversed := pair.Null

	for list != nil && list != pair.Null {
		reversed = pair.Cons(pair.Car(list), reversed)

		list = pair.Cdr(list)
	}

	return reversed
}

// Slice returns the elements of list as a Go slice.
// A non-pair value where a pair is expected will cause a panic.
// The list must be non-circular.
func Slice(list cell.I) []cell.I {
	var elements []cell.I

	for list != nil && list != pair.Null {
		elements = append(elements, pair.Car(list))

		list = pair.Cdr(list)
	}

	return elements
}
