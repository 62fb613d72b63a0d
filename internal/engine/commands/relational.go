// Released under an MIT license. See LICENSE.

package commands

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/rational"
	"github.com/michaelmacinnis/softmacs/internal/common/type/boolean"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/validate"
	"github.com/michaelmacinnis/softmacs/internal/store"
)

// Terms are equal? when their hashes are equal. Terms without a hash are
// only equal to themselves.
func equal(args cell.I) cell.I {
	v := validate.Fixed(args, 2, 2)

	a, _, err := store.Sum(v[0])
	if err != nil {
		return boolean.Bool(v[0] == v[1])
	}

	b, _, err := store.Sum(v[1])
	if err != nil {
		return boolean.False
	}

	return boolean.Bool(a == b)
}

// Pairs are eq? when they are the same pair. Other terms are eq? when
// they are equal.
func eq(args cell.I) cell.I {
	v := validate.Fixed(args, 2, 2)

	if pair.Is(v[0]) || pair.Is(v[1]) {
		return boolean.Bool(v[0] == v[1])
	}

	return boolean.Bool(v[0].Equal(v[1]))
}

func compare(args cell.I, ok func(int) bool) cell.I {
	v, rest := validate.Variadic(args, 1, 1)

	prev := rational.Number(v[0])

	for ; rest != pair.Null; rest = pair.Cdr(rest) {
		curr := rational.Number(pair.Car(rest))

		if !ok(prev.Cmp(curr)) {
			return boolean.False
		}

		prev = curr
	}

	return boolean.True
}

func ge(args cell.I) cell.I {
	return compare(args, func(c int) bool { return c >= 0 })
}

func gt(args cell.I) cell.I {
	return compare(args, func(c int) bool { return c > 0 })
}

func le(args cell.I) cell.I {
	return compare(args, func(c int) bool { return c <= 0 })
}

func lt(args cell.I) cell.I {
	return compare(args, func(c int) bool { return c < 0 })
}

func numeq(args cell.I) cell.I {
	return compare(args, func(c int) bool { return c == 0 })
}
