// Released under an MIT license. See LICENSE.

package commands

import (
	"errors"
	"testing"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/boolean"
	"github.com/michaelmacinnis/softmacs/internal/common/type/list"
	"github.com/michaelmacinnis/softmacs/internal/common/type/num"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/type/str"
	"github.com/michaelmacinnis/softmacs/internal/common/type/sym"
)

func call(t *testing.T, name string, args ...cell.I) cell.I {
	t.Helper()

	fn, ok := Functions()[name]
	if !ok {
		t.Fatalf("%s is not defined", name)
	}

	return fn(list.New(args...))
}

func check(t *testing.T, name string, expected cell.I, args ...cell.I) {
	t.Helper()

	if actual := call(t, name, args...); !actual.Equal(expected) {
		t.Errorf("(%s ...): expected %v, got %v", name, expected, actual)
	}
}

func n(i int) cell.I {
	return num.Int(i)
}

func TestArithmetic(t *testing.T) {
	check(t, "+", n(0))
	check(t, "+", n(6), n(1), n(2), n(3))
	check(t, "-", n(-4), n(4))
	check(t, "-", n(1), n(4), n(2), n(1))
	check(t, "*", n(24), n(2), n(3), n(4))
	check(t, "/", n(2), n(8), n(4))
	check(t, "/", num.New("1/4"), n(4))
}

func TestDivisionByZero(t *testing.T) {
	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, fault.ErrArityOrShape) {
			t.Fatalf("expected ArityOrShape, got %v", err)
		}
	}()

	call(t, "/", n(1), n(0))
}

func TestRelational(t *testing.T) {
	check(t, "<", boolean.True, n(1), n(2), n(3))
	check(t, "<", boolean.False, n(1), n(3), n(2))
	check(t, "<=", boolean.True, n(1), n(1), n(2))
	check(t, ">", boolean.False, n(3), n(1), n(2))
	check(t, ">=", boolean.True, n(3), n(3), n(1))
	check(t, "=", boolean.True, n(2), num.New("4/2"))
}

func TestEquality(t *testing.T) {
	a := list.New(n(1), str.New("a"))
	b := list.New(n(1), str.New("a"))

	check(t, "equal?", boolean.True, a, b)
	check(t, "equal?", boolean.False, a, list.New(n(1), sym.New("a")))
	check(t, "eq?", boolean.False, a, b)
	check(t, "eq?", boolean.True, a, a)
	check(t, "eq?", boolean.True, sym.New("x"), sym.New("x"))
}

func TestLists(t *testing.T) {
	check(t, "list", list.New(n(1), n(2)), n(1), n(2))
	check(t, "length", n(3), list.New(n(1), n(2), n(3)))
	check(t, "reverse", list.New(n(2), n(1)), list.New(n(1), n(2)))
	check(t, "append", list.New(n(1), n(2), n(3)), list.New(n(1)), list.New(n(2), n(3)))
	check(t, "append", pair.Null)
}

func TestPredicates(t *testing.T) {
	check(t, "null?", boolean.True, pair.Null)
	check(t, "pair?", boolean.False, pair.Null)
	check(t, "symbol?", boolean.True, sym.New("x"))
	check(t, "number?", boolean.True, n(1))
	check(t, "string?", boolean.False, sym.New("x"))
	check(t, "boolean?", boolean.True, boolean.False)
	check(t, "not", boolean.True, boolean.False)
	check(t, "not", boolean.False, pair.Null)
}

func TestWalks(t *testing.T) {
	for name := range Functions() {
		want := name == "append" || name == "equal?" || name == "length" || name == "reverse"
		if Walks(name) != want {
			t.Errorf("%s: expected Walks to be %v", name, want)
		}
	}
}
