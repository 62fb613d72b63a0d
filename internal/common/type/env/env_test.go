// Released under an MIT license. See LICENSE.

package env

import (
	"testing"

	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/list"
	"github.com/michaelmacinnis/softmacs/internal/common/type/num"
	"github.com/michaelmacinnis/softmacs/internal/common/type/sym"
)

func value(t *testing.T, e *T, k string) cell.I {
	t.Helper()

	r := e.Lookup(k)
	if r == nil {
		t.Fatalf("%s is not bound", k)
	}

	return r.Get()
}

func TestDefineShadows(t *testing.T) {
	e0 := New(nil)
	e0.Define("x", num.Int(1))

	e1 := New(e0)
	e1.Define("x", num.Int(2))

	if !value(t, e1, "x").Equal(num.Int(2)) {
		t.Fatal("expected inner binding")
	}

	if !value(t, e0, "x").Equal(num.Int(1)) {
		t.Fatal("define changed the outer frame")
	}

	if e1.Lookup("y") != nil {
		t.Fatal("expected y to be unbound")
	}
}

func TestSet(t *testing.T) {
	e0 := Extend(nil, map[string]cell.I{"x": num.Int(1)})
	e1 := New(e0)

	if !e1.Set("x", num.Int(3)) {
		t.Fatal("expected x to be bound")
	}

	if !value(t, e0, "x").Equal(num.Int(3)) {
		t.Fatal("set did not update the binding frame")
	}

	if e1.Set("y", num.Int(3)) {
		t.Fatal("expected set of an unbound name to fail")
	}
}

func TestSerial(t *testing.T) {
	before := Serial()

	e := New(nil)
	if e.Serial() <= before {
		t.Fatalf("serial %d is not after %d", e.Serial(), before)
	}
}

func TestNewerCopiesOnlyNewFrames(t *testing.T) {
	outer := New(nil)
	outer.Define("shared", num.Int(0))

	mark := Serial()

	inner := New(outer)
	inner.Define("own", num.Int(1))
	inner.Define("self", list.New(sym.New("env"), inner))

	c := Newer(mark)
	clone := c.Env(inner)

	if clone == inner {
		t.Fatal("expected the inner frame to be copied")
	}

	if clone.Enclosing() != outer {
		t.Fatal("expected the outer frame to be shared")
	}

	clone.Define("own", num.Int(2))

	if !value(t, inner, "own").Equal(num.Int(1)) {
		t.Fatal("the copy shares bindings with the original")
	}

	self := list.Slice(value(t, clone, "self"))
	if self[1] != clone {
		t.Fatal("expected the cycle to point at the copy")
	}
}

func TestFreeze(t *testing.T) {
	e := Extend(nil, map[string]cell.I{"x": num.Int(1)})
	f := Freeze(e)

	e.Define("x", num.Int(2))

	if !value(t, f, "x").Equal(num.Int(1)) {
		t.Fatal("frozen copy changed")
	}
}
