// Released under an MIT license. See LICENSE.

package env

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/struct/hash"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
)

// Rebinder is implemented by values that close over an env.
type Rebinder interface {
	Rebind(c *Copier) cell.I
}

// Copier clones the frames selected by a predicate. Each frame is cloned
// at most once, so shared and cyclic structure is preserved.
type Copier struct {
	memo map[*T]*T
	pick func(*T) bool
}

// NewCopier creates a Copier that clones every frame for which pick is true.
func NewCopier(pick func(*T) bool) *Copier {
	return &Copier{memo: map[*T]*T{}, pick: pick}
}

// Freeze returns a deep copy of e and all of its ancestors.
func Freeze(e *T) *T {
	return NewCopier(func(*T) bool { return true }).Env(e)
}

// Snapshot returns v with every env it reaches replaced by a deep copy.
func Snapshot(v cell.I) cell.I {
	return NewCopier(func(*T) bool { return true }).Value(v)
}

// Newer returns a Copier that clones frames created after serial.
func Newer(serial uint64) *Copier {
	return NewCopier(func(e *T) bool { return e.serial > serial })
}

// Env returns the clone of e, or e if e is not selected.
func (c *Copier) Env(e *T) *T {
	if e == nil || !c.pick(e) {
		return e
	}

	if d, ok := c.memo[e]; ok {
		return d
	}

	d := &env{
		bindings: hash.New(),
		serial:   serials.Add(1),
	}
	c.memo[e] = d

	d.previous = c.Env(e.previous)

	for _, k := range e.bindings.Keys() {
		if r := e.bindings.Get(k); r != nil {
			d.bindings.Set(k, c.Value(r.Get()))
		}
	}

	return d
}

// Value returns v with every selected frame it reaches replaced by its clone.
func (c *Copier) Value(v cell.I) cell.I {
	switch t := v.(type) {
	case *T:
		return c.Env(t)
	case Rebinder:
		return t.Rebind(c)
	}

	if v == pair.Null || !pair.Is(v) {
		return v
	}

	car := pair.Car(v)
	cdr := pair.Cdr(v)

	ncar := c.Value(car)
	ncdr := c.Value(cdr)

	if ncar == car && ncdr == cdr {
		return v
	}

	return pair.Cons(ncar, ncdr)
}
