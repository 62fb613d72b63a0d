// Released under an MIT license. See LICENSE.

// Package env provides softmacs's first-class environment type.
package env

import (
	"sync/atomic"

	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/node"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/reference"
	"github.com/michaelmacinnis/softmacs/internal/common/struct/hash"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/type/sym"
)

const name = "environment"

//nolint:gochecknoglobals
var serials atomic.Uint64

// T (env) is a frame of bindings chained to its parent.
type T struct {
	previous *T
	bindings *hash.T
	serial   uint64
}

type env = T

// New creates a new, empty env with parent previous, which may be nil.
func New(previous *T) *T {
	return &env{
		previous: previous,
		bindings: hash.New(),
		serial:   serials.Add(1),
	}
}

// Extend creates a new env with parent previous holding the bindings in m.
func Extend(previous *T, m map[string]cell.I) *T {
	return &env{
		previous: previous,
		bindings: hash.From(m),
		serial:   serials.Add(1),
	}
}

// Serial returns the serial number of the most recently created env.
// Every env created after the call has a larger serial number.
func Serial() uint64 {
	return serials.Load()
}

// Children returns the structure of e: its parent, then each name and value.
func (e *env) Children() []cell.I {
	keys := e.bindings.Keys()
	children := make([]cell.I, 0, 1+2*len(keys))

	if e.previous == nil {
		children = append(children, pair.Null)
	} else {
		children = append(children, e.previous)
	}

	for _, k := range keys {
		r := e.bindings.Get(k)
		if r == nil {
			continue
		}

		children = append(children, sym.New(k), r.Get())
	}

	return children
}

// Define associates the name k with the cell v in the innermost frame of e.
func (e *env) Define(k string, v cell.I) {
	e.bindings.Set(k, v)
}

// Enclosing returns the parent of e.
func (e *env) Enclosing() *T {
	return e.previous
}

// Equal returns true if c is the same env as e.
func (e *env) Equal(c cell.I) bool {
	return Is(c) && e == To(c)
}

// Keys returns the names bound in the innermost frame of e, sorted.
func (e *env) Keys() []string {
	return e.bindings.Keys()
}

// Kind returns the tag for envs.
func (e *env) Kind() byte {
	return node.Environment
}

// Label returns the label for envs, which is always empty.
func (e *env) Label() string {
	return ""
}

// Lookup retrieves the reference associated with the name k in the env e.
func (e *env) Lookup(k string) reference.I {
	for ; e != nil; e = e.previous {
		if v := e.bindings.Get(k); v != nil {
			return v
		}
	}

	return nil
}

// Name returns the type name for the env e.
func (e *env) Name() string {
	return name
}

// Serial returns the creation order of e.
func (e *env) Serial() uint64 {
	return e.serial
}

// Set changes the value of the innermost binding for the name k.
// It returns false if k is not bound.
func (e *env) Set(k string, v cell.I) bool {
	r := e.Lookup(k)
	if r == nil {
		return false
	}

	r.Set(v)

	return true
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t env

	// The env type is a cell.
	_ = cell.I(&t)

	// The env type has a canonical structure.
	_ = node.I(&t)
}
