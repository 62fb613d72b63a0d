// Released under an MIT license. See LICENSE.

package task

import (
	"sync/atomic"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/type/special"
	"github.com/michaelmacinnis/softmacs/internal/common/validate"
)

// Continuation is a captured segment of the machine: the operations from
// the point of capture down to a prompt, the results above the prompt's
// dump, and the env and code registers. Slices are ordered top first.
type Continuation struct {
	code   cell.I
	depth  []int // For each prompt in ops, its dump's depth above the delimiter's.
	dump   []cell.I
	env    *env.T
	ops    []Op
	serial uint64
	tag    cell.I
	used   atomic.Bool
}

// Combine resumes the continuation k with the value of its operand. The
// segment is pushed on top of the current stack, under a fresh prompt, so
// the combination returns the value of the delimited region.
//
// Every env frame created inside the region is copied as it is when the
// continuation is resumed. Each resumption gets its own frames, but changes
// made to the originals after the capture are carried into the copies.
//
// Result:
//
//	dump:  Value Result_0 ... Result_N ...
//	stack: Op_0 ... Op_N Prompt Restore(env: Current) Previous ...
//
// Requires:
//
//	code:  Value
//	stack: execCombine Previous ...
func (k *Continuation) Combine(t *T) Op {
	v := validate.Fixed(t.code, 0, 1)

	value := special.Inert
	if len(v) == 1 {
		value = v[0]
	}

	if t.single && k.used.Swap(true) {
		panic(fault.New(fault.ContinuationReused, k, ""))
	}

	t.RemoveOp()

	if !t.prompted() {
		panic(fault.New(fault.NoActivePrompt, k.tag, ""))
	}

	t.PushOp(&registers{env: t.env, code: t.code})

	serial := env.Serial()
	c := env.Newer(k.serial)

	// suffix[n] is the new dump with the bottom n results pushed.
	suffix := make([]cell.I, len(k.dump)+1)
	suffix[0] = t.dump

	for i := len(k.dump) - 1; i >= 0; i-- {
		suffix[len(k.dump)-i] = pair.Cons(c.Value(k.dump[i]), suffix[len(k.dump)-i-1])
	}

	for i := len(k.ops) - 1; i >= 0; i-- {
		t.stack = &stack{t.stack, remap(k.ops[i], c, suffix[k.depth[i]], serial)}
	}

	t.dump = suffix[len(k.dump)]
	t.env = c.Env(k.env)
	t.code = c.Value(k.code)

	t.log.Debug("resumed", "ops", len(k.ops), "results", len(k.dump))

	t.PushResult(value)

	return t.Op()
}

// Equal returns true if c is the same continuation as k.
func (k *Continuation) Equal(c cell.I) bool {
	o, ok := c.(*Continuation)

	return ok && o == k
}

// Literal returns the literal representation of the continuation k.
func (k *Continuation) Literal() string {
	return "#[continuation]"
}

// Name returns the name of the continuation type.
func (k *Continuation) Name() string {
	return "continuation"
}

func remap(o Op, c *env.Copier, dump cell.I, serial uint64) Op {
	switch o := o.(type) {
	case *prompt:
		return &prompt{dump: dump, serial: serial, tag: o.tag}

	case *registers:
		r := *o

		r.env = c.Env(o.env)
		if o.code != nil {
			r.code = c.Value(o.code)
		}

		return &r
	}

	return o
}
