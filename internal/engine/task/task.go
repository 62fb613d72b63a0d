// Released under an MIT license. See LICENSE.

// Package task provides the machinery used to evaluate softmacs terms.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/common/type/list"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/type/ref"
	"github.com/michaelmacinnis/softmacs/internal/store"
)

// The context is checked once every interval steps.
const interval = 1024

// Options configure a task.
type Options struct {
	Logger     *slog.Logger
	SingleShot bool         // Continuations may be invoked at most once.
	Store      *store.Store // Used to intern and resolve terms.
	Trace      bool         // Log every step at debug level.
}

// T (task) encapsulates a single evaluation.
type T struct {
	*registers
	ctx    context.Context //nolint:containedctx
	log    *slog.Logger
	single bool
	store  *store.Store
	trace  bool
}

// New creates a new task that evaluates c in e.
// The evaluation is delimited by a prompt with the Default tag.
func New(o Options, c cell.I, e *env.T) *T {
	t := &T{
		registers: &registers{
			code:  c,
			dump:  pair.Null,
			env:   e,
			stack: done,
		},
		ctx:    context.Background(),
		log:    o.Logger,
		single: o.SingleShot,
		store:  o.Store,
		trace:  o.Trace,
	}

	if t.log == nil {
		t.log = slog.Default()
	}

	t.PushOp(&prompt{dump: t.dump, serial: env.Serial(), tag: Default})
	t.PushOp(Action(evalElement))

	return t
}

// Return pushes the result c and returns the previous operation.
func (t *T) Return(c cell.I) Op {
	t.PushResult(c)

	return t.PreviousOp()
}

// Run steps through a task's operations until they are exhausted or ctx
// is done. It returns the value of the term or the failure that stopped it.
func (t *T) Run(ctx context.Context) (cell.I, error) {
	t.ctx = ctx

	var err error

	s := t.Op()
	for n := 0; s != nil; n++ {
		if n%interval == 0 {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
		}

		s, err = t.Step(s)
		if err != nil {
			return nil, err
		}
	}

	return t.Result(), nil
}

// Step performs a single action and determines the next action.
// Failures raised by the action are returned. Store corruption is not
// a failure the task can recover from and is raised again.
func (t *T) Step(s Op) (op Op, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		switch r := r.(type) {
		case *store.Corruption:
			panic(r)
		case *fault.T:
			err = r
		case error:
			err = fault.Wrap(fault.Internal, nil, r)
		default:
			err = fault.New(fault.Internal, nil, fmt.Sprint(r))
		}

		op = nil
	}()

	if t.trace {
		t.log.Debug("step", "op", opString(s), "stack", t.stackString(), "code", literal.String(t.code))
	}

	return s.Perform(t), nil
}

// force replaces a content reference with the term it refers to.
func (t *T) force(c cell.I) cell.I {
	for {
		r, ok := c.(*ref.T)
		if !ok {
			return c
		}

		c = t.resolve(r.Hash())
	}
}

// forceEach returns the list c with each content reference among its
// elements replaced by the term it refers to.
func (t *T) forceEach(c cell.I) cell.I {
	vs := list.Slice(c)
	changed := false

	for i, v := range vs {
		if f := t.force(v); f != v {
			vs[i] = f
			changed = true
		}
	}

	if !changed {
		return c
	}

	return list.New(vs...)
}

func (t *T) resolve(h ref.Hash) cell.I {
	if t.store == nil {
		panic(fault.New(fault.UnresolvedReference, ref.New(h), "no store"))
	}

	c, err := t.store.Resolve(t.ctx, h)
	if err != nil {
		panic(err)
	}

	return c
}

// walk returns c with each content reference on its spine replaced by the
// term it refers to. When deep is true the elements are walked as well.
// Parts of c that hold no references are shared, not copied.
func (t *T) walk(c cell.I, deep bool) cell.I {
	c = t.force(c)
	if !pair.Is(c) {
		return c
	}

	var elements []cell.I

	changed := false

	l := c
	for pair.Is(l) {
		e := pair.Car(l)
		if deep {
			if v := t.walk(e, true); v != e {
				e = v
				changed = true
			}
		}

		elements = append(elements, e)

		next := pair.Cdr(l)
		l = t.force(next)
		changed = changed || l != next
	}

	if !changed {
		return c
	}

	for i := len(elements) - 1; i >= 0; i-- {
		l = pair.Cons(elements[i], l)
	}

	return l
}

func (t *T) stackString() string {
	ops := []string{}

	for p := t.stack; p != done; p = p.stack {
		ops = append(ops, opString(p.op))
	}

	return strings.Join(ops, " ")
}
