// Released under an MIT license. See LICENSE.

package task

import (
	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/node"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/type/special"
	"github.com/michaelmacinnis/softmacs/internal/common/type/sym"
	"github.com/michaelmacinnis/softmacs/internal/common/validate"
)

// Primitive, Operative, Applicative and Continuation all conform to the
// combiner interface. Combine is called with the operands in code, the
// calling env in env, and the operation to replace on top of the stack.
type combiner interface {
	cell.I

	Combine(*T) Op
}

// Primitive is an operative implemented by an action.
type Primitive struct {
	name string
	op   Op
}

// Children returns nothing. A primitive is identified by its name.
func (p *Primitive) Children() []cell.I {
	return nil
}

// Combine sets up the operations required to execute the primitive p.
func (p *Primitive) Combine(t *T) Op {
	return t.ReplaceOp(p.op)
}

// Equal returns true if c is the same primitive as p.
func (p *Primitive) Equal(c cell.I) bool {
	o, ok := c.(*Primitive)

	return ok && o == p
}

// Kind returns the tag for primitives.
func (p *Primitive) Kind() byte {
	return node.Primitive
}

// Label returns the name of the primitive p.
func (p *Primitive) Label() string {
	return p.name
}

// Literal returns the literal representation of the primitive p.
func (p *Primitive) Literal() string {
	return "#[operative " + p.name + "]"
}

// Name returns the name of the primitive type.
func (p *Primitive) Name() string {
	return "operative"
}

// Operative is a user-defined combiner. Its operands are not evaluated.
type Operative struct {
	body   cell.I
	envp   cell.I // Label for the calling env.
	params cell.I // Parameter tree.
	static *env.T // The env where the operative was created.
}

// Children returns the structure of the operative o.
func (o *Operative) Children() []cell.I {
	return []cell.I{o.params, o.envp, o.body, o.static}
}

// Combine binds the operands to the parameter tree in a new child of the
// static env and evaluates the body there.
//
// Result:
//
//	code:  Body
//	env:   New env with bindings for the calling env and parameters.
//	stack: evalBlock Restore(env: Current) Previous ...
//
// Requires:
//
//	code:  Operand_0 ... Operand_N
//	env:   Current
//	stack: execCombine Previous ...
func (o *Operative) Combine(t *T) Op {
	e := env.New(o.static)

	t.bind(e, o.params, t.code)

	if o.envp != special.Ignore {
		e.Define(literal.String(o.envp), t.env)
	}

	t.ReplaceOp(&registers{env: t.env})

	t.env = e
	t.code = o.body

	return t.PushOp(Action(evalBlock))
}

// Equal returns true if c is the same operative as o.
func (o *Operative) Equal(c cell.I) bool {
	p, ok := c.(*Operative)

	return ok && p == o
}

// Kind returns the tag for operatives.
func (o *Operative) Kind() byte {
	return node.Operative
}

// Label returns the label for operatives, which is always empty.
func (o *Operative) Label() string {
	return ""
}

// Literal returns the literal representation of the operative o.
func (o *Operative) Literal() string {
	return "#[operative]"
}

// Name returns the name of the operative type.
func (o *Operative) Name() string {
	return "operative"
}

// Rebind returns o, or a copy of o closed over the clone of its static env.
func (o *Operative) Rebind(c *env.Copier) cell.I {
	static := c.Env(o.static)
	if static == o.static {
		return o
	}

	return &Operative{body: o.body, envp: o.envp, params: o.params, static: static}
}

// Applicative evaluates its operands and passes the values to the
// combiner it wraps.
type Applicative struct {
	underlying combiner
}

// Children returns the structure of the applicative a.
func (a *Applicative) Children() []cell.I {
	return []cell.I{a.underlying}
}

// Combine sets up the operations required to evaluate the operands and
// then combine the underlying combiner with the values.
//
// Result:
//
//	code:  Operand_0 ... Operand_N
//	dump:  nil Underlying ...
//	stack: evalArgs execArgs execCombine Previous ...
//
// Requires:
//
//	code:  Operand_0 ... Operand_N
//	stack: execCombine Previous ...
func (a *Applicative) Combine(t *T) Op {
	validate.Proper(t.code)

	t.ReplaceOp(Action(execCombine))
	t.PushResult(a.underlying)
	t.PushOp(Action(execArgs))
	t.PushResult(nil)

	return t.PushOp(Action(evalArgs))
}

// Equal returns true if c is an applicative that wraps the same combiner.
func (a *Applicative) Equal(c cell.I) bool {
	p, ok := c.(*Applicative)

	return ok && (p == a || p.underlying.Equal(a.underlying))
}

// Kind returns the tag for applicatives.
func (a *Applicative) Kind() byte {
	return node.Applicative
}

// Label returns the label for applicatives, which is always empty.
func (a *Applicative) Label() string {
	return ""
}

// Literal returns the literal representation of the applicative a.
func (a *Applicative) Literal() string {
	if p, ok := a.underlying.(*Primitive); ok {
		return "#[applicative " + p.name + "]"
	}

	return "#[applicative]"
}

// Name returns the name of the applicative type.
func (a *Applicative) Name() string {
	return "applicative"
}

// Rebind returns a, or a copy of a wrapping the rebound underlying combiner.
func (a *Applicative) Rebind(c *env.Copier) cell.I {
	r, ok := a.underlying.(env.Rebinder)
	if !ok {
		return a
	}

	v, ok := r.Rebind(c).(combiner)
	if !ok || v == a.underlying {
		return a
	}

	return &Applicative{underlying: v}
}

// Unwrap returns the combiner wrapped by a.
func (a *Applicative) Unwrap() cell.I {
	return a.underlying
}

// bind matches the parameter tree p against the operands v, defining
// each symbol in e.
func (t *T) bind(e *env.T, p, v cell.I) {
	switch {
	case p == special.Ignore:
		return

	case p == pair.Null:
		if t.force(v) != pair.Null {
			fault.Shape(v, "too many operands")
		}

	case sym.Is(p):
		e.Define(literal.String(p), v)

	case pair.Is(p):
		v = t.force(v)
		if !pair.Is(v) {
			fault.Shape(v, "too few operands")
		}

		t.bind(e, pair.Car(p), pair.Car(v))
		t.bind(e, pair.Cdr(p), pair.Cdr(v))

	default:
		fault.Shape(p, "malformed parameter tree")
	}
}

// A compiler-checked list of interfaces these types satisfy. Never called.
func implements() { //nolint:deadcode,unused
	var (
		a Applicative
		o Operative
		p Primitive
	)

	// The combiner types are combiners.
	_ = combiner(&a)
	_ = combiner(&o)
	_ = combiner(&p)
	_ = combiner(&Continuation{})

	// Only hashable combiners have a canonical structure.
	_ = node.I(&a)
	_ = node.I(&o)
	_ = node.I(&p)

	// So is the default prompt tag.
	_ = node.I(&defaultTag{})

	// Combiners that close over an env can be rebound.
	_ = env.Rebinder(&a)
	_ = env.Rebinder(&o)
}
